package pipeline

import (
	"context"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// ArtifactStore fetches recordings by reference
type ArtifactStore interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// TranscriptionEngine turns audio into a time-segmented transcript
type TranscriptionEngine interface {
	Transcribe(ctx context.Context, audio []byte, opts entities.TranscribeOptions) (*entities.Transcription, error)
}

// SummarizationEngine turns a transcript into a summary and raw candidates
type SummarizationEngine interface {
	Summarize(ctx context.Context, transcript, title string) (*entities.SummaryResult, error)
}

// DurationProber measures the audio duration of a recording
type DurationProber interface {
	ProbeDuration(ctx context.Context, data []byte) (float64, error)
}

// Dispatcher hands a pipeline job to whatever executes it
type Dispatcher interface {
	Dispatch(ctx context.Context, job entities.PipelineJob) error
}

// Handler executes one pipeline job
type Handler func(ctx context.Context, job entities.PipelineJob) error
