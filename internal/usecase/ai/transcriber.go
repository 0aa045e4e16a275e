package ai

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	pkgai "github.com/FizzahNasir/FYP-Synkro/pkg/ai"
)

// GroqTranscriber transcribes audio through Groq's Whisper endpoint
type GroqTranscriber struct {
	client   *pkgai.GroqClient
	language string
	logger   *zap.Logger
}

// NewGroqTranscriber constructs a Whisper-backed transcription engine
func NewGroqTranscriber(client *pkgai.GroqClient, language string, logger *zap.Logger) *GroqTranscriber {
	return &GroqTranscriber{client: client, language: language, logger: logger}
}

// Transcribe sends the audio to Whisper. Failures are TRANSCRIPTION_FAILED errors.
func (t *GroqTranscriber) Transcribe(ctx context.Context, audio []byte, opts entities.TranscribeOptions) (*entities.Transcription, error) {
	filename := opts.Filename
	if filename == "" {
		filename = "audio.mp3"
	}

	resp, err := t.client.Transcribe(ctx, filepath.Base(filename), bytes.NewReader(audio), t.language)
	if err != nil {
		return nil, errors.ErrTranscriptionFailed(err)
	}

	segments := make([]entities.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, entities.Segment{Start: seg.Start, End: seg.End, Text: text})
	}

	result := &entities.Transcription{
		Text:            strings.TrimSpace(resp.Text),
		Segments:        segments,
		Language:        resp.Language,
		DurationSeconds: resp.Duration,
		Model:           t.client.TranscriptionModel(),
	}
	if err := validateTranscription(result, opts); err != nil {
		return nil, err
	}

	if t.logger != nil {
		t.logger.Debug("transcriber.groq.completed",
			zap.Int("segments", len(result.Segments)),
			zap.Float64("duration_seconds", result.DurationSeconds),
		)
	}
	return result, nil
}

// AssemblyAITranscriber transcribes audio through the AssemblyAI SDK
type AssemblyAITranscriber struct {
	client *pkgai.AssemblyAIClient
	logger *zap.Logger
}

// NewAssemblyAITranscriber constructs an AssemblyAI-backed transcription engine
func NewAssemblyAITranscriber(client *pkgai.AssemblyAIClient, logger *zap.Logger) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{client: client, logger: logger}
}

// Transcribe uploads the audio and waits for the transcript
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio []byte, opts entities.TranscribeOptions) (*entities.Transcription, error) {
	transcript, err := t.client.Transcribe(ctx, bytes.NewReader(audio))
	if err != nil {
		return nil, errors.ErrTranscriptionFailed(err)
	}

	result := transcriptionFromAssemblyAI(transcript)
	if err := validateTranscription(result, opts); err != nil {
		return nil, err
	}

	if t.logger != nil {
		id := ""
		if transcript.ID != nil {
			id = *transcript.ID
		}
		t.logger.Debug("transcriber.assemblyai.completed",
			zap.String("transcript_id", id),
			zap.Int("segments", len(result.Segments)),
		)
	}
	return result, nil
}

// transcriptionFromAssemblyAI converts SDK output, grouping words into
// sentence segments. Offsets arrive in milliseconds.
func transcriptionFromAssemblyAI(t aai.Transcript) *entities.Transcription {
	result := &entities.Transcription{Model: "assemblyai"}
	if t.Text != nil {
		result.Text = strings.TrimSpace(*t.Text)
	}

	var (
		current  []string
		segStart int64
		segEnd   int64
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		result.Segments = append(result.Segments, entities.Segment{
			Start: float64(segStart) / 1000,
			End:   float64(segEnd) / 1000,
			Text:  strings.Join(current, " "),
		})
		current = current[:0]
	}

	for _, w := range t.Words {
		if w.Text == nil || w.Start == nil || w.End == nil {
			continue
		}
		if len(current) == 0 {
			segStart = *w.Start
		}
		current = append(current, *w.Text)
		segEnd = *w.End
		if strings.HasSuffix(*w.Text, ".") || strings.HasSuffix(*w.Text, "?") || strings.HasSuffix(*w.Text, "!") {
			flush()
		}
	}
	flush()

	if n := len(result.Segments); n > 0 {
		result.DurationSeconds = result.Segments[n-1].End
	}
	return result
}

func validateTranscription(result *entities.Transcription, opts entities.TranscribeOptions) error {
	if strings.TrimSpace(result.Text) == "" {
		return errors.ErrTranscriptionFailed(usecaseErrors.ErrEmptyTranscript)
	}
	if opts.MaxDuration > 0 && result.DurationSeconds > opts.MaxDuration.Seconds() {
		return errors.ErrDurationTooLong(time.Duration(result.DurationSeconds*float64(time.Second)), opts.MaxDuration)
	}
	return nil
}
