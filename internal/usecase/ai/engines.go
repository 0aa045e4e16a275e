package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	pkgai "github.com/FizzahNasir/FYP-Synkro/pkg/ai"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

// Transcriber turns audio into a time-segmented transcript
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, opts entities.TranscribeOptions) (*entities.Transcription, error)
}

// Summarizer turns a transcript into a summary and candidate action items
type Summarizer interface {
	Summarize(ctx context.Context, transcript, title string) (*entities.SummaryResult, error)
}

// NewTranscriber builds the transcription engine selected by configuration
func NewTranscriber(cfg *config.Config, logger *zap.Logger) (Transcriber, error) {
	switch cfg.Pipeline.TranscriptionProvider {
	case "groq":
		return NewGroqTranscriber(pkgai.NewGroqClient(cfg.Groq), cfg.Assembly.LanguageCode, logger), nil
	case "assemblyai":
		return NewAssemblyAITranscriber(pkgai.NewAssemblyAIClient(cfg.Assembly), logger), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Pipeline.TranscriptionProvider)
	}
}

// NewSummarizer builds the summarization engine selected by configuration
func NewSummarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Summarizer, error) {
	switch cfg.Pipeline.SummarizationProvider {
	case "groq":
		return NewLLMSummarizer(pkgai.NewGroqClient(cfg.Groq), logger), nil
	case "gemini":
		client, err := pkgai.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return NewLLMSummarizer(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown summarization provider %q", cfg.Pipeline.SummarizationProvider)
	}
}
