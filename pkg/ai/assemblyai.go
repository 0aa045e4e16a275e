package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

var errTranscriptPending = errors.New("transcript still processing")

// AssemblyAIClient wraps the official SDK with upload, submit and polling
type AssemblyAIClient struct {
	sdk          *aai.Client
	languageCode string
	pollInterval time.Duration
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config
func NewAssemblyAIClient(cfg config.AssemblyAIConfig) *AssemblyAIClient {
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}

	return &AssemblyAIClient{
		sdk:          aai.NewClientWithOptions(opts...),
		languageCode: cfg.LanguageCode,
		pollInterval: interval,
	}
}

// Transcribe uploads the audio, submits a transcription and polls until it
// completes, fails or ctx expires
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio io.Reader) (aai.Transcript, error) {
	uploadURL, err := c.sdk.Upload(ctx, audio)
	if err != nil {
		return aai.Transcript{}, fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		Punctuate:  aai.Bool(true),
		FormatText: aai.Bool(true),
	}
	if c.languageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(c.languageCode)
	}

	submitted, err := c.sdk.Transcripts.SubmitFromURL(ctx, uploadURL, params)
	if err != nil {
		return aai.Transcript{}, fmt.Errorf("failed to submit transcript: %w", err)
	}
	if submitted.ID == nil {
		return aai.Transcript{}, fmt.Errorf("assemblyai returned no transcript id")
	}

	return c.Wait(ctx, *submitted.ID)
}

// Wait polls a submitted transcript until it reaches a terminal status
func (c *AssemblyAIClient) Wait(ctx context.Context, transcriptID string) (aai.Transcript, error) {
	var result aai.Transcript

	poll := func() error {
		transcript, err := c.sdk.Transcripts.Get(ctx, transcriptID)
		if err != nil {
			// Transient API errors are polled again until ctx expires.
			return err
		}

		switch transcript.Status {
		case aai.TranscriptStatusCompleted:
			result = transcript
			return nil
		case aai.TranscriptStatusError:
			msg := "AssemblyAI transcription failed"
			if transcript.Error != nil {
				msg = fmt.Sprintf("AssemblyAI error: %s", *transcript.Error)
			}
			return backoff.Permanent(errors.New(msg))
		default:
			return errTranscriptPending
		}
	}

	bo := backoff.NewConstantBackOff(c.pollInterval)
	if err := backoff.Retry(poll, backoff.WithContext(bo, ctx)); err != nil {
		return aai.Transcript{}, err
	}
	return result, nil
}
