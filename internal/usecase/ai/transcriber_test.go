package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	appErrors "github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	pkgai "github.com/FizzahNasir/FYP-Synkro/pkg/ai"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

func newWhisperServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGroqTranscriber(t *testing.T) {
	ts := newWhisperServer(t, http.StatusOK, `{"text":" Let's ship on Friday. ","language":"en","duration":65,
		"segments":[{"start":0,"end":3,"text":" Let's ship"},{"start":61,"end":65,"text":" on Friday. "},{"start":65,"end":65,"text":"  "}]}`)

	client := pkgai.NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL, TranscriptionModel: "whisper-large-v3"})
	tr := NewGroqTranscriber(client, "en", nil)

	result, err := tr.Transcribe(context.Background(), []byte("audio"), entities.TranscribeOptions{Filename: "meetings/x.mp3"})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if result.Text != "Let's ship on Friday." {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected blank segment to be dropped, got %d", len(result.Segments))
	}
	if result.DurationSeconds != 65 || result.Model != "whisper-large-v3" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := entities.FormatTranscript(result.Text, result.Segments); got != "[00:00] Let's ship\n[01:01] on Friday." {
		t.Fatalf("unexpected formatted transcript %q", got)
	}
}

func TestGroqTranscriberFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		opts   entities.TranscribeOptions
		target error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "empty text", status: http.StatusOK, body: `{"text":"   ","segments":[]}`, target: usecaseErrors.ErrEmptyTranscript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newWhisperServer(t, tt.status, tt.body)
			client := pkgai.NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL})

			_, err := NewGroqTranscriber(client, "", nil).Transcribe(context.Background(), []byte("a"), tt.opts)
			if !appErrors.HasCode(err, appErrors.ErrorCode_TRANSCRIPTION_FAILED) {
				t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
			}
			if !appErrors.IsEngineError(err) {
				t.Fatal("expected an engine error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Fatalf("expected %v in chain, got %v", tt.target, err)
			}
		})
	}
}

func TestGroqTranscriberDurationLimit(t *testing.T) {
	ts := newWhisperServer(t, http.StatusOK, `{"text":"hi","duration":7300}`)
	client := pkgai.NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL})

	_, err := NewGroqTranscriber(client, "", nil).Transcribe(context.Background(), []byte("a"),
		entities.TranscribeOptions{MaxDuration: 2 * time.Hour})
	if !appErrors.HasCode(err, appErrors.ErrorCode_PAYLOAD_TOO_LARGE) {
		t.Fatalf("expected PAYLOAD_TOO_LARGE, got %v", err)
	}
	if appErrors.IsEngineError(err) {
		t.Fatal("duration limit is not an engine failure")
	}
}

func TestTranscriptionFromAssemblyAI(t *testing.T) {
	word := func(text string, start, end int64) aai.TranscriptWord {
		return aai.TranscriptWord{Text: aai.String(text), Start: aai.Int64(start), End: aai.Int64(end)}
	}

	transcript := aai.Transcript{
		Text: aai.String("Hello team. Ali will fix the build"),
		Words: []aai.TranscriptWord{
			word("Hello", 0, 400),
			word("team.", 400, 900),
			word("Ali", 61000, 61300),
			word("will", 61300, 61500),
			word("fix", 61500, 61800),
			word("the", 61800, 61900),
			word("build", 61900, 62500),
		},
	}

	result := transcriptionFromAssemblyAI(transcript)
	if result.Text != "Hello team. Ali will fix the build" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %+v", result.Segments)
	}
	if result.Segments[0].Text != "Hello team." || result.Segments[0].End != 0.9 {
		t.Fatalf("unexpected first segment %+v", result.Segments[0])
	}
	if result.Segments[1].Start != 61 || result.Segments[1].Text != "Ali will fix the build" {
		t.Fatalf("unexpected second segment %+v", result.Segments[1])
	}
	if result.DurationSeconds != 62.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds)
	}
}
