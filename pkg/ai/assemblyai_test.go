package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

func newAssemblyAIServer(t *testing.T, finalStatus string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "aai-key" {
			http.Error(w, "bad key "+got, http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "audio-bytes" {
			http.Error(w, "unexpected body", http.StatusBadRequest)
			return
		}
		writeJSON(w, `{"upload_url":"https://cdn.test/audio"}`)
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, `{"id":"tr-1","status":"queued"}`)
	})
	mux.HandleFunc("/v2/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			writeJSON(w, `{"id":"tr-1","status":"processing"}`)
			return
		}
		if finalStatus == "error" {
			writeJSON(w, `{"id":"tr-1","status":"error","error":"bad audio"}`)
			return
		}
		writeJSON(w, `{"id":"tr-1","status":"completed","text":"hello team","audio_duration":12}`)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &polls
}

func TestAssemblyAITranscribe(t *testing.T) {
	ts, polls := newAssemblyAIServer(t, "completed")

	client := NewAssemblyAIClient(config.AssemblyAIConfig{
		APIKey:       "aai-key",
		BaseURL:      ts.URL,
		PollInterval: 10 * time.Millisecond,
	})

	transcript, err := client.Transcribe(context.Background(), strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if transcript.Status != aai.TranscriptStatusCompleted {
		t.Fatalf("expected completed, got %s", transcript.Status)
	}
	if transcript.Text == nil || *transcript.Text != "hello team" {
		t.Fatalf("unexpected text %v", transcript.Text)
	}
	if polls.Load() < 2 {
		t.Fatalf("expected polling until completion, got %d polls", polls.Load())
	}
}

func TestAssemblyAITranscribeError(t *testing.T) {
	ts, _ := newAssemblyAIServer(t, "error")

	client := NewAssemblyAIClient(config.AssemblyAIConfig{
		APIKey:       "aai-key",
		BaseURL:      ts.URL,
		PollInterval: 10 * time.Millisecond,
	})

	_, err := client.Transcribe(context.Background(), strings.NewReader("audio-bytes"))
	if err == nil || !strings.Contains(err.Error(), "bad audio") {
		t.Fatalf("expected engine error, got %v", err)
	}
}
