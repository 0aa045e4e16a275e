package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

func TestGroqComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if req.Model != "llama-test" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages %+v", req.Messages)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Fatalf("expected json_object response format")
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"{\"summary\":\"ok\"}"}}]}`)
	}))
	defer ts.Close()

	client := NewGroqClient(config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL, ChatModel: "llama-test"})
	out, err := client.Complete(context.Background(), "system", "user", true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestGroqCompleteStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"rate limited"}`)
	}))
	defer ts.Close()

	client := NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
	_, err := client.Complete(context.Background(), "s", "u", false)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
}

func TestGroqTranscribe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/v1/audio/transcriptions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-test" {
			t.Fatalf("unexpected model %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Fatalf("unexpected format %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file: %v", err)
		}
		defer file.Close()
		if header.Filename != "standup.mp3" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "audio-bytes" {
			t.Fatalf("unexpected file content %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"hello team","language":"en","duration":12.5,
			"segments":[{"start":0,"end":5.2,"text":" hello"},{"start":5.2,"end":12.5,"text":" team"}]}`)
	}))
	defer ts.Close()

	client := NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL, TranscriptionModel: "whisper-test"})
	resp, err := client.Transcribe(context.Background(), "standup.mp3", strings.NewReader("audio-bytes"), "en")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if resp.Text != "hello team" || resp.Duration != 12.5 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(resp.Segments) != 2 || resp.Segments[1].Start != 5.2 {
		t.Fatalf("unexpected segments %+v", resp.Segments)
	}
}
