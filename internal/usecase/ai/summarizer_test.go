package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appErrors "github.com/FizzahNasir/FYP-Synkro/errors"
)

type fakeCompleter struct {
	response string
	err      error
	system   string
	user     string
	jsonMode bool
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, jsonMode bool) (string, error) {
	f.system, f.user, f.jsonMode = system, user, jsonMode
	return f.response, f.err
}

func TestLLMSummarizer(t *testing.T) {
	completer := &fakeCompleter{response: `{"summary":"Weekly sync.","action_items":[{"description":"Ship it","confidence":0.7}]}`}
	s := NewLLMSummarizer(completer, nil)
	s.now = func() time.Time { return time.Date(2024, 2, 12, 9, 0, 0, 0, time.UTC) }

	result, err := s.Summarize(context.Background(), "[00:00] hello", "Weekly sync")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if result.Summary != "Weekly sync." || len(result.Candidates) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !completer.jsonMode {
		t.Fatal("expected JSON mode")
	}
	for _, want := range []string{"Meeting title: Weekly sync", "Today's date: 2024-02-12", "[00:00] hello"} {
		if !strings.Contains(completer.user, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestLLMSummarizerErrors(t *testing.T) {
	tests := []struct {
		name       string
		completer  *fakeCompleter
		transcript string
	}{
		{name: "model error", completer: &fakeCompleter{err: errors.New("503")}, transcript: "hi"},
		{name: "malformed output", completer: &fakeCompleter{response: "sorry"}, transcript: "hi"},
		{name: "empty transcript", completer: &fakeCompleter{}, transcript: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLMSummarizer(tt.completer, nil).Summarize(context.Background(), tt.transcript, "t")
			if !appErrors.HasCode(err, appErrors.ErrorCode_SUMMARIZATION_FAILED) {
				t.Fatalf("expected SUMMARIZATION_FAILED, got %v", err)
			}
		})
	}
}
