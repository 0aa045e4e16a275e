package ai

import (
	"errors"
	"testing"

	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "leading prose", input: "Here you go: {\"a\":1} hope it helps", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Fatalf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSummary(t *testing.T) {
	content := "```json\n" + `{
		"summary": "Release planning for v2.",
		"action_items": [
			{"description": "Update the deployment script", "assignee": "Ali", "deadline": "2024-02-16", "confidence": 0.92},
			{"description": "Book a venue", "assignee": null, "deadline": "next friday", "confidence": "0.4"},
			{"description": "  ", "assignee": "N/A", "confidence": 0.8}
		]
	}` + "\n```"

	result, err := NewParser().ParseSummary(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Summary != "Release planning for v2." {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(result.Candidates))
	}

	first := result.Candidates[0]
	if first.AssigneeMentioned != "Ali" || first.Confidence != 0.92 {
		t.Fatalf("unexpected first candidate %+v", first)
	}
	if first.DeadlineMentioned == nil || first.DeadlineMentioned.Format("2006-01-02") != "2024-02-16" {
		t.Fatalf("unexpected deadline %v", first.DeadlineMentioned)
	}

	second := result.Candidates[1]
	if second.AssigneeMentioned != "" || second.DeadlineMentioned != nil {
		t.Fatalf("expected no assignee and no deadline, got %+v", second)
	}
	if second.Confidence != 0.4 {
		t.Fatalf("expected string confidence to parse, got %v", second.Confidence)
	}

	if result.Candidates[2].Description != "" || result.Candidates[2].AssigneeMentioned != "" {
		t.Fatalf("unexpected third candidate %+v", result.Candidates[2])
	}
}

func TestParseSummaryMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":        "I could not summarize this meeting.",
		"missing summary": `{"action_items": []}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().ParseSummary(content)
			if !errors.Is(err, usecaseErrors.ErrMalformedSummary) {
				t.Fatalf("expected ErrMalformedSummary, got %v", err)
			}
		})
	}
}
