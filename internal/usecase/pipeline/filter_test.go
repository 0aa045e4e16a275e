package pipeline

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

func TestFilterCandidates(t *testing.T) {
	meetingID := uuid.New()

	tests := []struct {
		name          string
		candidates    []entities.Candidate
		threshold     float64
		wantKept      []string
		wantDiscarded int
	}{
		{
			name:      "threshold is inclusive",
			threshold: 0.6,
			candidates: []entities.Candidate{
				{Description: "at", Confidence: 0.6},
				{Description: "below", Confidence: 0.5999},
			},
			wantKept:      []string{"at"},
			wantDiscarded: 1,
		},
		{
			name:      "blank descriptions dropped",
			threshold: 0.6,
			candidates: []entities.Candidate{
				{Description: "   ", Confidence: 0.9},
				{Description: "  trimmed  ", Confidence: 0.9},
			},
			wantKept:      []string{"trimmed"},
			wantDiscarded: 1,
		},
		{
			name:      "out of range confidences",
			threshold: 0.6,
			candidates: []entities.Candidate{
				{Description: "clamped", Confidence: 3},
				{Description: "negative", Confidence: -1},
				{Description: "nan", Confidence: math.NaN()},
			},
			wantKept:      []string{"clamped"},
			wantDiscarded: 2,
		},
		{
			name:      "empty input",
			threshold: 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, discarded := FilterCandidates(meetingID, tt.candidates, tt.threshold)
			if discarded != tt.wantDiscarded {
				t.Fatalf("expected %d discarded, got %d", tt.wantDiscarded, discarded)
			}
			if len(kept) != len(tt.wantKept) {
				t.Fatalf("expected %d kept, got %d", len(tt.wantKept), len(kept))
			}
			for i, item := range kept {
				if item.Description != tt.wantKept[i] {
					t.Fatalf("item %d: expected %q, got %q", i, tt.wantKept[i], item.Description)
				}
				if item.MeetingID != meetingID {
					t.Fatalf("item %d not owned by meeting", i)
				}
				if item.Confidence > 1 || item.Confidence < tt.threshold {
					t.Fatalf("item %d has confidence %v", i, item.Confidence)
				}
				if item.Status != entities.ActionItemStatusPending {
					t.Fatalf("item %d has status %s", i, item.Status)
				}
			}
		})
	}
}

func TestFilterCandidatesIsDeterministic(t *testing.T) {
	candidates := []entities.Candidate{
		{Description: "a", Confidence: 0.7},
		{Description: "b", Confidence: 0.2},
		{Description: "c", Confidence: 0.95},
	}

	first, _ := FilterCandidates(uuid.New(), candidates, 0.6)
	second, _ := FilterCandidates(uuid.New(), candidates, 0.6)
	if len(first) != len(second) {
		t.Fatalf("filtering is not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Description != second[i].Description {
			t.Fatalf("item %d differs: %q vs %q", i, first[i].Description, second[i].Description)
		}
	}
}
