package entities

import (
	"fmt"
	"strings"
	"time"
)

// Segment represents a contiguous speech segment, offsets in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the output of a transcription engine
type Transcription struct {
	Text            string    `json:"text"`
	Segments        []Segment `json:"segments"`
	Language        string    `json:"language,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"` // reported by the engine, 0 when unknown
	Model           string    `json:"model,omitempty"`
}

// TranscribeOptions carries per-call limits for a transcription engine
type TranscribeOptions struct {
	Filename    string
	MaxDuration time.Duration
}

// Candidate is a raw action item suggestion before confidence filtering
type Candidate struct {
	Description       string     `json:"description"`
	AssigneeMentioned string     `json:"assignee_mentioned,omitempty"`
	DeadlineMentioned *time.Time `json:"deadline_mentioned,omitempty"`
	Confidence        float64    `json:"confidence"`
}

// SummaryResult is the output of a summarization engine
type SummaryResult struct {
	Summary    string      `json:"summary"`
	Candidates []Candidate `json:"candidates"`
}

// FormatTranscript renders segments as "[MM:SS] text" lines, falling back to
// the plain text when no segments are available.
func FormatTranscript(text string, segments []Segment) string {
	if len(segments) == 0 {
		return text
	}

	var sb strings.Builder
	for _, seg := range segments {
		line := strings.TrimSpace(seg.Text)
		if line == "" {
			continue
		}
		minutes := int(seg.Start) / 60
		seconds := int(seg.Start) % 60
		sb.WriteString(fmt.Sprintf("[%02d:%02d] %s\n", minutes, seconds, line))
	}
	if sb.Len() == 0 {
		return text
	}
	return strings.TrimRight(sb.String(), "\n")
}
