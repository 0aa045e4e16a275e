package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

// deadlineLayout is the date format the summarization prompt asks for
const deadlineLayout = "2006-01-02"

// Parser handles parsing and validation of LLM summarization responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

type rawSummary struct {
	Summary     string          `json:"summary"`
	ActionItems []rawActionItem `json:"action_items"`
}

type rawActionItem struct {
	Description string          `json:"description"`
	Assignee    *string         `json:"assignee"`
	Deadline    *string         `json:"deadline"`
	Confidence  json.RawMessage `json:"confidence"`
}

// ParseSummary parses the model's JSON answer into a SummaryResult. Candidates
// are returned unfiltered; unparsable deadlines and confidences become empty.
func (p *Parser) ParseSummary(content string) (*entities.SummaryResult, error) {
	content = extractJSON(content)

	var raw rawSummary
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrMalformedSummary, err)
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: missing summary", usecaseErrors.ErrMalformedSummary)
	}

	result := &entities.SummaryResult{
		Summary:    summary,
		Candidates: make([]entities.Candidate, 0, len(raw.ActionItems)),
	}
	for _, item := range raw.ActionItems {
		c := entities.Candidate{
			Description: strings.TrimSpace(item.Description),
			Confidence:  parseConfidence(item.Confidence),
		}
		if item.Assignee != nil {
			c.AssigneeMentioned = normalizeOptional(*item.Assignee)
		}
		if item.Deadline != nil {
			c.DeadlineMentioned = parseDeadline(*item.Deadline)
		}
		result.Candidates = append(result.Candidates, c)
	}

	return result, nil
}

// parseConfidence accepts numbers and numeric strings; anything else is 0
func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func parseDeadline(s string) *time.Time {
	s = normalizeOptional(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// normalizeOptional maps the placeholders models use for "unknown" to ""
func normalizeOptional(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a", "unknown", "unassigned":
		return ""
	}
	return s
}

// extractJSON strips Markdown code fences around a JSON payload
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	content = strings.TrimSpace(content)

	// Some models prepend a sentence before the object.
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start != -1 && end > start {
			content = content[start : end+1]
		}
	}

	return content
}
