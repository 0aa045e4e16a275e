package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

const summarySystemPrompt = `You are an assistant that summarizes team meetings and extracts follow-up tasks.
Respond with a single JSON object and nothing else.`

const summaryUserPrompt = `Meeting title: %s
Today's date: %s

Read the transcript below and return JSON with exactly this shape:
{
  "summary": "a concise summary of the meeting in 3-6 sentences",
  "action_items": [
    {
      "description": "what needs to be done",
      "assignee": "name of the person responsible as mentioned, or null",
      "deadline": "YYYY-MM-DD if a date was mentioned or can be resolved, or null",
      "confidence": 0.0
    }
  ]
}

Rules:
- confidence is a number between 0 and 1 expressing how clearly the task was agreed on
- only include concrete, actionable tasks
- use an empty list when there are no action items

Transcript:
---
%s
---`

// Completer is a chat model that answers a system and user prompt
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// LLMSummarizer produces a summary and candidate action items through a chat model
type LLMSummarizer struct {
	completer Completer
	parser    *Parser
	logger    *zap.Logger
	now       func() time.Time
}

// NewLLMSummarizer constructs a summarization engine over the given model
func NewLLMSummarizer(completer Completer, logger *zap.Logger) *LLMSummarizer {
	return &LLMSummarizer{
		completer: completer,
		parser:    NewParser(),
		logger:    logger,
		now:       time.Now,
	}
}

// Summarize returns the meeting summary and raw candidates. Every failure is
// reported as a SUMMARIZATION_FAILED application error.
func (s *LLMSummarizer) Summarize(ctx context.Context, transcript, title string) (*entities.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.ErrSummarizationFailed(fmt.Errorf("empty transcript"))
	}

	prompt := fmt.Sprintf(summaryUserPrompt, title, s.now().Format(deadlineLayout), transcript)

	content, err := s.completer.Complete(ctx, summarySystemPrompt, prompt, true)
	if err != nil {
		return nil, errors.ErrSummarizationFailed(err)
	}

	result, err := s.parser.ParseSummary(content)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("summarizer.parse.failed",
				zap.Int("response_len", len(content)),
				zap.Error(err),
			)
		}
		return nil, errors.ErrSummarizationFailed(err)
	}

	if s.logger != nil {
		s.logger.Debug("summarizer.completed",
			zap.Int("summary_len", len(result.Summary)),
			zap.Int("candidates", len(result.Candidates)),
		)
	}
	return result, nil
}
