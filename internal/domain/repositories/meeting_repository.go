package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access.
// Every status transition is a conditional update; the bool result reports
// whether the row was in an expected state and has been moved.
type MeetingRepository interface {
	// Create inserts a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID, nil when it does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDWithItems retrieves a meeting with its action items preloaded
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// List retrieves meetings matching the filters, newest first
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, error)

	// Claim moves the meeting to processing if its status is one of from,
	// clearing all pipeline outputs and failure fields
	Claim(ctx context.Context, id uuid.UUID, from ...entities.MeetingStatus) (bool, error)

	// MarkTranscribed stores the transcript and moves processing -> transcribed
	MarkTranscribed(ctx context.Context, id uuid.UUID, transcription *entities.Transcription, durationSeconds *float64) (bool, error)

	// MarkSummarizing moves transcribed -> summarizing
	MarkSummarizing(ctx context.Context, id uuid.UUID) (bool, error)

	// Complete inserts the action items, stores the summary and moves
	// summarizing -> completed in one transaction
	Complete(ctx context.Context, id uuid.UUID, summary string, items []*entities.ActionItem) (bool, error)

	// MarkFailed moves an in-flight meeting to failed with a reason
	MarkFailed(ctx context.Context, id uuid.UUID, code, message string) (bool, error)

	// UpdateTitle renames a meeting without touching pipeline outputs
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (bool, error)

	// Delete removes a meeting that is not in flight, together with its action items
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	TeamID   *uuid.UUID
	Statuses []entities.MeetingStatus
	Limit    int
	Offset   int
}
