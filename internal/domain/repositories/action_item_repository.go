package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	// FindByID retrieves an item scoped to its meeting, nil when it does not exist
	FindByID(ctx context.Context, meetingID, itemID uuid.UUID) (*entities.ActionItem, error)

	// ListByMeeting retrieves all items of a meeting
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error)

	// Convert inserts the task and moves the item pending -> converted in one
	// transaction. Returns false, and inserts nothing, when the item is no longer pending.
	Convert(ctx context.Context, meetingID, itemID uuid.UUID, task *entities.Task) (bool, error)

	// Reject moves the item pending -> rejected
	Reject(ctx context.Context, meetingID, itemID uuid.UUID) (bool, error)
}
