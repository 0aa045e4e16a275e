package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	usecaseerrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

// ActionItemRepository handles action item data operations
type ActionItemRepository struct {
	db *gorm.DB
}

var _ repositories.ActionItemRepository = (*ActionItemRepository)(nil)

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

// FindByID retrieves an action item that belongs to the given meeting
func (r *ActionItemRepository) FindByID(ctx context.Context, meetingID, itemID uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND meeting_id = ?", itemID, meetingID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByMeeting retrieves all action items of a meeting
func (r *ActionItemRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Convert marks the item converted and inserts its task in one transaction.
// The conditional update runs first so a concurrent convert blocks on the row
// and then finds it no longer pending.
func (r *ActionItemRepository) Convert(ctx context.Context, meetingID, itemID uuid.UUID, task *entities.Task) (bool, error) {
	if task == nil {
		return false, errors.New("task cannot be nil")
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.ActionItem{}).
			Where("id = ? AND meeting_id = ? AND status = ?", itemID, meetingID, entities.ActionItemStatusPending).
			Updates(map[string]interface{}{
				"status":     entities.ActionItemStatusConverted,
				"task_id":    task.ID,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecaseerrors.ErrNotPending
		}
		return tx.Create(task).Error
	})
	if errors.Is(err, usecaseerrors.ErrNotPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Reject marks a pending item rejected
func (r *ActionItemRepository) Reject(ctx context.Context, meetingID, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ? AND meeting_id = ? AND status = ?", itemID, meetingID, entities.ActionItemStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.ActionItemStatusRejected,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
