package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	usecaseerrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var inFlightStatuses = []entities.MeetingStatus{
	entities.MeetingStatusProcessing,
	entities.MeetingStatusTranscribed,
	entities.MeetingStatusSummarizing,
}

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

var _ repositories.MeetingRepository = (*MeetingRepository)(nil)

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// GetDB returns the underlying connection
func (r *MeetingRepository) GetDB() *gorm.DB {
	return r.db
}

// Create inserts a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByIDWithItems retrieves a meeting with its action items
func (r *MeetingRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("ActionItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// List retrieves meetings matching the filters, newest first
func (r *MeetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := r.db.WithContext(ctx).Model(&entities.Meeting{})
	if filters.TeamID != nil {
		query = query.Where("team_id = ?", *filters.TeamID)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}

	var meetings []*entities.Meeting
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// Claim atomically moves a meeting into processing. The WHERE clause on the
// current status is the only mutual exclusion between concurrent runs.
func (r *MeetingRepository) Claim(ctx context.Context, id uuid.UUID, from ...entities.MeetingStatus) (bool, error) {
	if len(from) == 0 {
		return false, errors.New("claim requires at least one source status")
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":           entities.MeetingStatusProcessing,
			"transcript":       nil,
			"segments":         datatypes.JSONSlice[entities.Segment]{},
			"summary":          nil,
			"duration_seconds": nil,
			"failure_code":     nil,
			"failure_message":  nil,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkTranscribed persists the transcript and the transcribed status in one write
func (r *MeetingRepository) MarkTranscribed(ctx context.Context, id uuid.UUID, transcription *entities.Transcription, durationSeconds *float64) (bool, error) {
	if transcription == nil {
		return false, errors.New("transcription cannot be nil")
	}

	segments := datatypes.JSONSlice[entities.Segment](transcription.Segments)
	if segments == nil {
		segments = datatypes.JSONSlice[entities.Segment]{}
	}

	updates := map[string]interface{}{
		"status":     entities.MeetingStatusTranscribed,
		"transcript": transcription.Text,
		"segments":   segments,
		"updated_at": time.Now(),
	}
	if durationSeconds != nil {
		updates["duration_seconds"] = *durationSeconds
	}

	return r.transition(ctx, id, entities.MeetingStatusProcessing, updates)
}

// MarkSummarizing moves a transcribed meeting into summarizing
func (r *MeetingRepository) MarkSummarizing(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, entities.MeetingStatusTranscribed, map[string]interface{}{
		"status":     entities.MeetingStatusSummarizing,
		"updated_at": time.Now(),
	})
}

// Complete commits the summary, the accepted action items and the completed
// status as a single transaction
func (r *MeetingRepository) Complete(ctx context.Context, id uuid.UUID, summary string, items []*entities.ActionItem) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Meeting{}).
			Where("id = ? AND status = ?", id, entities.MeetingStatusSummarizing).
			Updates(map[string]interface{}{
				"status":     entities.MeetingStatusCompleted,
				"summary":    summary,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecaseerrors.ErrNotClaimed
		}

		for _, item := range items {
			item.MeetingID = id
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, usecaseerrors.ErrNotClaimed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkFailed moves an in-flight meeting to failed. A transcript committed
// before the failure is kept.
func (r *MeetingRepository) MarkFailed(ctx context.Context, id uuid.UUID, code, message string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, inFlightStatuses).
		Updates(map[string]interface{}{
			"status":          entities.MeetingStatusFailed,
			"summary":         nil,
			"failure_code":    code,
			"failure_message": message,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a meeting and its action items unless a run owns it
// UpdateTitle changes only the title column
func (r *MeetingRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND status NOT IN ?", id, inFlightStatuses).Delete(&entities.Meeting{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("meeting_id = ?", id).Delete(&entities.ActionItem{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *MeetingRepository) transition(ctx context.Context, id uuid.UUID, from entities.MeetingStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
