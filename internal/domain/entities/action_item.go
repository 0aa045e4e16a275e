package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActionItemStatus represents the review state of an extracted action item
type ActionItemStatus string

const (
	ActionItemStatusPending   ActionItemStatus = "pending"
	ActionItemStatusConverted ActionItemStatus = "converted"
	ActionItemStatusRejected  ActionItemStatus = "rejected"
)

// DefaultAcceptThreshold is the minimum confidence for a candidate to be kept
const DefaultAcceptThreshold = 0.6

// ActionItem is a follow-up task suggestion extracted from a meeting summary
type ActionItem struct {
	ID                uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID         uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Description       string           `json:"description" gorm:"type:text;not null"`
	AssigneeMentioned *string          `json:"assignee_mentioned,omitempty" gorm:"type:varchar(255)"`
	DeadlineMentioned *datatypes.Date  `json:"deadline_mentioned,omitempty"`
	Confidence        float64          `json:"confidence" gorm:"not null"`
	Status            ActionItemStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	TaskID            *uuid.UUID       `json:"task_id,omitempty" gorm:"type:uuid"`
	CreatedAt         time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// BeforeCreate assigns an id when the caller did not
func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewActionItem creates a pending action item owned by the given meeting
func NewActionItem(meetingID uuid.UUID, c Candidate) (*ActionItem, error) {
	description := strings.TrimSpace(c.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return nil, ErrInvalidConfidence
	}

	item := &ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Confidence:  c.Confidence,
		Status:      ActionItemStatusPending,
	}
	if assignee := strings.TrimSpace(c.AssigneeMentioned); assignee != "" {
		item.AssigneeMentioned = &assignee
	}
	if c.DeadlineMentioned != nil {
		d := datatypes.Date(*c.DeadlineMentioned)
		item.DeadlineMentioned = &d
	}
	return item, nil
}

// IsTerminal reports whether the item has left the pending state
func (a *ActionItem) IsTerminal() bool {
	return a.Status != ActionItemStatusPending
}
