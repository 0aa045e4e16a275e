package meeting

import (
	"time"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// UploadMeetingResponse is returned when a recording is accepted
type UploadMeetingResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID              string                `json:"id"`
	TeamID          string                `json:"team_id"`
	CreatedByID     string                `json:"created_by_id"`
	Title           string                `json:"title"`
	Status          string                `json:"status"`
	Transcript      *string               `json:"transcript,omitempty"`
	Segments        []entities.Segment    `json:"segments,omitempty"`
	Summary         *string               `json:"summary,omitempty"`
	DurationSeconds *float64              `json:"duration_seconds,omitempty"`
	Duration        string                `json:"duration,omitempty"`
	FailureCode     *string               `json:"failure_code,omitempty"`
	FailureMessage  *string               `json:"failure_message,omitempty"`
	ActionItems     []*ActionItemResponse `json:"action_items,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ActionItemResponse represents an extracted action item
type ActionItemResponse struct {
	ID                string  `json:"id"`
	MeetingID         string  `json:"meeting_id"`
	Description       string  `json:"description"`
	AssigneeMentioned *string `json:"assignee_mentioned,omitempty"`
	DeadlineMentioned *string `json:"deadline_mentioned,omitempty"` // YYYY-MM-DD
	Confidence        float64 `json:"confidence"`
	Status            string  `json:"status"`
	TaskID            *string `json:"task_id,omitempty"`
}

// ConvertActionItemResponse is returned after an action item becomes a task
type ConvertActionItemResponse struct {
	ActionItemID string  `json:"action_item_id"`
	TaskID       string  `json:"task_id"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
}
