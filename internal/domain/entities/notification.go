package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskAssignedEvent is published after an action item becomes an assigned task
type TaskAssignedEvent struct {
	TaskID     uuid.UUID  `json:"task_id"`
	TeamID     uuid.UUID  `json:"team_id"`
	AssigneeID uuid.UUID  `json:"assignee_id"`
	MeetingID  uuid.UUID  `json:"meeting_id"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedBy uuid.UUID  `json:"assigned_by"`
	OccurredAt time.Time  `json:"occurred_at"`
}
