package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority represents task urgency
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskSourceMeeting marks tasks created from meeting action items
const TaskSourceMeeting = "meeting"

const maxTaskTitleLength = 500

// Task is a team task record. The task CRUD surface lives elsewhere; this
// service only inserts tasks created from action items.
type Task struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID      uuid.UUID       `json:"team_id" gorm:"type:uuid;not null;index"`
	Title       string          `json:"title" gorm:"type:varchar(500);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Status      TaskStatus      `json:"status" gorm:"type:varchar(20);not null;default:'todo'"`
	Priority    TaskPriority    `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	DueDate     *datatypes.Date `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID      `json:"assignee_id,omitempty" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID       `json:"created_by_id" gorm:"type:uuid;not null"`
	SourceType  string          `json:"source_type" gorm:"type:varchar(20);not null"`
	SourceID    string          `json:"source_id" gorm:"type:varchar(64);index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns an id when the caller did not
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NewTaskFromActionItem builds an open task for a converted action item
func NewTaskFromActionItem(item *ActionItem, teamID, createdByID uuid.UUID, assigneeID *uuid.UUID) *Task {
	title := item.Description
	if runes := []rune(title); len(runes) > maxTaskTitleLength {
		title = string(runes[:maxTaskTitleLength])
	}

	return &Task{
		ID:          uuid.New(),
		TeamID:      teamID,
		Title:       title,
		Description: item.Description,
		Status:      TaskStatusTodo,
		Priority:    TaskPriorityMedium,
		DueDate:     item.DeadlineMentioned,
		AssigneeID:  assigneeID,
		CreatedByID: createdByID,
		SourceType:  TaskSourceMeeting,
		SourceID:    item.MeetingID.String(),
	}
}
