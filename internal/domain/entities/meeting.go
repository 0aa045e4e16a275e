package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingStatus represents the processing state of a meeting recording
type MeetingStatus string

const (
	MeetingStatusUploaded    MeetingStatus = "uploaded"    // Artifact stored, waiting for a run
	MeetingStatusProcessing  MeetingStatus = "processing"  // Claimed by a run, transcription in progress
	MeetingStatusTranscribed MeetingStatus = "transcribed" // Transcript committed
	MeetingStatusSummarizing MeetingStatus = "summarizing" // Summarization in progress
	MeetingStatusCompleted   MeetingStatus = "completed"   // Summary and action items committed
	MeetingStatusFailed      MeetingStatus = "failed"      // Run aborted, see failure_code
)

// IsValid checks if the meeting status is one of the known states
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusUploaded, MeetingStatusProcessing, MeetingStatusTranscribed,
		MeetingStatusSummarizing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// InFlight reports whether a pipeline run currently owns the meeting
func (s MeetingStatus) InFlight() bool {
	return s == MeetingStatusProcessing || s == MeetingStatusTranscribed || s == MeetingStatusSummarizing
}

// Meeting is an uploaded recording moving through the processing pipeline
type Meeting struct {
	ID              uuid.UUID                    `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID          uuid.UUID                    `json:"team_id" gorm:"type:uuid;not null;index"`
	CreatedByID     uuid.UUID                    `json:"created_by_id" gorm:"type:uuid;not null"`
	Title           string                       `json:"title" gorm:"type:varchar(500);not null"`
	ArtifactRef     string                       `json:"artifact_ref" gorm:"type:text;not null"`
	Transcript      *string                      `json:"transcript,omitempty" gorm:"type:text"`
	Segments        datatypes.JSONSlice[Segment] `json:"segments,omitempty"`
	Summary         *string                      `json:"summary,omitempty" gorm:"type:text"`
	DurationSeconds *float64                     `json:"duration_seconds,omitempty"`
	Status          MeetingStatus                `json:"status" gorm:"type:varchar(20);not null;index;default:'uploaded'"`
	FailureCode     *string                      `json:"failure_code,omitempty" gorm:"type:varchar(64)"`
	FailureMessage  *string                      `json:"failure_message,omitempty" gorm:"type:text"`

	ActionItems []ActionItem `json:"action_items,omitempty" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// BeforeCreate assigns an id when the caller did not
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewMeeting creates a meeting in the uploaded state
func NewMeeting(teamID, createdByID uuid.UUID, title, artifactRef string) (*Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(artifactRef) == "" {
		return nil, ErrEmptyArtifactRef
	}

	now := time.Now()
	return &Meeting{
		ID:          uuid.New(),
		TeamID:      teamID,
		CreatedByID: createdByID,
		Title:       title,
		ArtifactRef: artifactRef,
		Segments:    datatypes.JSONSlice[Segment]{},
		Status:      MeetingStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// FailureReason renders the failure code and message for display
func (m *Meeting) FailureReason() string {
	if m.FailureCode == nil {
		return ""
	}
	if m.FailureMessage == nil || *m.FailureMessage == "" {
		return *m.FailureCode
	}
	return *m.FailureCode + ": " + *m.FailureMessage
}
