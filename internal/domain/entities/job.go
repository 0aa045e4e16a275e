package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobKind distinguishes a first run from an explicit retry
type JobKind string

const (
	JobKindRun   JobKind = "run"
	JobKindRetry JobKind = "retry"
)

// PipelineJob is the unit of work handed to a dispatcher
type PipelineJob struct {
	MeetingID  uuid.UUID `json:"meeting_id"`
	Kind       JobKind   `json:"kind"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewPipelineJob creates a job for the given meeting
func NewPipelineJob(meetingID uuid.UUID, kind JobKind) PipelineJob {
	return PipelineJob{
		MeetingID:  meetingID,
		Kind:       kind,
		EnqueuedAt: time.Now().UTC(),
	}
}
