package errors

import "errors"

// Storage errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrInvalidArtifact  = errors.New("invalid artifact reference")
)

// Pipeline errors
var (
	ErrNotClaimed       = errors.New("meeting was not claimed")
	ErrEmptyTranscript  = errors.New("transcription returned empty text")
	ErrMalformedSummary = errors.New("malformed summarization response")
	ErrDispatcherClosed = errors.New("dispatcher is not running")
	ErrQueueFull        = errors.New("job queue is full")
)

// Action item errors
var (
	ErrNotPending = errors.New("action item is not pending")
)
