package entities

import "errors"

// Entity validation errors
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyArtifactRef  = errors.New("artifact reference cannot be empty")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)
