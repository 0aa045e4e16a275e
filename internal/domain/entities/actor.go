package entities

import "github.com/google/uuid"

// Actor is the authenticated caller on whose behalf an operation runs
type Actor struct {
	UserID uuid.UUID
	TeamID uuid.UUID
	Email  string
}
