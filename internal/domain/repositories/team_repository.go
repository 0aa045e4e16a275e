package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// TeamMemberRepository looks up members of a team
type TeamMemberRepository interface {
	// SearchByNameOrEmail returns up to limit active members whose full name or
	// email contains term, case-insensitively
	SearchByNameOrEmail(ctx context.Context, teamID uuid.UUID, term string, limit int) ([]*entities.TeamMember, error)
}

// TaskRepository reads tasks created by the converter
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entities.Task, error)
}
