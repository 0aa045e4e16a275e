package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
)

// TeamMemberRepository handles access to team members
type TeamMemberRepository struct {
	db *gorm.DB
}

var _ repositories.TeamMemberRepository = (*TeamMemberRepository)(nil)

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// SearchByNameOrEmail finds active members whose name or email contains term
func (r *TeamMemberRepository) SearchByNameOrEmail(ctx context.Context, teamID uuid.UUID, term string, limit int) ([]*entities.TeamMember, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var members []*entities.TeamMember
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Where("(LOWER(full_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", pattern, pattern).
		Order("full_name ASC").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Create inserts a team member
func (r *TeamMemberRepository) Create(ctx context.Context, member *entities.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// FindByEmail retrieves a member by email, or nil when none exists
func (r *TeamMemberRepository) FindByEmail(ctx context.Context, email string) (*entities.TeamMember, error) {
	var member entities.TeamMember
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// ListByTeam returns every member of a team, active or not
func (r *TeamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error) {
	var members []*entities.TeamMember
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("full_name ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// TaskRepository handles read access to tasks
type TaskRepository struct {
	db *gorm.DB
}

var _ repositories.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID retrieves a task by ID
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var task entities.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// ListBySource retrieves tasks created from the given source
func (r *TaskRepository) ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entities.Task, error) {
	var tasks []*entities.Task
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return replacer.Replace(s)
}
