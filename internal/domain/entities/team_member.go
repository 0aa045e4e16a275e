package entities

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is the read-only projection of a user used for assignee lookup
type TeamMember struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID    uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName maps team members onto the shared users table
func (TeamMember) TableName() string {
	return "users"
}
