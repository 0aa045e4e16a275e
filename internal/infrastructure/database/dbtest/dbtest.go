// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

// New returns a fresh, fully migrated SQLite database in a temp directory
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg, "test", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if _, err := database.Migrate(db, database.DriverSQLite, database.Up, 0); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedMeeting inserts a meeting in the given status
func SeedMeeting(t testing.TB, db *gorm.DB, teamID uuid.UUID, status entities.MeetingStatus) *entities.Meeting {
	t.Helper()

	m, err := entities.NewMeeting(teamID, uuid.New(), "Weekly sync", "local://meetings/"+uuid.NewString()+".mp3")
	if err != nil {
		t.Fatalf("new meeting: %v", err)
	}
	m.Status = status
	if status == entities.MeetingStatusTranscribed || status == entities.MeetingStatusSummarizing || status == entities.MeetingStatusCompleted {
		transcript := "hello"
		m.Transcript = &transcript
	}
	if status == entities.MeetingStatusCompleted {
		summary := "done"
		m.Summary = &summary
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	return m
}

// SeedMember inserts an active team member
func SeedMember(t testing.TB, db *gorm.DB, teamID uuid.UUID, fullName, email string) *entities.TeamMember {
	t.Helper()

	member := &entities.TeamMember{
		ID:       uuid.New(),
		TeamID:   teamID,
		FullName: fullName,
		Email:    email,
		IsActive: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	return member
}

// SeedActionItem inserts a pending action item
func SeedActionItem(t testing.TB, db *gorm.DB, meetingID uuid.UUID, c entities.Candidate) *entities.ActionItem {
	t.Helper()

	item, err := entities.NewActionItem(meetingID, c)
	if err != nil {
		t.Fatalf("new action item: %v", err)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create action item: %v", err)
	}
	return item
}
