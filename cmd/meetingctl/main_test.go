package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database/dbtest"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jwt"
)

func setupSQLiteEnv(t *testing.T) config.DatabaseConfig {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", path)
	return config.DatabaseConfig{Driver: database.DriverSQLite, SQLitePath: path}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	setupSQLiteEnv(t)

	out, err := runCLI(t, "migrate", "up")
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !strings.Contains(out, "Applied 2 migration(s) up") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	if !strings.Contains(out, "0002_meetings.sql") || strings.Contains(out, "pending") {
		t.Fatalf("expected all migrations applied, got:\n%s", out)
	}

	out, err = runCLI(t, "migrate", "down")
	if err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if !strings.Contains(out, "Applied 1 migration(s) down") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	if !strings.Contains(out, "pending") {
		t.Fatalf("expected a pending migration after down, got:\n%s", out)
	}
}

func TestMeetingsListAndShow(t *testing.T) {
	dbCfg := setupSQLiteEnv(t)
	if _, err := runCLI(t, "migrate", "up"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	db, err := database.Open(dbCfg, "test", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	teamID := uuid.New()
	completed := dbtest.SeedMeeting(t, db, teamID, entities.MeetingStatusCompleted)
	dbtest.SeedActionItem(t, db, completed.ID, entities.Candidate{Description: "Send the report", Confidence: 0.9})
	dbtest.SeedMeeting(t, db, uuid.New(), entities.MeetingStatusUploaded)
	_ = database.Close(db)

	out, err := runCLI(t, "meetings", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Count(out, "Weekly sync") != 2 {
		t.Fatalf("expected both meetings listed, got:\n%s", out)
	}

	out, err = runCLI(t, "meetings", "list", "--status", "completed")
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if !strings.Contains(out, completed.ID.String()) || strings.Contains(out, "uploaded") {
		t.Fatalf("expected only the completed meeting, got:\n%s", out)
	}

	out, err = runCLI(t, "meetings", "list", "--status", "failed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No meetings") {
		t.Fatalf("expected empty list, got:\n%s", out)
	}

	out, err = runCLI(t, "meetings", "list", "--team", teamID.String())
	if err != nil {
		t.Fatalf("list team: %v", err)
	}
	if strings.Count(out, "Weekly sync") != 1 {
		t.Fatalf("expected one team meeting, got:\n%s", out)
	}

	out, err = runCLI(t, "meetings", "show", completed.ID.String())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Status:   completed", "Summary:", "Send the report", "0.90", "pending"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMeetingsArgumentErrors(t *testing.T) {
	setupSQLiteEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown status", args: []string{"meetings", "list", "--status", "done"}},
		{name: "bad team id", args: []string{"meetings", "list", "--team", "nope"}},
		{name: "bad meeting id", args: []string{"meetings", "show", "nope"}},
		{name: "missing meeting id", args: []string{"meetings", "show"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	seconds := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "unknown", in: nil, want: "-"},
		{name: "rounded", in: seconds(95.4), want: "1m35s"},
		{name: "hours", in: seconds(3723), want: "1h2m3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.in); got != tt.want {
				t.Fatalf("formatDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintMeetingsRelativeTime(t *testing.T) {
	now := time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
	m := &entities.Meeting{
		ID:        uuid.New(),
		Title:     "Standup",
		Status:    entities.MeetingStatusUploaded,
		CreatedAt: now.Add(-2 * time.Hour),
	}

	var out bytes.Buffer
	printMeetings(&out, []*entities.Meeting{m}, now)
	if !strings.Contains(out.String(), "2 hours ago") {
		t.Fatalf("expected relative created time, got:\n%s", out.String())
	}
}

func TestTeamCommands(t *testing.T) {
	setupSQLiteEnv(t)
	t.Setenv("AUTH_ACCESS_SECRET", "cli-secret")
	if _, err := runCLI(t, "migrate", "up"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	teamID := uuid.New()
	out, err := runCLI(t, "team", "seed", "--team", teamID.String())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if strings.Count(out, "@test.local") != len(seedMembers) {
		t.Fatalf("expected %d seeded members, got:\n%s", len(seedMembers), out)
	}

	// Seeding again reuses the existing rows.
	if _, err := runCLI(t, "team", "seed", "--team", teamID.String()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	out, err = runCLI(t, "team", "list", teamID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Count(out, "@test.local") != len(seedMembers) {
		t.Fatalf("expected %d members, got:\n%s", len(seedMembers), out)
	}

	out, err = runCLI(t, "team", "token", "BOB@test.local")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := jwt.NewManager("cli-secret", "synkro", time.Hour).ValidateAccessToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.TeamID != teamID || claims.Email != "bob@test.local" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := runCLI(t, "team", "token", "nobody@test.local"); err == nil {
		t.Fatal("expected an error for an unknown member")
	}
}

func TestMeetingsTasks(t *testing.T) {
	dbCfg := setupSQLiteEnv(t)
	if _, err := runCLI(t, "migrate", "up"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	db, err := database.Open(dbCfg, "test", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m := dbtest.SeedMeeting(t, db, uuid.New(), entities.MeetingStatusCompleted)
	due := datatypes.Date(time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC))
	task := &entities.Task{
		TeamID:      m.TeamID,
		Title:       "Send the report",
		Status:      entities.TaskStatusTodo,
		Priority:    entities.TaskPriorityMedium,
		DueDate:     &due,
		CreatedByID: uuid.New(),
		SourceType:  entities.TaskSourceMeeting,
		SourceID:    m.ID.String(),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	_ = database.Close(db)

	out, err := runCLI(t, "meetings", "tasks", m.ID.String())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	for _, want := range []string{"Send the report", "unassigned", "2024-02-16", "todo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "meetings", "tasks", uuid.NewString())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if !strings.Contains(out, "No tasks") {
		t.Fatalf("expected no tasks, got:\n%s", out)
	}
}
