package database

import (
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction selects which way migrations are applied
type Direction = migrate.MigrationDirection

const (
	Up   = migrate.Up
	Down = migrate.Down
)

// MigrationStatus describes one known migration
type MigrationStatus struct {
	ID      string
	Applied bool
}

func source(driver string) (*migrate.EmbedFileSystemMigrationSource, string, error) {
	switch driver {
	case DriverPostgres:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationsFS, Root: "migrations/postgres"}, "postgres", nil
	case DriverSQLite:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationsFS, Root: "migrations/sqlite"}, "sqlite3", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate applies embedded migrations in the given direction. max limits the
// number applied, 0 means all.
func Migrate(db *gorm.DB, driver string, dir Direction, max int) (int, error) {
	src, dialect, err := source(driver)
	if err != nil {
		return 0, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, dialect, src, dir, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

// Status lists the embedded migrations and whether each has been applied
func Status(db *gorm.DB, driver string) ([]MigrationStatus, error) {
	src, dialect, err := source(driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db connection: %w", err)
	}

	known, err := src.FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	records, err := migrate.GetMigrationRecords(sqlDB, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}

	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.Id] = true
	}

	out := make([]MigrationStatus, 0, len(known))
	for _, m := range known {
		out = append(out, MigrationStatus{ID: m.Id, Applied: applied[m.Id]})
	}
	return out, nil
}
