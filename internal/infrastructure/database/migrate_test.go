package database

import (
	"path/filepath"
	"testing"

	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "migrate.db"),
	}
}

func TestMigrateUpDownSQLite(t *testing.T) {
	db, err := Open(sqliteConfig(t), "test", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(db)

	n, err := Migrate(db, DriverSQLite, Up, 0)
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 migrations applied, got %d", n)
	}

	for _, table := range []string{"users", "tasks", "meetings", "action_items"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}

	status, err := Status(db, DriverSQLite)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, s := range status {
		if !s.Applied {
			t.Fatalf("migration %s not applied", s.ID)
		}
	}

	// Re-running is a no-op.
	if n, err := Migrate(db, DriverSQLite, Up, 0); err != nil || n != 0 {
		t.Fatalf("expected no-op, got n=%d err=%v", n, err)
	}

	if _, err := Migrate(db, DriverSQLite, Down, 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if db.Migrator().HasTable("meetings") {
		t.Fatal("meetings should be dropped")
	}
	if !db.Migrator().HasTable("users") {
		t.Fatal("users should survive a single step down")
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "mysql"}, "test", nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.db", "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"a.db?mode=rwc", "a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"a.db?_pragma=foreign_keys(0)", "a.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SQLiteDSN(tt.in); got != tt.want {
				t.Fatalf("SQLiteDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
