package database

import (
	"path/filepath"
	"testing"
)

func TestOpenRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	conn, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != len(migrations) {
		t.Errorf("applied %d migrations, want %d", count, len(migrations))
	}

	if _, err := conn.Exec(`INSERT INTO retrain_status_history (kind, observed_at) VALUES ('pending', 0)`); err != nil {
		t.Errorf("history table not usable: %v", err)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	conn, err := Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := NewMigrationManager(conn).RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	conn.Close()

	reopened, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
}
