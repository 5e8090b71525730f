package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_CreatesSchema(t *testing.T) {
	dbConn, err := Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	for _, table := range []string{"manifest_entries", "manifest_meta", "audit_log", "release_candidates"} {
		var name string
		row := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("missing table %s: %v", table, err)
		}
	}
}

func TestOpen_SeedsGeneration(t *testing.T) {
	dbConn, err := Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	var gen string
	row := dbConn.QueryRow("SELECT value FROM manifest_meta WHERE key = 'generation'")
	if err := row.Scan(&gen); err != nil {
		t.Fatalf("read generation: %v", err)
	}
	if gen != "0" {
		t.Fatalf("expected generation 0, got %s", gen)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	dbConn, err := Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	if err := ApplyMigrations(dbConn); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
}
