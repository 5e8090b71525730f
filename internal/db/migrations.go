package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// Ensure new columns exist on upgrades
	if err := ensureManifestColumns(db); err != nil {
		return err
	}
	return nil
}

// ensureManifestColumns checks for optional columns and adds them when missing.
func ensureManifestColumns(db *sql.DB) error {
	cols, err := tableColumns(db, "manifest_entries")
	if err != nil {
		return err
	}
	if !cols["changelog_digest"] {
		if _, err := db.Exec("ALTER TABLE manifest_entries ADD COLUMN changelog_digest TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	if !cols["deprecated"] {
		if _, err := db.Exec("ALTER TABLE manifest_entries ADD COLUMN deprecated INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
