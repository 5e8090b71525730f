package config

import (
	"path/filepath"
	"testing"
)

func TestDataDir_EnvOverride(t *testing.T) {
	t.Setenv("RELMGR_HOME", "/tmp/relmgr-test-home")
	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if d != "/tmp/relmgr-test-home" {
		t.Fatalf("expected override dir, got %s", d)
	}
}

func TestDBPath_UnderDataDir(t *testing.T) {
	t.Setenv("RELMGR_HOME", t.TempDir())
	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath: %v", err)
	}
	if filepath.Base(p) != "relmgr.db" {
		t.Fatalf("expected relmgr.db, got %s", p)
	}
}
