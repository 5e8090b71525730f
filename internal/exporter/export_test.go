package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/relops/relmgr/internal/db"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/semver"
)

func setupStore(t *testing.T) *manifest.Store {
	t.Helper()
	dbConn, err := db.Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })
	return manifest.NewStore(dbConn)
}

func ver(t *testing.T, s string) semver.Version {
	t.Helper()
	v, err := semver.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestExportManifest_WritesWireForm(t *testing.T) {
	st := setupStore(t)
	for _, s := range []string{"0.5.0", "0.6.0"} {
		if _, err := st.Append(manifest.Entry{Version: ver(t, s)}, "test"); err != nil {
			t.Fatalf("Append(%s): %v", s, err)
		}
	}
	if _, err := st.SetLatest(ver(t, "0.6.0"), "test"); err != nil {
		t.Fatalf("SetLatest: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "manifest.json")
	if err := ExportManifest(st, dst); err != nil {
		t.Fatalf("ExportManifest: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc struct {
		Tags     map[string]string `json:"tags"`
		Versions []string          `json:"versions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if doc.Tags["latest"] != "0.6.0" {
		t.Fatalf("expected latest 0.6.0, got %q", doc.Tags["latest"])
	}
	if len(doc.Versions) != 2 || doc.Versions[0] != "0.5.0" {
		t.Fatalf("unexpected versions: %v", doc.Versions)
	}
}

func TestExportManifest_EmptyStore(t *testing.T) {
	st := setupStore(t)
	dst := filepath.Join(t.TempDir(), "manifest.json")
	if err := ExportManifest(st, dst); err != nil {
		t.Fatalf("ExportManifest: %v", err)
	}
}
