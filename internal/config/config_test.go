package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProject_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadProject(filepath.Join(t.TempDir(), "release.yaml"))
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(p.Platforms) != 2 {
		t.Fatalf("expected default platforms, got %v", p.Platforms)
	}
	if p.CASRetries != 3 {
		t.Fatalf("expected default retry bound, got %d", p.CASRetries)
	}
}

func TestLoadProject_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.yaml")
	cfg := `product: acme
platforms: [x86_64-linux]
download_url: https://dl.example.com/acme
cas_retries: 5
hooks:
  build: make dist VERSION={version}
  validate: ./ci/smoke.sh {version} {platform}
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if p.Product != "acme" {
		t.Fatalf("expected product acme, got %s", p.Product)
	}
	if p.CASRetries != 5 {
		t.Fatalf("expected 5 retries, got %d", p.CASRetries)
	}
	if p.Hooks.Validate == "" {
		t.Fatalf("expected validate hook")
	}
}

func TestLoadProject_RejectsEmptyPlatforms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.yaml")
	if err := os.WriteFile(path, []byte("product: acme\nplatforms: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected error for empty platforms")
	}
}
