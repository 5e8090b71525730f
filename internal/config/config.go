// Package config provides relmgr paths and project release configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hooks holds the external collaborator commands run during a release.
// Commands may reference {version} and, where noted, {platform}; both are
// substituted before execution.
type Hooks struct {
	Branch    string `yaml:"branch"`    // create the release branch
	Build     string `yaml:"build"`     // produce the candidate binary
	Validate  string `yaml:"validate"`  // per-platform check, {platform} substituted
	Tag       string `yaml:"tag"`       // push the release tag
	Publish   string `yaml:"publish"`   // upload one platform archive, {platform} substituted
	Changelog string `yaml:"changelog"` // emit the changelog fragment on stdout
	Notify    string `yaml:"notify"`    // fire-and-forget announcement
}

// Project is the release.yaml configuration for one distributed product.
type Project struct {
	Product     string   `yaml:"product"`
	Platforms   []string `yaml:"platforms"`
	DownloadURL string   `yaml:"download_url"` // base URL, no trailing slash
	CASRetries  int      `yaml:"cas_retries"`
	Hooks       Hooks    `yaml:"hooks"`
}

// defaults mirror the hosted distribution this tool was built for.
var defaultProject = Project{
	Product:     "relmgr",
	Platforms:   []string{"x86_64-linux", "x86_64-darwin"},
	DownloadURL: "https://download.relops.dev/relmgr",
	CASRetries:  3,
}

// LoadProject reads the project configuration from path. A missing file
// yields the defaults; a malformed file is an error.
func LoadProject(path string) (*Project, error) {
	p := defaultProject
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &p, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) validate() error {
	if p.Product == "" {
		return fmt.Errorf("config: product cannot be empty")
	}
	if len(p.Platforms) == 0 {
		return fmt.Errorf("config: at least one platform is required")
	}
	if p.CASRetries <= 0 {
		p.CASRetries = defaultProject.CASRetries
	}
	return nil
}
