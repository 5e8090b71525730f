package config

import (
	"os"
	"path/filepath"
)

// DataDir returns the directory used to store relmgr data. The RELMGR_HOME
// environment variable overrides the default dot-directory in the user's home.
func DataDir() (string, error) {
	if dir := os.Getenv("RELMGR_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".relmgr"), nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "relmgr.db"), nil
}

// ProjectConfigPath returns the path to the project release configuration.
// It honors an explicit override, otherwise release.yaml in the data dir.
func ProjectConfigPath() (string, error) {
	if p := os.Getenv("RELMGR_CONFIG"); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "release.yaml"), nil
}
