package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFile is the name of the project configuration file.
	ConfigFile = "gcir.toml"
	// ConfigEnv names an explicit config path that bypasses discovery.
	ConfigEnv = "GCIR_CONFIG"
)

// Find locates the configuration: the file named by GCIR_CONFIG when set,
// otherwise the nearest gcir.toml at or above startDir.
func Find(startDir string) (path string, ok bool, err error) {
	if explicit := os.Getenv(ConfigEnv); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", false, fmt.Errorf("%s=%s: %w", ConfigEnv, explicit, err)
		}
		return explicit, true, nil
	}
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for dir != "" {
		candidate := filepath.Join(dir, ConfigFile)
		_, statErr := os.Stat(candidate)
		switch {
		case statErr == nil:
			return candidate, true, nil
		case !errors.Is(statErr, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		dir = parentDir(dir)
	}
	return "", false, nil
}

// parentDir returns the parent of dir, or "" at the filesystem root.
func parentDir(dir string) string {
	parent := filepath.Dir(dir)
	if parent == dir {
		return ""
	}
	return parent
}

// Root returns the directory holding the discovered configuration.
func Root(startDir string) (root string, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(path), true, nil
}
