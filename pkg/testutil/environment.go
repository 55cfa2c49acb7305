package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/shellstrap/pkg/paths"
)

// Env is an isolated test environment: a temp home with every shellstrap
// directory redirected beneath it.
type Env struct {
	Home  string
	Paths paths.Paths
}

// NewEnv builds an isolated environment and points all path env vars at it.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.EnvDataDir, filepath.Join(home, ".local", "share", "shellstrap"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(home, ".config", "shellstrap"))
	t.Setenv(paths.EnvStateDir, filepath.Join(home, ".local", "state", "shellstrap"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(home, ".cache", "shellstrap"))
	t.Setenv(paths.EnvProfileDir, filepath.Join(home, "Documents"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))

	p, err := paths.New()
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}

	return &Env{Home: home, Paths: p}
}
