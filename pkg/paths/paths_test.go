package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaths(t *testing.T) (Paths, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, filepath.Join(home, "data"))
	t.Setenv(EnvConfigDir, filepath.Join(home, "config"))
	t.Setenv(EnvStateDir, filepath.Join(home, "state"))
	t.Setenv(EnvCacheDir, filepath.Join(home, "cache"))
	t.Setenv(EnvProfileDir, filepath.Join(home, "Documents"))
	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("APPDATA", "")

	p, err := New()
	require.NoError(t, err)
	return p, home
}

func TestEnvOverrides(t *testing.T) {
	p, home := newTestPaths(t)

	assert.Equal(t, filepath.Join(home, "data"), p.DataDir())
	assert.Equal(t, filepath.Join(home, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(home, "state"), p.StateDir())
	assert.Equal(t, filepath.Join(home, "cache"), p.CacheDir())
}

func TestExpandHomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, "~/straps")

	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "straps"), p.DataDir())
}

func TestProfilePaths(t *testing.T) {
	p, home := newTestPaths(t)
	docs := filepath.Join(home, "Documents")

	assert.Equal(t, filepath.Join(docs, "PowerShell", ProfileFileName), p.ProfilePath())

	siblings := p.SiblingProfilePaths()
	require.Len(t, siblings, 2)
	assert.Equal(t, filepath.Join(docs, "WindowsPowerShell", ProfileFileName), siblings[0])
	assert.NotContains(t, siblings, p.ProfilePath())
}

func TestSentinelPath(t *testing.T) {
	p, home := newTestPaths(t)

	got := p.SentinelPath("shell-migration")
	assert.Equal(t, filepath.Join(home, "state", SentinelDirName, "shell-migration.sentinel"), got)
}

func TestSettingsPathsFallBackUnderHome(t *testing.T) {
	p, home := newTestPaths(t)

	assert.Contains(t, p.TerminalSettingsPath(), filepath.Join(home, "AppData", "Local"))
	assert.Contains(t, p.EditorSettingsPath(), filepath.Join(home, "AppData", "Roaming"))
}

func TestBinDirsNonEmpty(t *testing.T) {
	p, _ := newTestPaths(t)
	assert.NotEmpty(t, p.BinDirs())
}
