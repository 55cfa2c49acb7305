package sentinel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shellstrap/pkg/testutil"
)

func TestCreateAndExists(t *testing.T) {
	env := testutil.NewEnv(t)
	fs := testutil.NewMemoryFS()
	m := New(fs, env.Paths)

	assert.False(t, m.Exists("shell-migration"))

	require.NoError(t, m.Create("shell-migration"))
	assert.True(t, m.Exists("shell-migration"))

	content, err := fs.ReadFile(env.Paths.SentinelPath("shell-migration"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "completed at ")
}

func TestCreateIsIdempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	fs := testutil.NewMemoryFS()
	m := New(fs, env.Paths)

	m.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, m.Create("shell-migration"))
	first, err := fs.ReadFile(env.Paths.SentinelPath("shell-migration"))
	require.NoError(t, err)

	// A later Create must not rewrite the original timestamp
	m.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, m.Create("shell-migration"))
	second, err := fs.ReadFile(env.Paths.SentinelPath("shell-migration"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
