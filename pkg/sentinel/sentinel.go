// Package sentinel manages marker files whose existence encodes a
// one-time-action flag. The file body holds a human-readable timestamp
// for whoever finds it; only presence is ever machine-checked.
package sentinel

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/paths"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Manager creates and checks sentinel files under the state directory.
type Manager struct {
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger

	// now is swappable for deterministic timestamps in tests
	now func() time.Time
}

// New creates a Manager.
func New(filesystem types.FS, p paths.Paths) *Manager {
	return &Manager{
		fs:     filesystem,
		paths:  p,
		logger: logging.GetLogger("sentinel"),
		now:    time.Now,
	}
}

// Exists reports whether the named sentinel has been created.
func (m *Manager) Exists(name string) bool {
	_, err := m.fs.Stat(m.paths.SentinelPath(name))
	return err == nil
}

// Create writes the named sentinel. Creating an existing sentinel is a
// no-op so the recorded timestamp is always the first completion.
func (m *Manager) Create(name string) error {
	if m.Exists(name) {
		return nil
	}

	path := m.paths.SentinelPath(name)
	if err := m.fs.MkdirAll(m.paths.SentinelDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create sentinel directory")
	}

	content := fmt.Sprintf("completed at %s\n", m.now().Format(time.RFC1123))
	if err := m.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write sentinel %s", name)
	}

	m.logger.Debug().Str("sentinel", name).Str("path", path).Msg("Sentinel created")
	return nil
}
