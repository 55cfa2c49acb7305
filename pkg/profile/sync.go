// Package profile synchronizes the active shell profile script into the
// profile locations of sibling shell installations. Content is compared
// before writing so an unchanged sibling is never touched.
package profile

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// SyncResult records what happened to one sibling profile.
type SyncResult struct {
	Path    string
	Updated bool
	Created bool
}

// Synchronizer copies the source profile to sibling locations.
type Synchronizer struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Synchronizer.
func New(filesystem types.FS) *Synchronizer {
	return &Synchronizer{
		fs:     filesystem,
		logger: logging.GetLogger("profile"),
	}
}

// Sync reads the profile at source and converges every sibling onto its
// content. A missing source is an error; everything else proceeds
// per-sibling, collecting the first failure while still attempting the
// rest.
func (s *Synchronizer) Sync(source string, siblings []string) ([]SyncResult, error) {
	content, err := s.fs.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileRead, "failed to read profile %s", source)
	}

	var results []SyncResult
	var firstErr error
	for _, sibling := range siblings {
		res, err := s.syncOne(content, sibling)
		if err != nil {
			s.logger.Error().Err(err).Str("sibling", sibling).Msg("Profile sync failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}
	return results, firstErr
}

func (s *Synchronizer) syncOne(content []byte, sibling string) (SyncResult, error) {
	existing, err := s.fs.ReadFile(sibling)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			s.logger.Debug().Str("sibling", sibling).Msg("Profile already in sync")
			return SyncResult{Path: sibling}, nil
		}
	case isNotExist(err):
		// absent sibling, fall through to write
	default:
		return SyncResult{}, errors.Wrapf(err, errors.ErrProfileSync, "failed to read sibling %s", sibling)
	}
	created := err != nil

	if err := s.fs.MkdirAll(filepath.Dir(sibling), 0755); err != nil {
		return SyncResult{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(sibling))
	}
	if err := s.fs.WriteFile(sibling, content, 0644); err != nil {
		return SyncResult{}, errors.Wrapf(err, errors.ErrProfileSync, "failed to write sibling %s", sibling)
	}

	s.logger.Info().Str("sibling", sibling).Bool("created", created).Msg("Profile synchronized")
	return SyncResult{Path: sibling, Updated: true, Created: created}, nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
