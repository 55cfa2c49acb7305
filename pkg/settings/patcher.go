// Package settings patches companion-application JSON settings documents
// (terminal emulator, editor) non-destructively: required keys are merged
// in along dotted paths, existing user values are preserved, and every
// mutation is guarded by a backup that is restored on failure.
package settings

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Assignment is one dotted-path key to ensure in a settings document.
// Force assignments always overwrite; the rest only fill absent keys.
type Assignment struct {
	Path  string      `koanf:"path"`
	Value interface{} `koanf:"value"`
	Force bool        `koanf:"force"`
}

// Result records the outcome of patching one document.
type Result struct {
	Path    string
	Applied []string
	Changed bool
	Created bool
}

// Patcher applies assignments to settings documents.
type Patcher struct {
	fs     types.FS
	logger zerolog.Logger

	// marshal is swappable for fault injection in tests.
	marshal func(doc map[string]interface{}) ([]byte, error)
}

// New creates a Patcher.
func New(filesystem types.FS) *Patcher {
	return &Patcher{
		fs:      filesystem,
		logger:  logging.GetLogger("settings"),
		marshal: marshalStable,
	}
}

// Apply loads the document at path (starting from an empty one when the
// file is absent or malformed), merges in the assignments, and writes the
// result back. The original file is backed up before the write and
// restored if serialization, validation, or the write itself fails.
func (p *Patcher) Apply(path string, assignments []Assignment) (Result, error) {
	original, readErr := p.fs.ReadFile(path)
	exists := readErr == nil

	doc := make(map[string]interface{})
	if exists {
		if err := json.Unmarshal(original, &doc); err != nil {
			p.logger.Warn().Str("path", path).Err(err).
				Msg("Settings file is malformed, starting from an empty document")
			doc = make(map[string]interface{})
		}
	}

	result := Result{Path: path, Created: !exists}
	for _, a := range assignments {
		if p.applyOne(doc, a) {
			result.Applied = append(result.Applied, a.Path)
			result.Changed = true
		}
	}

	if !result.Changed {
		p.logger.Debug().Str("path", path).Msg("Settings already satisfied")
		return result, nil
	}

	backupPath := path + ".bak"
	if exists {
		if err := p.fs.WriteFile(backupPath, original, 0644); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "failed to back up %s", path)
		}
	}

	if err := p.commit(path, doc); err != nil {
		if exists {
			if restoreErr := p.restore(path, backupPath, original); restoreErr != nil {
				return Result{}, errors.Wrapf(restoreErr, errors.ErrSettingsRestore,
					"failed to restore %s after: %v", path, err)
			}
			p.logger.Warn().Str("path", path).Msg("Restored settings backup after failed patch")
		}
		return Result{}, err
	}

	if exists {
		_ = p.fs.Remove(backupPath)
	}

	p.logger.Info().Str("path", path).Strs("applied", result.Applied).Msg("Settings patched")
	return result, nil
}

// commit serializes, validates the round trip, and writes the document.
func (p *Patcher) commit(path string, doc map[string]interface{}) error {
	out, err := p.marshal(doc)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSettingsWrite, "failed to serialize %s", path)
	}

	// A document we cannot parse back must never reach disk.
	var check map[string]interface{}
	if err := json.Unmarshal(out, &check); err != nil {
		return errors.Wrapf(err, errors.ErrSettingsWrite, "serialized settings failed round-trip for %s", path)
	}

	if err := p.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	if err := p.fs.WriteFile(path, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSettingsWrite, "failed to write %s", path)
	}
	return nil
}

// restore moves the backup back into place, falling back to rewriting
// the content held in memory if the rename fails.
func (p *Patcher) restore(path, backupPath string, original []byte) error {
	if err := p.fs.Rename(backupPath, path); err == nil {
		return nil
	}
	return p.fs.WriteFile(path, original, 0644)
}

// applyOne merges a single assignment, reporting whether the document
// changed. Non-force assignments never overwrite an existing value, and
// no assignment ever replaces a user's scalar with an intermediate
// object.
func (p *Patcher) applyOne(doc map[string]interface{}, a Assignment) bool {
	segments := strings.Split(a.Path, ".")
	existing, found := maps.Search(doc, segments), false
	if existing != nil {
		found = true
	}

	if found && !a.Force {
		return false
	}
	if found && a.Force && equalValue(existing, a.Value) {
		return false
	}

	return setPath(doc, segments, a.Value)
}

// setPath walks the segments, creating intermediate objects as needed.
// It refuses to descend through a non-object value.
func setPath(doc map[string]interface{}, segments []string, value interface{}) bool {
	current := doc
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment]
		if !ok {
			child := make(map[string]interface{})
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			// An existing scalar sits on the path; leave it alone.
			return false
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return true
}

// equalValue compares through a JSON round trip so 11 and float64(11)
// compare equal the way they would after reload.
func equalValue(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ja) == string(jb)
}

// marshalStable renders the document with two-space indentation and a
// trailing newline, so repeated runs produce byte-identical files.
func marshalStable(doc map[string]interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
