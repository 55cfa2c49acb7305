// Package probe determines whether a tool is already usable. Probing has
// no side effects: access-denied and missing-directory conditions are
// treated as "not found", never surfaced as errors.
package probe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/command"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Result is the outcome of probing for one tool.
type Result struct {
	// Found reports whether the tool is usable.
	Found bool

	// Path is the resolved location when Found.
	Path string

	// Method names the probe that resolved the tool: "lookpath",
	// "wellknown" or "module".
	Method string
}

// Prober checks tool presence via search-path lookup, well-known install
// directories, and shell module directory scans.
type Prober struct {
	fs         types.FS
	runner     command.Runner
	moduleDirs []string
	logger     zerolog.Logger
}

// Options configures a Prober.
type Options struct {
	FS     types.FS
	Runner command.Runner

	// ModuleDirs are the shell module roots scanned for ProbeModule tools.
	ModuleDirs []string
}

// New creates a Prober.
func New(opts Options) *Prober {
	return &Prober{
		fs:         opts.FS,
		runner:     opts.Runner,
		moduleDirs: opts.ModuleDirs,
		logger:     logging.GetLogger("probe"),
	}
}

// Probe checks whether the tool is currently usable, trying the search
// path first and the well-known locations second.
func (p *Prober) Probe(tool types.Tool) Result {
	switch tool.ProbeKindFor() {
	case types.ProbeModule:
		return p.probeModule(tool.ModuleName)
	case types.ProbeCommand:
		if res := p.probeLookPath(tool.Executable); res.Found {
			return res
		}
		return p.probeWellKnown(tool.Executable, tool.ProbePaths)
	default:
		return p.probeWellKnown("", tool.ProbePaths)
	}
}

// ProbeExecutable checks a bare executable name, used for post-install
// verification and for the package manager itself.
func (p *Prober) ProbeExecutable(executable string, wellKnown []string) Result {
	if res := p.probeLookPath(executable); res.Found {
		return res
	}
	return p.probeWellKnown(executable, wellKnown)
}

func (p *Prober) probeLookPath(executable string) Result {
	if executable == "" {
		return Result{}
	}
	path, err := p.runner.LookPath(executable)
	if err != nil {
		return Result{}
	}
	p.logger.Debug().Str("executable", executable).Str("path", path).Msg("Resolved on search path")
	return Result{Found: true, Path: path, Method: "lookpath"}
}

// probeWellKnown checks each candidate location. A candidate naming a
// directory matches when the directory exists (and, if executable is set,
// contains a file starting with that name). A candidate naming a file
// matches when the file exists.
func (p *Prober) probeWellKnown(executable string, candidates []string) Result {
	for _, candidate := range candidates {
		location := expandPath(candidate)

		info, err := p.fs.Stat(location)
		if err != nil {
			// Missing or unreadable locations are simply not matches.
			continue
		}

		if !info.IsDir() {
			return Result{Found: true, Path: location, Method: "wellknown"}
		}

		if executable == "" {
			return Result{Found: true, Path: location, Method: "wellknown"}
		}

		entries, err := p.fs.ReadDir(location)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if name == executable || strings.TrimSuffix(name, filepath.Ext(name)) == executable {
				return Result{Found: true, Path: filepath.Join(location, name), Method: "wellknown"}
			}
		}
	}
	return Result{}
}

// probeModule scans the shell module directories for a directory named
// after the module.
func (p *Prober) probeModule(moduleName string) Result {
	for _, dir := range p.moduleDirs {
		entries, err := p.fs.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.EqualFold(entry.Name(), moduleName) {
				path := filepath.Join(dir, entry.Name())
				p.logger.Debug().Str("module", moduleName).Str("path", path).Msg("Found shell module")
				return Result{Found: true, Path: path, Method: "module"}
			}
		}
	}
	return Result{}
}

// expandPath expands ${ENV} references and a leading ~.
func expandPath(path string) string {
	expanded := os.ExpandEnv(path)
	if strings.HasPrefix(expanded, "~/") || expanded == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
		}
	}
	return expanded
}
