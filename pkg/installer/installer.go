// Package installer adapts the system package manager: it runs install
// commands for missing tools, re-probes to confirm them, and bootstraps
// the package manager itself when even that is absent.
package installer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/command"
	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/fetch"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/paths"
	"github.com/arthur-debert/shellstrap/pkg/probe"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Adapter installs tools through the system package manager (or a
// tool-specific installer) and verifies the result.
type Adapter struct {
	runner  command.Runner
	prober  *probe.Prober
	fetcher *fetch.Client
	fs      types.FS
	paths   paths.Paths
	manager types.Manager
	logger  zerolog.Logger

	// bootstrapAttempted guards the single bootstrap try per run.
	bootstrapAttempted bool
}

// Options configures an Adapter.
type Options struct {
	Runner  command.Runner
	Prober  *probe.Prober
	Fetcher *fetch.Client
	FS      types.FS
	Paths   paths.Paths
	Manager types.Manager
}

// New creates an Adapter.
func New(opts Options) *Adapter {
	return &Adapter{
		runner:  opts.Runner,
		prober:  opts.Prober,
		fetcher: opts.Fetcher,
		fs:      opts.FS,
		paths:   opts.Paths,
		manager: opts.Manager,
		logger:  logging.GetLogger("installer"),
	}
}

// Install runs the tool's install command, refreshes the in-process
// search path, and re-probes. The returned status is one of installed,
// unverified, or failed.
func (a *Adapter) Install(ctx context.Context, tool types.Tool) (types.StepStatus, probe.Result, error) {
	installerExe := tool.Installer
	if installerExe == "" {
		if err := a.EnsureManager(ctx); err != nil {
			return types.StatusFailed, probe.Result{}, err
		}
		installerExe = a.manager.Executable
	}

	a.logger.Info().
		Str("tool", tool.Name).
		Str("installer", installerExe).
		Msg("Installing missing tool")

	if err := a.runner.Run(ctx, installerExe, tool.InstallArgs...); err != nil {
		return types.StatusFailed, probe.Result{},
			errors.Wrapf(err, errors.ErrInstallFailed, "%s install failed", tool.Name).
				WithDetail("installer", installerExe)
	}

	// Pick up binaries the install just dropped into well-known locations.
	a.RefreshPath()

	res := a.verify(tool)
	if !res.Found {
		a.logger.Warn().Str("tool", tool.Name).Msg("Install succeeded but verification probe found nothing")
		return types.StatusUnverified, res, nil
	}

	a.logger.Info().Str("tool", tool.Name).Str("path", res.Path).Msg("Installed and verified")
	return types.StatusInstalled, res, nil
}

// verify re-probes the tool, honoring VerifyExecutable overrides.
func (a *Adapter) verify(tool types.Tool) probe.Result {
	verifyTool := tool
	verifyTool.Executable = tool.VerifyTarget()
	return a.prober.Probe(verifyTool)
}

// EnsureManager makes sure the package manager itself is usable,
// bootstrapping it once per run if necessary.
func (a *Adapter) EnsureManager(ctx context.Context) error {
	if res := a.prober.ProbeExecutable(a.manager.Executable, a.manager.ProbePaths); res.Found {
		return nil
	}

	if a.bootstrapAttempted {
		return errors.Newf(errors.ErrBootstrapFailed, "%s is unavailable and bootstrap already failed this run", a.manager.Name)
	}
	a.bootstrapAttempted = true

	a.logger.Warn().Str("manager", a.manager.Name).Msg("Package manager missing, bootstrapping")

	dest := filepath.Join(a.paths.BootstrapDir(), bootstrapFileName(a.manager))
	if err := a.fetcher.Download(ctx, a.fs, dest, a.manager.BootstrapURLs...); err != nil {
		return errors.Wrapf(err, errors.ErrBootstrapFailed, "failed to download %s installer", a.manager.Name)
	}

	if err := a.runner.Run(ctx, dest, a.manager.BootstrapArgs...); err != nil {
		return errors.Wrapf(err, errors.ErrBootstrapFailed, "%s installer failed", a.manager.Name)
	}

	a.RefreshPath()

	if res := a.prober.ProbeExecutable(a.manager.Executable, a.manager.ProbePaths); !res.Found {
		return errors.Newf(errors.ErrBootstrapFailed, "%s still unavailable after bootstrap", a.manager.Name)
	}

	a.logger.Info().Str("manager", a.manager.Name).Msg("Package manager bootstrapped")
	return nil
}

// RefreshPath appends the well-known per-user bin directories to the
// in-process PATH so newly installed tools resolve without restarting
// the shell.
func (a *Adapter) RefreshPath() {
	current := os.Getenv("PATH")
	entries := filepath.SplitList(current)

	var added []string
	for _, dir := range a.paths.BinDirs() {
		if dir == "" || containsPath(entries, dir) {
			continue
		}
		entries = append(entries, dir)
		added = append(added, dir)
	}

	if len(added) == 0 {
		return
	}

	_ = os.Setenv("PATH", strings.Join(entries, string(os.PathListSeparator)))
	a.logger.Debug().Strs("added", added).Msg("Refreshed in-process PATH")
}

func containsPath(entries []string, dir string) bool {
	target := filepath.Clean(dir)
	for _, entry := range entries {
		if filepath.Clean(entry) == target {
			return true
		}
	}
	return false
}

// bootstrapFileName derives a local filename for the downloaded installer
// from the first bootstrap URL.
func bootstrapFileName(manager types.Manager) string {
	if len(manager.BootstrapURLs) > 0 {
		if base := filepath.Base(manager.BootstrapURLs[0]); base != "" && base != "." && base != "/" {
			// Strip any query noise from redirect-style URLs.
			if idx := strings.IndexAny(base, "?#"); idx > 0 {
				base = base[:idx]
			}
			return base
		}
	}
	return manager.Name + "-installer"
}
