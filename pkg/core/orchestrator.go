// Package core runs the provisioning sequence: profile sync first, then
// one check-then-install step per tool in fixed order, then the settings
// patches. Every step is individually recovered; no failure stops the
// steps after it.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/command"
	"github.com/arthur-debert/shellstrap/pkg/config"
	"github.com/arthur-debert/shellstrap/pkg/fetch"
	"github.com/arthur-debert/shellstrap/pkg/installer"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/paths"
	"github.com/arthur-debert/shellstrap/pkg/probe"
	"github.com/arthur-debert/shellstrap/pkg/profile"
	"github.com/arthur-debert/shellstrap/pkg/progress"
	"github.com/arthur-debert/shellstrap/pkg/sentinel"
	"github.com/arthur-debert/shellstrap/pkg/settings"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// MigrationSentinel marks the one-time shell-runtime migration as done.
const MigrationSentinel = "shell-migration"

// Options configures an Orchestrator.
type Options struct {
	Config   *config.Config
	Paths    paths.Paths
	FS       types.FS
	Runner   command.Runner
	Reporter progress.Reporter
	DryRun   bool
}

// Orchestrator owns one provisioning run.
type Orchestrator struct {
	cfg      *config.Config
	paths    paths.Paths
	fs       types.FS
	runner   command.Runner
	reporter progress.Reporter
	dryRun   bool

	prober    *probe.Prober
	adapter   *installer.Adapter
	syncer    *profile.Synchronizer
	patcher   *settings.Patcher
	sentinels *sentinel.Manager
	fetcher   *fetch.Client

	logger zerolog.Logger
}

// New creates an Orchestrator and its component graph.
func New(opts Options) *Orchestrator {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.NewSilent()
	}

	fetcher := fetch.New(time.Duration(opts.Config.Network.TimeoutSeconds) * time.Second)
	prober := probe.New(probe.Options{
		FS:         opts.FS,
		Runner:     opts.Runner,
		ModuleDirs: opts.Paths.ModuleDirs(),
	})

	return &Orchestrator{
		cfg:      opts.Config,
		paths:    opts.Paths,
		fs:       opts.FS,
		runner:   opts.Runner,
		reporter: reporter,
		dryRun:   opts.DryRun,
		prober:   prober,
		adapter: installer.New(installer.Options{
			Runner:  opts.Runner,
			Prober:  prober,
			Fetcher: fetcher,
			FS:      opts.FS,
			Paths:   opts.Paths,
			Manager: opts.Config.Manager,
		}),
		syncer:    profile.New(opts.FS),
		patcher:   settings.New(opts.FS),
		sentinels: sentinel.New(opts.FS, opts.Paths),
		fetcher:   fetcher,
		logger:    logging.GetLogger("core"),
	}
}

// step is one unit in the fixed sequence.
type step struct {
	name string
	run  func(ctx context.Context) types.StepResult
}

// Up runs the full provisioning sequence and returns the aggregated
// report. It never returns an error: per-step failures are recorded in
// the report so shell startup is never blocked.
func (o *Orchestrator) Up(ctx context.Context) *types.Report {
	o.logPublicIP(ctx)

	steps := o.buildSteps()

	report := &types.Report{StartedAt: time.Now()}
	prog := types.Progress{Total: len(steps)}
	o.reporter.Start(prog.Total)

	for _, s := range steps {
		res := o.runStep(ctx, s)
		report.Add(res)
		prog.Advance(res.Status)
		o.reporter.StepDone(res, prog)
	}

	report.Duration = time.Since(report.StartedAt)
	o.reporter.Finish(prog)

	o.logger.Info().
		Int("steps", len(report.Results)).
		Int("installed", prog.Installed).
		Int("failed", prog.Failed).
		Dur("duration", report.Duration).
		Msg("Provisioning run complete")
	return report
}

// buildSteps assembles the fixed sequence: profile sync, the one-time
// shell migration, every configured tool, the prompt theme asset, and
// the settings patches.
func (o *Orchestrator) buildSteps() []step {
	steps := []step{
		{name: "profile-sync", run: o.stepProfileSync},
		{name: "shell-migration", run: o.stepShellMigration},
	}

	for _, tool := range o.cfg.Tools {
		steps = append(steps, step{name: tool.Name, run: o.toolStep(tool)})
	}

	steps = append(steps,
		step{name: "prompt-theme", run: o.stepPromptTheme},
		step{name: "settings-terminal", run: o.settingsStep("settings-terminal", o.paths.TerminalSettingsPath, o.cfg.Settings.Terminal)},
		step{name: "settings-editor", run: o.settingsStep("settings-editor", o.paths.EditorSettingsPath, o.cfg.Settings.Editor)},
	)
	return steps
}

// runStep executes one step, recovering panics into failed results so a
// defect in one step cannot take down the rest of the run.
func (o *Orchestrator) runStep(ctx context.Context, s step) (res types.StepResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Str("step", s.name).Interface("panic", r).Msg("Step panicked")
			res = types.StepResult{Step: s.name, Status: types.StatusFailed,
				Err: fmt.Errorf("step panicked: %v", r)}
		}
		res.Duration = time.Since(start)
	}()

	res = s.run(ctx)
	if res.Err != nil {
		o.logger.Error().Str("step", s.name).Err(res.Err).Msg("Step failed")
	}
	return res
}

// stepProfileSync converges sibling profiles onto the active one. This
// runs before everything else so a clean profile always wins over a
// stale one left by a previous version.
func (o *Orchestrator) stepProfileSync(ctx context.Context) types.StepResult {
	res := types.StepResult{Step: "profile-sync"}

	if _, err := o.fs.Stat(o.paths.ProfilePath()); err != nil {
		res.Status = types.StatusSkipped
		res.Message = "no active profile to sync from"
		return res
	}

	if o.dryRun {
		res.Status = types.StatusSkipped
		res.Message = "dry run"
		return res
	}

	results, err := o.syncer.Sync(o.paths.ProfilePath(), o.paths.SiblingProfilePaths())
	if err != nil {
		res.Status = types.StatusFailed
		res.Err = err
		return res
	}

	var updated int
	for _, r := range results {
		if r.Updated {
			updated++
		}
	}
	if updated == 0 {
		res.Status = types.StatusSatisfied
	} else {
		res.Status = types.StatusInstalled
		res.Message = fmt.Sprintf("%d profile(s) updated", updated)
	}
	return res
}

// stepShellMigration performs the one-time shell-runtime upgrade. The
// sentinel keeps the reinstall prompt from reappearing every session.
func (o *Orchestrator) stepShellMigration(ctx context.Context) types.StepResult {
	res := types.StepResult{Step: "shell-migration"}

	if o.sentinels.Exists(MigrationSentinel) {
		res.Status = types.StatusSatisfied
		return res
	}

	if len(o.cfg.Manager.ShellUpgradeArgs) == 0 {
		res.Status = types.StatusSkipped
		res.Message = "no migration configured"
		return res
	}

	if o.dryRun {
		res.Status = types.StatusSkipped
		res.Message = "dry run"
		return res
	}

	if err := o.runner.Run(ctx, o.cfg.Manager.Executable, o.cfg.Manager.ShellUpgradeArgs...); err != nil {
		// Nothing to upgrade is fine; a hard failure is reported but the
		// sentinel stays absent so the migration retries next run.
		res.Status = types.StatusFailed
		res.Err = err
		return res
	}

	if err := o.sentinels.Create(MigrationSentinel); err != nil {
		res.Status = types.StatusFailed
		res.Err = err
		return res
	}

	res.Status = types.StatusInstalled
	res.Message = "shell runtime migrated"
	return res
}

// toolStep returns the check-then-install step for one tool.
func (o *Orchestrator) toolStep(tool types.Tool) func(ctx context.Context) types.StepResult {
	return func(ctx context.Context) types.StepResult {
		res := types.StepResult{Step: tool.Name, Tool: tool.DisplayName}

		if probed := o.prober.Probe(tool); probed.Found {
			res.Status = types.StatusSatisfied
			res.Path = probed.Path
			return res
		}

		if o.dryRun {
			res.Status = types.StatusSkipped
			res.Message = "dry run, would install"
			return res
		}

		status, probed, err := o.adapter.Install(ctx, tool)
		if tool.Optional && !status.OK() {
			o.logger.Warn().Str("tool", tool.Name).Err(err).Msg("Optional tool not installed")
			res.Status = types.StatusSkipped
			res.Message = "optional, not installed"
			return res
		}
		res.Status = status
		res.Path = probed.Path
		res.Err = err
		return res
	}
}

// stepPromptTheme downloads the prompt theme asset. Best-effort: the
// theme engine works without it.
func (o *Orchestrator) stepPromptTheme(ctx context.Context) types.StepResult {
	res := types.StepResult{Step: "prompt-theme"}

	if o.cfg.Network.ThemeURL == "" {
		res.Status = types.StatusSkipped
		res.Message = "no theme configured"
		return res
	}

	dest := filepath.Join(o.paths.ThemesDir(), o.cfg.Network.ThemeName)
	if _, err := o.fs.Stat(dest); err == nil {
		res.Status = types.StatusSatisfied
		res.Path = dest
		return res
	}

	if o.dryRun {
		res.Status = types.StatusSkipped
		res.Message = "dry run"
		return res
	}

	if err := o.fetcher.Download(ctx, o.fs, dest, o.cfg.Network.ThemeURL); err != nil {
		res.Status = types.StatusFailed
		res.Err = err
		return res
	}
	res.Status = types.StatusInstalled
	res.Path = dest
	return res
}

// settingsStep returns the patch step for one settings document.
func (o *Orchestrator) settingsStep(name string, pathFn func() string, assignments []settings.Assignment) func(ctx context.Context) types.StepResult {
	return func(ctx context.Context) types.StepResult {
		res := types.StepResult{Step: name}

		if o.dryRun {
			res.Status = types.StatusSkipped
			res.Message = "dry run"
			return res
		}

		patched, err := o.patcher.Apply(pathFn(), assignments)
		if err != nil {
			res.Status = types.StatusFailed
			res.Err = err
			return res
		}
		res.Path = patched.Path
		if patched.Changed {
			res.Status = types.StatusInstalled
			res.Message = fmt.Sprintf("%d key(s) applied", len(patched.Applied))
		} else {
			res.Status = types.StatusSatisfied
		}
		return res
	}
}

// logPublicIP records the machine's public address for the run log.
// Purely informational and fully best-effort.
func (o *Orchestrator) logPublicIP(ctx context.Context) {
	if len(o.cfg.Network.IPEndpoints) == 0 {
		return
	}
	ip, err := o.fetcher.PublicIP(ctx, o.cfg.Network.IPEndpoints)
	if err != nil {
		o.logger.Debug().Err(err).Msg("Public IP lookup failed")
		return
	}
	o.logger.Info().Str("ip", ip).Msg("Public IP")
}
