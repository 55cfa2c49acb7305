package core

import (
	"context"
	"time"

	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Status probes every configured tool without side effects and returns
// the findings as a report. Absent tools are reported as failed steps
// with a "not found" message; nothing is installed.
func (o *Orchestrator) Status() *types.Report {
	report := &types.Report{StartedAt: time.Now()}

	for _, tool := range o.cfg.Tools {
		res := types.StepResult{Step: tool.Name, Tool: tool.DisplayName}
		switch probed := o.prober.Probe(tool); {
		case probed.Found:
			res.Status = types.StatusSatisfied
			res.Path = probed.Path
		case tool.Optional:
			res.Status = types.StatusSkipped
			res.Message = "not found (optional)"
		default:
			res.Status = types.StatusFailed
			res.Message = "not found"
		}
		report.Add(res)
	}

	report.Duration = time.Since(report.StartedAt)
	return report
}

// SyncProfiles runs only the profile synchronizer step.
func (o *Orchestrator) SyncProfiles() *types.Report {
	report := &types.Report{StartedAt: time.Now()}
	report.Add(o.runStep(context.Background(), step{name: "profile-sync", run: o.stepProfileSync}))
	report.Duration = time.Since(report.StartedAt)
	return report
}

// ApplySettings runs only the settings patch steps.
func (o *Orchestrator) ApplySettings() *types.Report {
	report := &types.Report{StartedAt: time.Now()}
	steps := []step{
		{name: "settings-terminal", run: o.settingsStep("settings-terminal", o.paths.TerminalSettingsPath, o.cfg.Settings.Terminal)},
		{name: "settings-editor", run: o.settingsStep("settings-editor", o.paths.EditorSettingsPath, o.cfg.Settings.Editor)},
	}
	for _, s := range steps {
		report.Add(o.runStep(context.Background(), s))
	}
	report.Duration = time.Since(report.StartedAt)
	return report
}
