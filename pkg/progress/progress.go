// Package progress renders the provisioning progress bar and per-step
// status lines. The bar is a single line overwritten in place; diagnostic
// lines go through the logger, keeping the two streams distinguishable.
package progress

import (
	"github.com/pterm/pterm"

	"github.com/arthur-debert/shellstrap/pkg/types"
)

// Reporter receives orchestration progress. The orchestrator owns the
// accumulator and passes it in; reporters hold no counters of their own.
type Reporter interface {
	Start(total int)
	StepDone(res types.StepResult, prog types.Progress)
	Finish(prog types.Progress)
}

// statusStyle returns the pterm style for a step status.
func statusStyle(status types.StepStatus) *pterm.Style {
	switch status {
	case types.StatusSatisfied:
		return pterm.NewStyle(pterm.FgGray)
	case types.StatusInstalled:
		return pterm.NewStyle(pterm.FgGreen)
	case types.StatusUnverified:
		return pterm.NewStyle(pterm.FgYellow)
	case types.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgCyan)
	}
}

// termReporter drives a pterm progress bar.
type termReporter struct {
	bar *pterm.ProgressbarPrinter
}

// NewTerm creates a Reporter rendering an interactive progress bar.
func NewTerm() Reporter {
	return &termReporter{}
}

func (r *termReporter) Start(total int) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("provisioning").
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return
	}
	r.bar = bar
}

func (r *termReporter) StepDone(res types.StepResult, prog types.Progress) {
	if r.bar == nil {
		return
	}
	r.bar.UpdateTitle(res.Step)
	r.bar.Increment()

	if res.Status != types.StatusSatisfied {
		pterm.Println(statusStyle(res.Status).Sprintf("%-12s %s", res.Status, res.Step))
	}
}

func (r *termReporter) Finish(prog types.Progress) {
	if r.bar != nil {
		_, _ = r.bar.Stop()
	}
}

// silentReporter is used for --no-progress and non-TTY output.
type silentReporter struct{}

// NewSilent creates a Reporter that renders nothing.
func NewSilent() Reporter {
	return silentReporter{}
}

func (silentReporter) Start(int)                                {}
func (silentReporter) StepDone(types.StepResult, types.Progress) {}
func (silentReporter) Finish(types.Progress)                     {}
