// Package report renders the end-of-run provisioning report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/shellstrap/pkg/types"
)

var (
	styleSatisfied  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleInstalled  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleUnverified = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleFailed     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleSkipped    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleHeader     = lipgloss.NewStyle().Bold(true)
)

func styleFor(status types.StepStatus) lipgloss.Style {
	switch status {
	case types.StatusSatisfied:
		return styleSatisfied
	case types.StatusInstalled:
		return styleInstalled
	case types.StatusUnverified:
		return styleUnverified
	case types.StatusFailed:
		return styleFailed
	default:
		return styleSkipped
	}
}

// Render returns the human-readable run report. When color is unavailable
// (dumb terminal, NO_COLOR), output degrades to plain text.
func Render(r *types.Report) string {
	plain := termenv.EnvColorProfile() == termenv.Ascii || termenv.EnvNoColor()

	var b strings.Builder
	b.WriteString(styledOrPlain(styleHeader, "shellstrap run report", plain))
	b.WriteString("\n")

	for _, res := range r.Results {
		line := fmt.Sprintf("  %-12s %-18s", res.Status, res.Step)
		if res.Path != "" {
			line += " " + res.Path
		}
		if res.Message != "" {
			line += " (" + res.Message + ")"
		}
		if res.Err != nil {
			line += " - " + res.Err.Error()
		}
		b.WriteString(styledOrPlain(styleFor(res.Status), line, plain))
		b.WriteString("\n")
	}

	counts := r.Counts()
	b.WriteString(fmt.Sprintf("\n%d steps in %s: %d satisfied, %d installed, %d unverified, %d failed, %d skipped\n",
		len(r.Results), r.Duration.Round(time.Millisecond),
		counts[types.StatusSatisfied], counts[types.StatusInstalled],
		counts[types.StatusUnverified], counts[types.StatusFailed],
		counts[types.StatusSkipped]))

	return b.String()
}

func styledOrPlain(style lipgloss.Style, s string, plain bool) string {
	if plain {
		return s
	}
	return style.Render(s)
}
