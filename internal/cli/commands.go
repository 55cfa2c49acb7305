// Package cli builds the shellstrap command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/shellstrap/internal/version"
	"github.com/arthur-debert/shellstrap/pkg/command"
	"github.com/arthur-debert/shellstrap/pkg/config"
	"github.com/arthur-debert/shellstrap/pkg/core"
	"github.com/arthur-debert/shellstrap/pkg/filesystem"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/paths"
	"github.com/arthur-debert/shellstrap/pkg/progress"
	"github.com/arthur-debert/shellstrap/pkg/report"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		dryRun     bool
		noProgress bool
	)

	rootCmd := &cobra.Command{
		Use:   "shellstrap",
		Short: "An idempotent shell environment bootstrapper",
		Long: `shellstrap converges a workstation onto a fixed set of developer tools,
keeps the shell profile synchronized across shell installations, and
patches terminal and editor settings without disturbing user
customizations. Safe to run on every shell start: satisfied steps are
skipped and nothing is ever installed twice.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: false,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Suppress the progress bar")

	rootCmd.AddCommand(newUpCmd(&dryRun, &noProgress))
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSyncCmd(&dryRun))
	rootCmd.AddCommand(newSettingsCmd(&dryRun))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())

	return rootCmd
}

// newOrchestrator wires the component graph for a command invocation.
func newOrchestrator(dryRun bool, reporter progress.Reporter) (*core.Orchestrator, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.ConfigDir())
	if err != nil {
		return nil, err
	}

	return core.New(core.Options{
		Config:   cfg,
		Paths:    p,
		FS:       filesystem.NewOS(),
		Runner:   command.NewExec(),
		Reporter: reporter,
		DryRun:   dryRun,
	}), nil
}

func newUpCmd(dryRun *bool, noProgress *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run the full provisioning sequence",
		Long: `Run every provisioning step in order: profile sync, the one-time shell
migration, each configured tool, the prompt theme asset, and the
settings patches. A step failure is logged and recorded but never stops
the steps after it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := progress.NewSilent()
			if !*noProgress && isatty.IsTerminal(os.Stdout.Fd()) {
				reporter = progress.NewTerm()
			}

			orch, err := newOrchestrator(*dryRun, reporter)
			if err != nil {
				return err
			}

			result := orch.Up(cmd.Context())
			cmd.Print(report.Render(result))

			// Always exit zero so shell startup is never blocked; the
			// report carries any partial failures.
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every tool without installing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(false, progress.NewSilent())
			if err != nil {
				return err
			}
			cmd.Print(report.Render(orch.Status()))
			return nil
		},
	}
}

func newSyncCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the profile across sibling shells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(*dryRun, progress.NewSilent())
			if err != nil {
				return err
			}
			cmd.Print(report.Render(orch.SyncProfiles()))
			return nil
		},
	}
}

func newSettingsCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Apply the terminal and editor settings patches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(*dryRun, progress.NewSilent())
			if err != nil {
				return err
			}
			cmd.Print(report.Render(orch.ApplySettings()))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shellstrap version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
