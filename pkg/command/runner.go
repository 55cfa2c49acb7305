// Package command wraps subprocess invocation behind a small interface so
// provisioning logic can be tested without spawning real processes.
package command

import (
	"context"
	"os/exec"

	"github.com/arthur-debert/shellstrap/pkg/logging"
)

// Runner executes external commands and resolves executables on the
// search path.
type Runner interface {
	// Run executes name with args, discarding its stdio. The context
	// deadline bounds the subprocess.
	Run(ctx context.Context, name string, args ...string) error

	// LookPath resolves name on the current search path.
	LookPath(name string) (string, error)
}

// execRunner is the os/exec backed Runner.
type execRunner struct{}

// NewExec creates a Runner backed by os/exec.
func NewExec() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	logger := logging.GetLogger("command")
	logger.Debug().Str("command", name).Strs("args", args).Msg("Executing command")

	cmd := exec.CommandContext(ctx, name, args...)
	// Package managers are chatty; their output never belongs on the
	// user's terminal during shell startup.
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	return cmd.Run()
}

func (r *execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
