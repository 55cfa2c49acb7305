package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/shellstrap/pkg/command"
)

// Call records one subprocess invocation seen by the fake runner.
type Call struct {
	Name string
	Args []string
}

// String renders the call the way it would appear on a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner is a command.Runner for tests. Executables listed in
// Available resolve via LookPath; commands whose rendered form matches a
// key in Failures return that error; OnRun, when set, runs after each
// invocation so tests can simulate installs mutating the environment.
type FakeRunner struct {
	mu        sync.Mutex
	Available map[string]string
	Failures  map[string]error
	Calls     []Call
	OnRun     func(call Call)
}

// NewFakeRunner creates a FakeRunner with the given resolvable executables.
func NewFakeRunner(available map[string]string) *FakeRunner {
	if available == nil {
		available = make(map[string]string)
	}
	return &FakeRunner{
		Available: available,
		Failures:  make(map[string]error),
	}
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	call := Call{Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	err := f.Failures[call.String()]
	onRun := f.OnRun
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if onRun != nil {
		onRun(call)
	}
	return nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if path, ok := f.Available[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// MarkAvailable makes an executable resolvable, as if an install created it.
func (f *FakeRunner) MarkAvailable(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Available[name] = path
}

// CallStrings returns every recorded call in rendered form.
func (f *FakeRunner) CallStrings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

var _ command.Runner = (*FakeRunner)(nil)
