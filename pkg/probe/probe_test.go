package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shellstrap/pkg/testutil"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

func TestProbeLookPath(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]string{"git": "/usr/bin/git"})
	p := New(Options{FS: testutil.NewMemoryFS(), Runner: runner})

	res := p.Probe(types.Tool{Name: "git", Executable: "git"})
	require.True(t, res.Found)
	assert.Equal(t, "/usr/bin/git", res.Path)
	assert.Equal(t, "lookpath", res.Method)
}

func TestProbeWellKnownDirectory(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/opt/git/cmd", 0755))
	require.NoError(t, fs.WriteFile("/opt/git/cmd/git.exe", []byte("bin"), 0755))

	p := New(Options{FS: fs, Runner: testutil.NewFakeRunner(nil)})

	res := p.Probe(types.Tool{
		Name:       "git",
		Executable: "git",
		ProbePaths: []string{"/opt/git/cmd"},
	})
	require.True(t, res.Found)
	assert.Equal(t, "/opt/git/cmd/git.exe", res.Path)
	assert.Equal(t, "wellknown", res.Method)
}

func TestProbeWellKnownFile(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/home/u/fonts", 0755))
	require.NoError(t, fs.WriteFile("/home/u/fonts/CaskaydiaCoveNerdFont-Regular.ttf", []byte("ttf"), 0644))

	p := New(Options{FS: fs, Runner: testutil.NewFakeRunner(nil)})

	res := p.Probe(types.Tool{
		Name:       "nerd-font",
		ProbePaths: []string{"/home/u/fonts/CaskaydiaCoveNerdFont-Regular.ttf"},
	})
	require.True(t, res.Found)
	assert.Equal(t, "wellknown", res.Method)
}

func TestProbeNotFound(t *testing.T) {
	p := New(Options{FS: testutil.NewMemoryFS(), Runner: testutil.NewFakeRunner(nil)})

	res := p.Probe(types.Tool{
		Name:       "zoxide",
		Executable: "zoxide",
		ProbePaths: []string{"/nowhere/at/all"},
	})
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
}

func TestProbeModule(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/home/u/Documents/PowerShell/Modules/Terminal-Icons/0.11.0", 0755))

	p := New(Options{
		FS:         fs,
		Runner:     testutil.NewFakeRunner(nil),
		ModuleDirs: []string{"/home/u/Documents/PowerShell/Modules"},
	})

	res := p.Probe(types.Tool{Name: "terminal-icons", ModuleName: "Terminal-Icons"})
	require.True(t, res.Found)
	assert.Equal(t, "module", res.Method)

	// Module names compare case-insensitively, matching shell semantics
	res = p.Probe(types.Tool{Name: "terminal-icons", ModuleName: "terminal-icons"})
	assert.True(t, res.Found)
}

func TestProbeModuleMissingDirIsNotFound(t *testing.T) {
	p := New(Options{
		FS:         testutil.NewMemoryFS(),
		Runner:     testutil.NewFakeRunner(nil),
		ModuleDirs: []string{"/missing/Modules"},
	})

	res := p.Probe(types.Tool{Name: "psreadline", ModuleName: "PSReadLine"})
	assert.False(t, res.Found)
}

func TestProbeExecutableFallsBackToWellKnown(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/apps/winget", 0755))
	require.NoError(t, fs.WriteFile("/apps/winget/winget.exe", []byte("bin"), 0755))

	p := New(Options{FS: fs, Runner: testutil.NewFakeRunner(nil)})

	res := p.ProbeExecutable("winget", []string{"/apps/winget"})
	require.True(t, res.Found)
	assert.Equal(t, "/apps/winget/winget.exe", res.Path)
}
