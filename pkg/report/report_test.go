package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/shellstrap/pkg/types"
)

func sampleReport() *types.Report {
	r := &types.Report{StartedAt: time.Now(), Duration: 1234 * time.Millisecond}
	r.Add(types.StepResult{Step: "git", Status: types.StatusSatisfied, Path: "/usr/bin/git"})
	r.Add(types.StepResult{Step: "pwsh", Status: types.StatusInstalled, Path: "/opt/pwsh"})
	r.Add(types.StepResult{Step: "pnpm", Status: types.StatusUnverified})
	r.Add(types.StepResult{Step: "zoxide", Status: types.StatusFailed, Err: fmt.Errorf("exit status 1")})
	return r
}

func TestRenderContainsEveryStep(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := Render(sampleReport())

	assert.Contains(t, out, "git")
	assert.Contains(t, out, "pwsh")
	assert.Contains(t, out, "pnpm")
	assert.Contains(t, out, "zoxide")
	assert.Contains(t, out, "exit status 1")
}

func TestRenderSummaryCounts(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := Render(sampleReport())

	assert.Contains(t, out, "1 satisfied, 1 installed, 1 unverified, 1 failed, 0 skipped")
	assert.Contains(t, out, "4 steps")
}
