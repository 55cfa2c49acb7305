package types

import (
	"time"
)

// StepStatus is the outcome of a single provisioning step. The install
// path distinguishes a confirmed install from one whose re-probe failed;
// the two are never conflated.
type StepStatus string

const (
	// StatusSatisfied means the probe found the tool before any install.
	StatusSatisfied StepStatus = "satisfied"

	// StatusInstalled means the install ran and the re-probe confirmed it.
	StatusInstalled StepStatus = "installed"

	// StatusUnverified means the install command succeeded but the
	// re-probe could not find the tool.
	StatusUnverified StepStatus = "unverified"

	// StatusFailed means the install command failed.
	StatusFailed StepStatus = "failed"

	// StatusSkipped means the step did not run (dry-run, disabled).
	StatusSkipped StepStatus = "skipped"
)

// OK reports whether the status counts as a healthy outcome.
func (s StepStatus) OK() bool {
	return s == StatusSatisfied || s == StatusInstalled || s == StatusSkipped
}

// StepResult records the outcome of one provisioning step.
type StepResult struct {
	Step     string
	Tool     string
	Status   StepStatus
	Path     string
	Message  string
	Err      error
	Duration time.Duration
}

// Report aggregates the results of a full run. Results are appended in
// execution order; nothing is removed.
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Results   []StepResult
}

// Add appends a result to the report.
func (r *Report) Add(res StepResult) {
	r.Results = append(r.Results, res)
}

// Counts returns the number of results per status.
func (r *Report) Counts() map[StepStatus]int {
	counts := make(map[StepStatus]int, len(r.Results))
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Failed returns the results whose status is StatusFailed.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Progress is the accumulator the orchestrator updates as steps complete.
// It is passed explicitly to the reporter; there is no package-level
// mutable state.
type Progress struct {
	Total     int
	Current   int
	Installed int
	Failed    int
}

// Advance records the completion of one step.
func (p *Progress) Advance(status StepStatus) {
	p.Current++
	switch status {
	case StatusInstalled, StatusUnverified:
		p.Installed++
	case StatusFailed:
		p.Failed++
	}
}
