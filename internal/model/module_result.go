package model

import (
	"time"
)

const (
	// StatusSuccess marks a module whose action returned without error.
	StatusSuccess = "success"
	// StatusDryRun marks a module whose action completed in dry-run mode.
	StatusDryRun = "dry_run"
	// StatusFailed marks a module whose action returned an error or panicked.
	StatusFailed = "failed"
)

// ModuleResult captures the outcome of running a single module action.
type ModuleResult struct {
	Module    string
	Status    string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// RunReport summarises one engine run.
type RunReport struct {
	DryRun   bool
	Modules  []ModuleResult
	Duration time.Duration
}

// Failed returns the results of modules that did not complete.
func (r *RunReport) Failed() []ModuleResult {
	if r == nil {
		return nil
	}
	var failed []ModuleResult
	for _, res := range r.Modules {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Counts tallies results by status.
func (r *RunReport) Counts() map[string]int {
	counts := map[string]int{}
	if r == nil {
		return counts
	}
	for _, res := range r.Modules {
		counts[res.Status]++
	}
	return counts
}
