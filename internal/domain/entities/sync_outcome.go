package entities

import "time"

// SyncOutcome is the terminal state of one directory in a run.
type SyncOutcome string

const (
	OutcomeUpToDate       SyncOutcome = "up-to-date"
	OutcomePushed         SyncOutcome = "pushed"
	OutcomeResetAndPushed SyncOutcome = "reset-and-pushed"
	OutcomeFailed         SyncOutcome = "failed"
)

// SyncResult is produced exactly once per processed directory.
type SyncResult struct {
	Directory string
	Outcome   SyncOutcome
	Created   bool // the local repository was initialized during this run
	Err       error
	Duration  time.Duration
}

// NewFailedResult builds a failed result for the given directory.
func NewFailedResult(directory string, err error) SyncResult {
	return SyncResult{Directory: directory, Outcome: OutcomeFailed, Err: err}
}

// RunSummary aggregates the results of a whole run.
type RunSummary struct {
	Results []SyncResult
}

// Add appends a result to the summary.
func (s *RunSummary) Add(result SyncResult) {
	s.Results = append(s.Results, result)
}

// Total returns the number of processed directories.
func (s *RunSummary) Total() int { return len(s.Results) }

// Count returns how many directories ended with the given outcome.
func (s *RunSummary) Count(outcome SyncOutcome) int {
	count := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			count++
		}
	}
	return count
}

// Failed returns the failed results in processing order.
func (s *RunSummary) Failed() []SyncResult {
	var failed []SyncResult
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// HasFailures reports whether any directory ended in failure.
func (s *RunSummary) HasFailures() bool {
	return s.Count(OutcomeFailed) > 0
}
