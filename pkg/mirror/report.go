package mirror

import (
	"fmt"
	"sort"
)

// RepoOutcome is what happened to one source repository during a run
type RepoOutcome string

const (
	OutcomeAlreadyMirrored RepoOutcome = "already_mirrored"
	OutcomeMirrored        RepoOutcome = "mirrored"
	OutcomeWouldMirror     RepoOutcome = "would_mirror"
	OutcomeFailed          RepoOutcome = "failed"
)

// RepoResult records the outcome for a single repository
type RepoResult struct {
	Name    string      `json:"name"`
	Outcome RepoOutcome `json:"outcome"`
	Err     error       `json:"-"`
}

// Report summarizes a mirror run
type Report struct {
	DryRun   bool         `json:"dry_run"`
	Fetched  int          `json:"fetched"`
	Selected int          `json:"selected"`
	Existing int          `json:"existing"`
	Org      OrgState     `json:"org"`
	OrgErr   error        `json:"-"`
	Results  []RepoResult `json:"results"`
}

func (r *Report) record(name string, outcome RepoOutcome, err error) {
	r.Results = append(r.Results, RepoResult{Name: name, Outcome: outcome, Err: err})
}

// Count returns how many repositories ended with outcome
func (r *Report) Count(outcome RepoOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Names returns the repositories that ended with outcome, in run order
func (r *Report) Names(outcome RepoOutcome) []string {
	var names []string
	for _, res := range r.Results {
		if res.Outcome == outcome {
			names = append(names, res.Name)
		}
	}
	return names
}

// Err returns a *PartialFailureError when at least one mirror could not be
// created, and nil otherwise
func (r *Report) Err() error {
	failed := make(map[string]error)
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			failed[res.Name] = res.Err
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return NewPartialFailureError(r.Names(OutcomeMirrored), failed)
}

// PartialFailureError represents a run where some mirrors were created and others failed
type PartialFailureError struct {
	Succeeded []string         `json:"succeeded"`
	Failed    map[string]error `json:"failed"`
	Message   string           `json:"message"`
}

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("partial failure: %d succeeded, %d failed", len(e.Succeeded), len(e.Failed))
}

// NewPartialFailureError creates a new partial failure error
func NewPartialFailureError(succeeded []string, failed map[string]error) *PartialFailureError {
	message := fmt.Sprintf("mirror run completed with failures: %d repositories mirrored, %d failed",
		len(succeeded), len(failed))

	return &PartialFailureError{
		Succeeded: succeeded,
		Failed:    failed,
		Message:   message,
	}
}

// GetFailedOperations returns the names of the repositories that failed, sorted
func (e *PartialFailureError) GetFailedOperations() []string {
	var names []string
	for name := range e.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
