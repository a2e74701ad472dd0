package experiments

import "fmt"

// TrialExecutionError wraps a failure of the trial engine. The run stops at
// the failing trial.
type TrialExecutionError struct {
	Trial int
	Err   error
}

func (e *TrialExecutionError) Error() string {
	return fmt.Sprintf("trial %d failed: %v", e.Trial, e.Err)
}

func (e *TrialExecutionError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure of the results sink after a trial.
type PersistenceError struct {
	Trial int
	Op    string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s after trial %d: %v", e.Op, e.Trial, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
