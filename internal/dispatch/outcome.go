package dispatch

import (
	"time"

	"github.com/seopilot/seopilot/internal/task"
)

// Status is the result of dispatching one work item.
type Status string

const (
	StatusImplemented Status = "implemented"
	StatusFailed      Status = "failed"
	StatusSkipped     Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Outcome records what happened to one work item during a run.
type Outcome struct {
	Item   task.WorkItem
	Status Status

	// Reason is a short human-readable explanation. For failures it holds
	// the captured error text.
	Reason string

	// Err is set for failed and skipped outcomes.
	Err error

	Duration time.Duration
}
