// Package report aggregates run outcomes into a summary and prints the
// console reports of the observe and implement phases.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/seopilot/seopilot/internal/dispatch"
	"github.com/seopilot/seopilot/internal/store"
)

// Entry identifies one work item in a summary bucket.
type Entry struct {
	Action string `json:"action"`
	Query  string `json:"query"`
	Reason string `json:"reason,omitempty"`
}

// Details lists the work items of each outcome bucket.
type Details struct {
	Implemented []Entry `json:"implemented"`
	Failed      []Entry `json:"failed"`
	Skipped     []Entry `json:"skipped"`
}

// Summary is the record of one implement run. It is written once and
// never changed afterwards.
type Summary struct {
	RunID       string    `json:"run_id"`
	Timestamp   time.Time `json:"timestamp"`
	DryRun      bool      `json:"dry_run"`
	TotalTasks  int       `json:"total_tasks"`
	Implemented int       `json:"implemented"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	Details     Details   `json:"details"`
}

// Summarize aggregates outcomes. It depends only on its arguments; every
// outcome lands in exactly one bucket, so the three counts always add up to
// TotalTasks.
func Summarize(runID string, timestamp time.Time, dryRun bool, outcomes []dispatch.Outcome) Summary {
	s := Summary{
		RunID:      runID,
		Timestamp:  timestamp.UTC(),
		DryRun:     dryRun,
		TotalTasks: len(outcomes),
		Details: Details{
			Implemented: []Entry{},
			Failed:      []Entry{},
			Skipped:     []Entry{},
		},
	}

	for _, o := range outcomes {
		entry := Entry{Action: o.Item.Action, Query: o.Item.TargetQuery, Reason: o.Reason}
		switch o.Status {
		case dispatch.StatusImplemented:
			s.Details.Implemented = append(s.Details.Implemented, entry)
		case dispatch.StatusFailed:
			s.Details.Failed = append(s.Details.Failed, entry)
		default:
			s.Details.Skipped = append(s.Details.Skipped, entry)
		}
	}

	s.Implemented = len(s.Details.Implemented)
	s.Failed = len(s.Details.Failed)
	s.Skipped = len(s.Details.Skipped)
	return s
}

// Consistent reports whether the bucket counts add up to the total.
func (s Summary) Consistent() bool {
	return s.Implemented+s.Failed+s.Skipped == s.TotalTasks &&
		s.Implemented == len(s.Details.Implemented) &&
		s.Failed == len(s.Details.Failed) &&
		s.Skipped == len(s.Details.Skipped)
}

// WriteJSON atomically writes s as indented JSON to path.
func WriteJSON(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	return store.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
