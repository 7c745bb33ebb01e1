package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seopilot/seopilot/internal/dispatch"
	"github.com/seopilot/seopilot/internal/task"
)

var runTime = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

func outcome(status dispatch.Status, action, query, reason string) dispatch.Outcome {
	return dispatch.Outcome{
		Item:   task.WorkItem{Action: action, TargetQuery: query},
		Status: status,
		Reason: reason,
	}
}

func sampleOutcomes() []dispatch.Outcome {
	return []dispatch.Outcome{
		outcome(dispatch.StatusImplemented, "create-landing", "psychiatrist orlando accepts cigna", "created psychiatrist-orlando-takes-cigna"),
		outcome(dispatch.StatusFailed, "improve-landing", "psychiatry orlando", "invocation error [op=optimize-landing, exit=1]: page not found"),
		outcome(dispatch.StatusSkipped, "create-landing", "psychiatrist orlando accepts aetna", "unknown insurance provider"),
		outcome(dispatch.StatusSkipped, "rewrite-site", "psychiatrist orlando", "unknown action"),
		outcome(dispatch.StatusImplemented, "tech-fix", "adhd psychiatrist orlando", "fixed issues"),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("run-1", runTime, false, sampleOutcomes())

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, runTime, s.Timestamp)
	assert.Equal(t, 5, s.TotalTasks)
	assert.Equal(t, 2, s.Implemented)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Skipped)
	assert.True(t, s.Consistent())

	assert.Equal(t, []Entry{
		{Action: "create-landing", Query: "psychiatrist orlando accepts cigna", Reason: "created psychiatrist-orlando-takes-cigna"},
		{Action: "tech-fix", Query: "adhd psychiatrist orlando", Reason: "fixed issues"},
	}, s.Details.Implemented)
	assert.Equal(t, "rewrite-site", s.Details.Skipped[1].Action)
}

func TestSummarize_CountsAlwaysAddUp(t *testing.T) {
	all := sampleOutcomes()
	for n := 0; n <= len(all); n++ {
		s := Summarize("run", runTime, true, all[:n])
		assert.Equalf(t, n, s.Implemented+s.Failed+s.Skipped, "prefix of %d outcomes", n)
		assert.True(t, s.Consistent())
	}
}

func TestSummarize_Pure(t *testing.T) {
	in := sampleOutcomes()
	a := Summarize("run", runTime, false, in)
	b := Summarize("run", runTime, false, in)
	assert.Equal(t, a, b)
}

func TestSummarize_NormalizesTimestamp(t *testing.T) {
	local := runTime.In(time.FixedZone("EST", -5*3600))
	s := Summarize("run", local, false, nil)
	assert.Equal(t, time.UTC, s.Timestamp.Location())
	assert.True(t, s.Timestamp.Equal(runTime))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "implementation_summary.json")

	require.NoError(t, WriteJSON(path, Summarize("run-7", runTime, false, nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-7", got["run_id"])
	assert.Equal(t, "2026-03-02T06:00:00Z", got["timestamp"])
	assert.EqualValues(t, 0, got["total_tasks"])

	details, ok := got["details"].(map[string]any)
	require.True(t, ok)
	for _, bucket := range []string{"implemented", "failed", "skipped"} {
		assert.Equal(t, []any{}, details[bucket], "empty bucket %s must be an empty list", bucket)
	}
}
