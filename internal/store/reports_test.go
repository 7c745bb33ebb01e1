package store

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seopilot/seopilot/internal/serp"
	"github.com/seopilot/seopilot/internal/task"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var competitors = []Competitor{
	{Domain: "healingpsychiatryflorida.com", Column: "healing_psychiatry_position"},
	{Domain: "orlandohealth.com", Column: "orlando_health_position"},
}

func TestEncodeRankReport(t *testing.T) {
	observations := []serp.Observation{
		{
			Keyword:     "psychiatrist orlando",
			Position:    intPtr(4),
			URL:         strPtr("https://empathyhealthclinic.com/psychiatrist-orlando/"),
			Competitors: map[string]*int{"healingpsychiatryflorida.com": intPtr(1), "orlandohealth.com": nil},
		},
		{Keyword: "telepsychiatry orlando"},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeRankReport(&buf, observations, competitors, 20))

	want := "keyword,position,url,healing_psychiatry_position,orlando_health_position\n" +
		"psychiatrist orlando,4,https://empathyhealthclinic.com/psychiatrist-orlando/,1,N/A\n" +
		"telepsychiatry orlando,Not in top 20,N/A,N/A,N/A\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeEnrichedTasks(t *testing.T) {
	items := []task.WorkItem{
		{
			TargetQuery:    "psychiatry orlando",
			SerpPosition:   intPtr(15),
			SerpURL:        "https://empathyhealthclinic.com/services/",
			SuggestedURL:   "https://empathyhealthclinic.com/psychiatry-orlando/",
			RankOnWrongURL: true,
			Action:         "improve-landing",
			Rationale:      "Position 15 (Page 2+) - significantly improve content and on-page SEO",
			Priority:       task.TierHigh,
		},
		{
			TargetQuery:  "telepsychiatry orlando",
			SuggestedURL: "https://empathyhealthclinic.com/telepsychiatry-orlando/",
			Action:       "create-landing",
			Rationale:    "Not ranking in top 20 - create dedicated landing page",
			Priority:     task.TierHigh,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeEnrichedTasks(&buf, items, 20))

	want := "target_query,serp_position,serp_url,suggested_url,rank_on_wrong_url,type,rationale,priority\n" +
		"psychiatry orlando,15,https://empathyhealthclinic.com/services/,https://empathyhealthclinic.com/psychiatry-orlando/,True,improve-landing,Position 15 (Page 2+) - significantly improve content and on-page SEO,high\n" +
		"telepsychiatry orlando,Not in top 20,N/A,https://empathyhealthclinic.com/telepsychiatry-orlando/,False,create-landing,Not ranking in top 20 - create dedicated landing page,high\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRankReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "serp_ranks.csv")

	err := WriteRankReport(path, []serp.Observation{{Keyword: "psychiatry orlando", Position: intPtr(2)}}, nil, 20)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keyword,position,url\npsychiatry orlando,2,N/A\n", string(data))
}

func TestWriteFileAtomic_FailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks_enriched.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	boom := errors.New("encode failed")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed")
}

func TestWriteEnrichedTasks_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks_enriched.csv")
	items := []task.WorkItem{{TargetQuery: "psychiatry orlando", Action: "improve-landing", Priority: task.TierMedium}}

	require.NoError(t, WriteEnrichedTasks(path, items, 20))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// The enriched sink carries no priority_score column, so it is not a task source.
	_, err = ReadTasks(f)
	require.Error(t, err)
}
