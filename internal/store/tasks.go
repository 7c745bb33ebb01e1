package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/seopilot/seopilot/internal/errors"
	"github.com/seopilot/seopilot/internal/task"
)

// Column names of the work item source.
const (
	ColPriorityScore  = "priority_score"
	ColAction         = "action"
	ColTargetQuery    = "target_query"
	ColSuggestedURL   = "suggested_url"
	ColSerpPosition   = "serp_position"
	ColSerpURL        = "serp_url"
	ColTechIssues     = "tech_issues"
	ColRankOnWrongURL = "rank_on_wrong_url"
	ColRationale      = "rationale"
	ColPriority       = "priority"
)

var knownColumns = map[string]bool{
	ColPriorityScore:  true,
	ColAction:         true,
	ColTargetQuery:    true,
	ColSuggestedURL:   true,
	ColSerpPosition:   true,
	ColSerpURL:        true,
	ColTechIssues:     true,
	ColRankOnWrongURL: true,
	ColRationale:      true,
	ColPriority:       true,
}

// notAvailable is written for absent URLs and read back as empty.
const notAvailable = "N/A"

// LoadResult is the outcome of reading a work item source.
type LoadResult struct {
	// Items are the parsed rows in source order.
	Items []task.WorkItem

	// Dropped counts rows excluded for an unparsable priority score or a
	// malformed CSV record.
	Dropped int
}

// LoadTasks reads work items from the CSV file at path. A missing file
// returns an error matching errors.ErrSourceMissing.
func LoadTasks(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{}, fmt.Errorf("%w: %s", errors.ErrSourceMissing, path)
		}
		return LoadResult{}, fmt.Errorf("open task source: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadTasks(f)
}

// ReadTasks reads work items from CSV with a header row. The header must
// name at least the priority_score and action columns. Quotes inside
// unquoted fields are kept literally; a record that still fails to parse
// is dropped.
func ReadTasks(r io.Reader) (LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return LoadResult{}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColPriorityScore, ColAction} {
		if _, ok := index[required]; !ok {
			return LoadResult{}, errors.NewValidationError("task source is missing a required column").
				WithField(required)
		}
	}

	var result LoadResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			result.Dropped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("read row: %w", err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		score, err := parseScore(get(ColPriorityScore))
		if err != nil {
			result.Dropped++
			continue
		}

		item := task.WorkItem{
			TargetQuery:    get(ColTargetQuery),
			SuggestedURL:   get(ColSuggestedURL),
			SerpPosition:   parsePosition(get(ColSerpPosition)),
			SerpURL:        optional(get(ColSerpURL)),
			Action:         get(ColAction),
			PriorityScore:  score,
			Priority:       task.Tier(get(ColPriority)),
			Rationale:      get(ColRationale),
			RankOnWrongURL: strings.EqualFold(get(ColRankOnWrongURL), "true"),
			TechIssues:     get(ColTechIssues),
		}
		item.Kind = task.ParseActionKind(item.Action)

		for name, i := range index {
			if knownColumns[name] || i >= len(record) {
				continue
			}
			if item.Extra == nil {
				item.Extra = make(map[string]string)
			}
			item.Extra[name] = record[i]
		}

		result.Items = append(result.Items, item)
	}
	return result, nil
}

// parseScore parses a priority score. Empty, non-numeric and non-finite
// values fail with errors.ErrUnparsableScore.
func parseScore(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", errors.ErrUnparsableScore)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errors.ErrUnparsableScore, raw)
	}
	return v, nil
}

// parsePosition returns nil for anything other than a positive integer,
// including placeholders such as "Not in top 20".
func parsePosition(raw string) *int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return nil
	}
	return &v
}

func optional(raw string) string {
	if raw == notAvailable {
		return ""
	}
	return raw
}
