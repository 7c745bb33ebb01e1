package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/seopilot/seopilot/internal/serp"
	"github.com/seopilot/seopilot/internal/task"
)

// Competitor maps a tracked competitor domain to its rank report column.
type Competitor struct {
	Domain string
	Column string
}

// EnrichedColumns is the header of the enriched task sink.
var EnrichedColumns = []string{
	ColTargetQuery, ColSerpPosition, ColSerpURL, ColSuggestedURL,
	ColRankOnWrongURL, "type", ColRationale, ColPriority,
}

// notRanked is the placeholder for an absent position.
func notRanked(window int) string {
	return fmt.Sprintf("Not in top %d", window)
}

// EncodeRankReport writes one row per observation: keyword, position, url
// and one column per competitor.
func EncodeRankReport(w io.Writer, observations []serp.Observation, competitors []Competitor, window int) error {
	cw := csv.NewWriter(w)

	header := []string{"keyword", "position", "url"}
	for _, c := range competitors {
		header = append(header, c.Column)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, obs := range observations {
		row := []string{obs.Keyword, notRanked(window), notAvailable}
		if pos, ok := obs.PositionValue(); ok {
			row[1] = strconv.Itoa(pos)
		}
		if u := obs.URLValue(); u != "" {
			row[2] = u
		}
		for _, c := range competitors {
			if pos, ok := obs.CompetitorPosition(c.Domain); ok {
				row = append(row, strconv.Itoa(pos))
			} else {
				row = append(row, notAvailable)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// EncodeEnrichedTasks writes the classified work items.
func EncodeEnrichedTasks(w io.Writer, items []task.WorkItem, window int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EnrichedColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, item := range items {
		position := item.PositionString()
		if position == "" {
			position = notRanked(window)
		}
		serpURL := item.SerpURL
		if serpURL == "" {
			serpURL = notAvailable
		}
		wrongURL := "False"
		if item.RankOnWrongURL {
			wrongURL = "True"
		}

		row := []string{
			item.TargetQuery, position, serpURL, item.SuggestedURL,
			wrongURL, item.Action, item.Rationale, item.Priority.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRankReport atomically writes the rank report to path.
func WriteRankReport(path string, observations []serp.Observation, competitors []Competitor, window int) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeRankReport(w, observations, competitors, window)
	})
}

// WriteEnrichedTasks atomically writes the enriched task sink to path.
func WriteEnrichedTasks(path string, items []task.WorkItem, window int) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeEnrichedTasks(w, items, window)
	})
}

// WriteFileAtomic writes a temporary file next to path with encode, then
// renames it into place. On failure the target is left untouched.
func WriteFileAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
