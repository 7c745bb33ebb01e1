package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/seopilot/seopilot/internal/dispatch"
	"github.com/seopilot/seopilot/internal/serp"
	"github.com/seopilot/seopilot/internal/task"
)

var (
	primaryColor = lipgloss.Color("#A78BFA")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#F87171")
	mutedColor   = lipgloss.Color("#9CA3AF")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

const ruleWidth = 60

// Printer writes console reports. Styling is applied only when the
// destination is a terminal.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter creates a Printer writing to w. Styling is enabled when w is
// a terminal.
func NewPrinter(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{w: w, styled: styled}
}

// NewPlainPrinter creates a Printer that never styles its output.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// Title prints a ruled section heading.
func (p *Printer) Title(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.printf("%s\n%s\n%s\n", p.render(mutedStyle, rule), p.render(titleStyle, title), p.render(mutedStyle, rule))
}

// Infof prints an unstyled line.
func (p *Printer) Infof(format string, args ...any) {
	p.printf(format+"\n", args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.printf("%s\n", p.render(warningStyle, fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.printf("%s\n", p.render(errorStyle, fmt.Sprintf(format, args...)))
}

// Checking prints the progress line of a rank lookup.
func (p *Printer) Checking(i, n int, keyword string) {
	p.printf("[%d/%d] Checking: %s\n", i, n, keyword)
}

// Progress prints the progress line of an implement run.
func (p *Printer) Progress(i, n int, item task.WorkItem) {
	p.printf("[%d/%d] Priority: %s | %s | %s\n", i, n, formatScore(item.PriorityScore), item.Action, item.TargetQuery)
}

// Outcome prints the indented result of one dispatched item.
func (p *Printer) Outcome(o dispatch.Outcome) {
	switch o.Status {
	case dispatch.StatusImplemented:
		p.printf("   %s\n", p.render(successStyle, "implemented: "+o.Reason))
	case dispatch.StatusFailed:
		p.printf("   %s\n", p.render(errorStyle, "failed: "+o.Reason))
	default:
		p.printf("   %s\n", p.render(warningStyle, "skipped: "+o.Reason))
	}
}

// Summary prints the closing report of an implement run.
func (p *Printer) Summary(s Summary, path string) {
	p.printf("\n")
	p.Title("IMPLEMENTATION SUMMARY")
	p.printf("%s\n", p.render(successStyle, fmt.Sprintf("Implemented: %d", s.Implemented)))
	p.printf("%s\n", p.render(errorStyle, fmt.Sprintf("Failed: %d", s.Failed)))
	p.printf("%s\n", p.render(warningStyle, fmt.Sprintf("Skipped: %d", s.Skipped)))

	p.bucket("Successfully implemented:", s.Details.Implemented, false)
	p.bucket("Failed to implement:", s.Details.Failed, true)
	p.bucket("Skipped:", s.Details.Skipped, true)

	if path != "" {
		p.printf("\nSummary saved to %s\n", path)
	}
}

func (p *Printer) bucket(heading string, entries []Entry, withReason bool) {
	if len(entries) == 0 {
		return
	}
	p.printf("\n%s\n", heading)
	for _, e := range entries {
		line := fmt.Sprintf("   - %s: %s", e.Action, e.Query)
		if withReason && e.Reason != "" {
			line += p.render(mutedStyle, " ("+e.Reason+")")
		}
		p.printf("%s\n", line)
	}
}

// Observations prints the closing report of the observe phase: how many
// keywords rank, where they rank and the breakdown of generated tasks by
// type in order of first appearance.
func (p *Printer) Observations(total int, observations []serp.Observation, items []task.WorkItem, window int, files []string) {
	p.printf("\n")
	p.Title("Summary")

	ranking := 0
	for _, obs := range observations {
		if obs.Ranked() {
			ranking++
		}
	}
	p.printf("\nRanking in top %d: %d/%d keywords\n", window, ranking, total)

	if ranking > 0 {
		p.printf("\nCurrently ranking:\n")
		for _, obs := range observations {
			if pos, ok := obs.PositionValue(); ok {
				p.printf("  - %s: #%d\n", obs.Keyword, pos)
			}
		}
	}

	var order []string
	counts := make(map[string]int)
	for _, item := range items {
		if counts[item.Action] == 0 {
			order = append(order, item.Action)
		}
		counts[item.Action]++
	}
	p.printf("\nTask breakdown:\n")
	for _, action := range order {
		p.printf("  - %s: %d\n", action, counts[action])
	}

	if len(files) > 0 {
		p.printf("\n%s\n", p.render(successStyle, "Complete! Files generated:"))
		for _, f := range files {
			p.printf("  - %s\n", f)
		}
	}
}

// formatScore prints whole scores with one decimal, like "3.0".
func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}
