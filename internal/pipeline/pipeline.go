package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/seopilot/seopilot/internal/config"
	"github.com/seopilot/seopilot/internal/dispatch"
	"github.com/seopilot/seopilot/internal/errors"
	"github.com/seopilot/seopilot/internal/logging"
	"github.com/seopilot/seopilot/internal/metrics"
	"github.com/seopilot/seopilot/internal/report"
	"github.com/seopilot/seopilot/internal/runlock"
	"github.com/seopilot/seopilot/internal/scripts"
	"github.com/seopilot/seopilot/internal/serp"
	"github.com/seopilot/seopilot/internal/store"
	"github.com/seopilot/seopilot/internal/task"
)

// Oracle is the ranking oracle as seen by the observe phase.
type Oracle interface {
	serp.Observer
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// Pipeline runs the observe and implement phases for one run.
type Pipeline struct {
	cfg   *config.Config
	runID string

	logger  *logging.Logger
	printer *report.Printer
	metrics *metrics.Recorder
	oracle  Oracle
	ops     *dispatch.Operations
	now     func() time.Time
}

// New creates a Pipeline for cfg. runID identifies the run in logs and
// in the summary.
func New(cfg *config.Config, runID string, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	if runID == "" {
		return nil, errors.New("pipeline: run ID is required")
	}

	p := &Pipeline{cfg: cfg, runID: runID}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logging.NopLogger()
	}
	if p.printer == nil {
		p.printer = report.NewPrinter(os.Stdout)
	}
	if p.metrics == nil {
		p.metrics = metrics.NewRecorder()
	}
	if p.oracle == nil {
		p.oracle = serp.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.RankingPath,
			serp.WithTimeout(cfg.Oracle.RequestTimeout()))
	}
	if p.ops == nil {
		runner := scripts.NewRunner(cfg.Scripts, p.logger.WithPhase("implement"))
		p.ops = &dispatch.Operations{Creator: runner, Optimizer: runner, Fixer: runner}
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// RunID returns the run identifier.
func (p *Pipeline) RunID() string {
	return p.runID
}

// ObserveResult is what the observe phase produced.
type ObserveResult struct {
	Observations []serp.Observation
	Failed       []*errors.ObservationError
	Items        []task.WorkItem
}

// Observe runs the observe phase. It fails without observing anything when
// the oracle does not answer the health check.
func (p *Pipeline) Observe(ctx context.Context) (ObserveResult, error) {
	logger := p.logger.WithPhase("observe")
	cfg := p.cfg

	p.printer.Title("SERP Analysis & Task Generation")

	if err := p.oracle.HealthCheck(ctx, cfg.Oracle.HealthTimeout()); err != nil {
		logger.Error("ranking oracle unreachable", "base_url", cfg.Oracle.BaseURL, "error", err.Error())
		p.printer.Errorf("Error: ranking oracle not reachable at %s", cfg.Oracle.BaseURL)
		return ObserveResult{}, err
	}

	n := len(cfg.Keywords)
	p.printer.Infof("Fetching rankings for %d keywords...", n)

	sweeper := &serp.Sweeper{
		Observer: p.oracle,
		Delay:    cfg.Oracle.Delay(),
		Logger:   logger,
		OnObserved: func(i int, keyword string, err error) {
			p.printer.Checking(i+1, n, keyword)
			if err != nil {
				p.metrics.Observation(metrics.ResultError)
				p.printer.Warnf("   lookup failed: %v", err)
			}
		},
	}
	sweep, err := sweeper.Run(ctx, cfg.Keywords)
	result := ObserveResult{Observations: sweep.Observations, Failed: sweep.Failed}
	if err != nil {
		return result, errors.Wrap(err, "observe keywords")
	}

	classifier := task.NewClassifier(cfg.Site.BaseURL, cfg.Oracle.Window)
	for _, obs := range sweep.Observations {
		if obs.Ranked() {
			p.metrics.Observation(metrics.ResultRanked)
		} else {
			p.metrics.Observation(metrics.ResultUnranked)
		}
		result.Items = append(result.Items, classifier.Classify(obs))
	}

	competitors := make([]store.Competitor, len(cfg.Competitors))
	for i, c := range cfg.Competitors {
		competitors[i] = store.Competitor{Domain: c.Domain, Column: c.Column}
	}
	if err := store.WriteRankReport(cfg.Output.RankReport, sweep.Observations, competitors, cfg.Oracle.Window); err != nil {
		return result, errors.Wrapf(err, "write rank report %s", cfg.Output.RankReport)
	}
	if err := store.WriteEnrichedTasks(cfg.Output.EnrichedTasks, result.Items, cfg.Oracle.Window); err != nil {
		return result, errors.Wrapf(err, "write enriched tasks %s", cfg.Output.EnrichedTasks)
	}

	logger.Info("observe phase complete",
		"keywords", n,
		"observed", len(sweep.Observations),
		"failed", len(sweep.Failed),
		"tasks", len(result.Items))

	p.printer.Observations(n, sweep.Observations, result.Items, cfg.Oracle.Window,
		[]string{cfg.Output.RankReport, cfg.Output.EnrichedTasks})
	p.writeMetrics(logger)

	return result, nil
}

// Implement runs the implement phase and returns the written summary. Only
// one implement phase may run per lock directory at a time.
func (p *Pipeline) Implement(ctx context.Context) (report.Summary, error) {
	logger := p.logger.WithPhase("implement")
	cfg := p.cfg

	lock := runlock.New(cfg.Lock.Dir)
	if err := lock.Acquire(); err != nil {
		return report.Summary{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", "path", lock.Path(), "error", err.Error())
		}
	}()

	p.printer.Title("AUTONOMOUS SEO TASK IMPLEMENTATION")
	p.printer.Infof("Timestamp: %s", p.now().UTC().Format("2006-01-02 15:04 UTC"))
	p.printer.Infof("Max tasks per run: %d", cfg.Tasks.MaxPerRun)
	p.printer.Infof("Priority threshold: %v", cfg.Tasks.PriorityThreshold)
	p.printer.Infof("Dry run mode: %v", cfg.Tasks.DryRun)
	p.printer.Infof("")

	loaded, err := store.LoadTasks(cfg.Tasks.Source)
	switch {
	case errors.Is(err, errors.ErrSourceMissing):
		logger.Warn("task source missing, nothing to implement", "source", cfg.Tasks.Source)
		p.printer.Warnf("%s not found", cfg.Tasks.Source)
	case err != nil:
		return report.Summary{}, errors.Wrapf(err, "load tasks from %s", cfg.Tasks.Source)
	}
	if loaded.Dropped > 0 {
		logger.Warn("dropped rows with unparsable priority score", "source", cfg.Tasks.Source, "dropped", loaded.Dropped)
		p.metrics.Dropped(loaded.Dropped)
	}

	selected := task.Select(loaded.Items, cfg.Tasks.PriorityThreshold, cfg.Tasks.MaxPerRun)
	logger.Info("tasks selected",
		"loaded", len(loaded.Items),
		"selected", len(selected),
		"threshold", cfg.Tasks.PriorityThreshold,
		"max_per_run", cfg.Tasks.MaxPerRun)

	if len(selected) == 0 {
		p.printer.Infof("No high-priority tasks to implement")
	} else {
		p.printer.Infof("Found %d high-priority tasks to implement", len(selected))
		p.printer.Infof("")
	}

	d := dispatch.New(dispatch.Config{
		DryRun:  cfg.Tasks.DryRun,
		Timeout: cfg.Dispatch.Timeout(),
	}, *p.ops, logger)

	outcomes := make([]dispatch.Outcome, 0, len(selected))
	for i, item := range selected {
		if ctx.Err() != nil {
			outcomes = append(outcomes, canceled(item, ctx.Err()))
			continue
		}
		p.printer.Progress(i+1, len(selected), item)
		out := d.Dispatch(ctx, item)
		p.printer.Outcome(out)
		p.metrics.Task(out.Status.String(), kindOf(item).String(), out.Duration)
		outcomes = append(outcomes, out)
	}

	finished := p.now()
	summary := report.Summarize(p.runID, finished, cfg.Tasks.DryRun, outcomes)
	if err := report.WriteJSON(cfg.Output.Summary, summary); err != nil {
		return summary, errors.Wrap(err, "write summary")
	}

	logger.Info("implement phase complete",
		"total", summary.TotalTasks,
		"implemented", summary.Implemented,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	p.printer.Summary(summary, cfg.Output.Summary)
	p.metrics.RunFinished(finished)
	p.writeMetrics(logger)

	return summary, ctx.Err()
}

// Run observes, then implements from the configured task source.
func (p *Pipeline) Run(ctx context.Context) (ObserveResult, report.Summary, error) {
	observed, err := p.Observe(ctx)
	if err != nil {
		return observed, report.Summary{}, err
	}
	summary, err := p.Implement(ctx)
	return observed, summary, err
}

func (p *Pipeline) writeMetrics(logger *logging.Logger) {
	if err := p.metrics.WriteTextfile(p.cfg.Metrics.Textfile); err != nil {
		logger.Warn("failed to write metrics", "path", p.cfg.Metrics.Textfile, "error", err.Error())
	}
}

// canceled records an item the run never reached because ctx ended.
func canceled(item task.WorkItem, err error) dispatch.Outcome {
	return dispatch.Outcome{
		Item:   item,
		Status: dispatch.StatusSkipped,
		Reason: "run canceled before dispatch",
		Err:    err,
	}
}

func kindOf(item task.WorkItem) task.ActionKind {
	if item.Kind != "" {
		return item.Kind
	}
	return task.ParseActionKind(item.Action)
}
