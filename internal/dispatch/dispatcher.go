package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/seopilot/seopilot/internal/errors"
	"github.com/seopilot/seopilot/internal/logging"
	"github.com/seopilot/seopilot/internal/task"
)

// DefaultTimeout bounds a single external invocation.
const DefaultTimeout = 30 * time.Second

// PageCreator creates an insurance-provider landing page.
type PageCreator interface {
	CreatePage(ctx context.Context, provider, slug string) error
}

// PageOptimizer optimizes an existing landing page for a query.
type PageOptimizer interface {
	OptimizePage(ctx context.Context, url, query string, position *int) error
}

// IssueFixer remediates technical SEO issues on a page.
type IssueFixer interface {
	FixIssues(ctx context.Context, url, issues string) error
}

// Operations bundles the external capabilities handlers use. A nil
// capability makes its handler fail.
type Operations struct {
	Creator   PageCreator
	Optimizer PageOptimizer
	Fixer     IssueFixer
}

// Config holds run-wide dispatch settings.
type Config struct {
	// DryRun reports every routable item implemented without invoking any
	// operation.
	DryRun bool

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

type handler func(ctx context.Context, item task.WorkItem) Outcome

type route struct {
	kind   task.ActionKind
	handle handler
}

// Dispatcher routes work items to handlers. It is not safe for concurrent
// use by multiple goroutines.
type Dispatcher struct {
	cfg    Config
	ops    Operations
	logger *logging.Logger
	routes []route
}

// New creates a Dispatcher.
func New(cfg Config, ops Operations, logger *logging.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	d := &Dispatcher{cfg: cfg, ops: ops, logger: logger}
	d.routes = []route{
		{task.ActionCreateLanding, d.createLanding},
		{task.ActionImproveLanding, d.improveLanding},
		{task.ActionTechFix, d.techFix},
	}
	return d
}

// DryRun reports whether the dispatcher is rehearsing.
func (d *Dispatcher) DryRun() bool {
	return d.cfg.DryRun
}

// Dispatch handles one work item. item is never modified.
func (d *Dispatcher) Dispatch(ctx context.Context, item task.WorkItem) Outcome {
	start := time.Now()
	logger := d.logger.WithTask(item.TargetQuery)

	kind := item.Kind
	if kind == "" {
		kind = task.ParseActionKind(item.Action)
	}

	var out Outcome
	h := d.lookup(kind)
	switch {
	case h == nil:
		out = skipped(fmt.Errorf("%w: %q", errors.ErrUnknownAction, item.Action))
	case d.cfg.DryRun:
		out = Outcome{Status: StatusImplemented, Reason: "dry run: would " + describe(kind)}
	default:
		var pc panics.Catcher
		pc.Try(func() { out = h(ctx, item) })
		if r := pc.Recovered(); r != nil {
			err := r.AsError()
			logger.Error("handler panicked", "action", kind.String(), "panic", fmt.Sprint(r.Value), "stack", string(r.Stack))
			out = failed(fmt.Errorf("%w: handler panicked: %v", errors.ErrInvocationFailed, err))
		}
	}

	out.Item = item
	out.Duration = time.Since(start)

	args := []any{"action", kind.String(), "status", out.Status.String(), "reason", out.Reason, "duration_ms", out.Duration.Milliseconds()}
	switch out.Status {
	case StatusFailed:
		logger.Warn("task failed", append(args,
			"error", out.Err.Error(),
			"severity", errors.GetSeverity(out.Err).String(),
			"retryable", errors.IsRetryable(out.Err))...)
	case StatusSkipped:
		logger.Info("task skipped", args...)
	default:
		logger.Info("task implemented", args...)
	}
	return out
}

func (d *Dispatcher) lookup(kind task.ActionKind) handler {
	for _, r := range d.routes {
		if r.kind == kind {
			return r.handle
		}
	}
	return nil
}

// invoke runs fn under the dispatch timeout and maps its error to an Outcome.
func (d *Dispatcher) invoke(ctx context.Context, op string, fn func(ctx context.Context) error) Outcome {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return Outcome{Status: StatusImplemented}
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
		err = errors.NewTimeoutError(op, d.cfg.Timeout).WithCause(err)
	}
	return failed(err)
}

func (d *Dispatcher) createLanding(ctx context.Context, item task.WorkItem) Outcome {
	if isInsurancePage(item.SuggestedURL) {
		p, ok := resolveProvider(item.TargetQuery)
		if !ok {
			return skipped(fmt.Errorf("%w in query %q", errors.ErrUnknownProvider, item.TargetQuery))
		}
		if d.ops.Creator == nil {
			return failed(notConfigured("page creator"))
		}
		out := d.invoke(ctx, "create-landing", func(ctx context.Context) error {
			return d.ops.Creator.CreatePage(ctx, p.name, p.slug)
		})
		if out.Status == StatusImplemented {
			out.Reason = "created " + p.slug
		}
		return out
	}

	if isServicePage(item.TargetQuery) {
		return Outcome{Status: StatusImplemented, Reason: "service page already exists"}
	}
	return skipped(fmt.Errorf("%w: %s", errors.ErrUnknownPageType, item.SuggestedURL))
}

func (d *Dispatcher) improveLanding(ctx context.Context, item task.WorkItem) Outcome {
	if d.ops.Optimizer == nil {
		return failed(notConfigured("page optimizer"))
	}
	out := d.invoke(ctx, "improve-landing", func(ctx context.Context) error {
		return d.ops.Optimizer.OptimizePage(ctx, item.SuggestedURL, item.TargetQuery, item.SerpPosition)
	})
	if out.Status == StatusImplemented {
		out.Reason = "optimized " + item.SuggestedURL
	}
	return out
}

func (d *Dispatcher) techFix(ctx context.Context, item task.WorkItem) Outcome {
	if d.ops.Fixer == nil {
		return failed(notConfigured("issue fixer"))
	}
	out := d.invoke(ctx, "tech-fix", func(ctx context.Context) error {
		return d.ops.Fixer.FixIssues(ctx, item.SuggestedURL, item.TechIssues)
	})
	if out.Status == StatusImplemented {
		out.Reason = "fixed issues on " + item.SuggestedURL
	}
	return out
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: err.Error(), Err: err}
}

func skipped(err error) Outcome {
	return Outcome{Status: StatusSkipped, Reason: err.Error(), Err: err}
}

func notConfigured(what string) error {
	return fmt.Errorf("%w: no %s configured", errors.ErrInvocationFailed, what)
}

func describe(kind task.ActionKind) string {
	switch kind {
	case task.ActionCreateLanding:
		return "create page"
	case task.ActionImproveLanding:
		return "optimize page"
	case task.ActionTechFix:
		return "fix issues"
	default:
		return strings.ReplaceAll(kind.String(), "-", " ")
	}
}
