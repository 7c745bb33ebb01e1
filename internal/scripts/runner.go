// Package scripts runs the site's page-editing Node.js scripts.
package scripts

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/seopilot/seopilot/internal/config"
	"github.com/seopilot/seopilot/internal/errors"
	"github.com/seopilot/seopilot/internal/logging"
)

// Operation names used in errors and logs.
const (
	OpCreateLanding   = "create-landing"
	OpOptimizeLanding = "optimize-landing"
	OpFixTechIssues   = "fix-tech-issues"
)

// defaultWaitDelay bounds how long Run waits for output pipes to close
// after the process is killed.
const defaultWaitDelay = 2 * time.Second

// Runner invokes one script per operation as `<node> <dir>/<script> args...`.
// It implements dispatch.PageCreator, dispatch.PageOptimizer and
// dispatch.IssueFixer. Deadlines come from the caller's context.
type Runner struct {
	cfg       config.ScriptsConfig
	scripts   map[string]string
	waitDelay time.Duration
	logger    *logging.Logger
}

// NewRunner creates a Runner from the scripts configuration.
func NewRunner(cfg config.ScriptsConfig, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		scripts: map[string]string{
			OpCreateLanding:   cfg.CreateLanding,
			OpOptimizeLanding: cfg.OptimizeLanding,
			OpFixTechIssues:   cfg.FixTechIssues,
		},
		cfg:       cfg,
		waitDelay: defaultWaitDelay,
		logger:    logger,
	}
}

// CreatePage creates the insurance landing page for provider at slug.
func (r *Runner) CreatePage(ctx context.Context, provider, slug string) error {
	return r.run(ctx, OpCreateLanding, "--provider", provider, "--slug", slug)
}

// OptimizePage optimizes the page at url for query. A nil position is
// passed as an empty argument.
func (r *Runner) OptimizePage(ctx context.Context, url, query string, position *int) error {
	pos := ""
	if position != nil {
		pos = strconv.Itoa(*position)
	}
	return r.run(ctx, OpOptimizeLanding, "--url", url, "--query", query, "--position", pos)
}

// FixIssues remediates the described technical issues on url.
func (r *Runner) FixIssues(ctx context.Context, url, issues string) error {
	return r.run(ctx, OpFixTechIssues, "--url", url, "--issues", issues)
}

// Command returns the command line run for op, for display.
func (r *Runner) Command(op string, args ...string) []string {
	return append([]string{r.cfg.Node, r.cfg.ScriptPath(r.scripts[op])}, args...)
}

func (r *Runner) run(ctx context.Context, op string, args ...string) error {
	argv := r.Command(op, args...)
	logger := r.logger.WithOperation(op)
	logger.Debug("invoking script", "argv", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = r.waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err == nil {
		logger.Debug("script succeeded", "duration_ms", elapsed.Milliseconds())
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.NewInvocationError(op, ctxErr).WithStderr(stderr.String())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errors.NewInvocationError(op, err).
			WithExitCode(exitErr.ExitCode()).
			WithStderr(stderr.String())
	}
	return errors.NewInvocationError(op, err)
}
