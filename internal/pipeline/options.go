package pipeline

import (
	"time"

	"github.com/seopilot/seopilot/internal/dispatch"
	"github.com/seopilot/seopilot/internal/logging"
	"github.com/seopilot/seopilot/internal/metrics"
	"github.com/seopilot/seopilot/internal/report"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The pipeline adds phase context to it.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithPrinter sets where console reports go.
func WithPrinter(printer *report.Printer) Option {
	return func(p *Pipeline) {
		p.printer = printer
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = recorder
	}
}

// WithOracle replaces the HTTP ranking oracle client.
func WithOracle(oracle Oracle) Option {
	return func(p *Pipeline) {
		p.oracle = oracle
	}
}

// WithOperations replaces the script runner used by the dispatcher.
func WithOperations(ops dispatch.Operations) Option {
	return func(p *Pipeline) {
		p.ops = &ops
	}
}

// WithClock sets the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}
