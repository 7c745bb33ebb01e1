// Package metrics records run metrics and exports them in the Prometheus
// text format for the node exporter's textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seopilot"

// Observation results.
const (
	ResultRanked   = "ranked"
	ResultUnranked = "unranked"
	ResultError    = "error"
)

// Recorder holds the metrics of one process. Each Recorder has its own
// registry so tests and runs never share state.
type Recorder struct {
	registry *prometheus.Registry

	tasks        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	observations *prometheus.CounterVec
	dropped      prometheus.Counter
	lastRun      prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Dispatched work items by outcome and action kind.",
		}, []string{"outcome", "action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one work item.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"action"}),
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Rank lookups by result.",
		}, []string{"result"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_rows_total",
			Help:      "Task source rows dropped for an unparsable priority score.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}
	r.registry.MustRegister(r.tasks, r.duration, r.observations, r.dropped, r.lastRun)
	return r
}

// Task records one dispatched work item.
func (r *Recorder) Task(outcome, action string, d time.Duration) {
	r.tasks.WithLabelValues(outcome, action).Inc()
	r.duration.WithLabelValues(action).Observe(d.Seconds())
}

// Observation records one rank lookup.
func (r *Recorder) Observation(result string) {
	r.observations.WithLabelValues(result).Inc()
}

// Dropped records n rows dropped while loading tasks.
func (r *Recorder) Dropped(n int) {
	if n > 0 {
		r.dropped.Add(float64(n))
	}
}

// RunFinished records the end of a run.
func (r *Recorder) RunFinished(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
