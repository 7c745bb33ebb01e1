package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seopilot/seopilot/internal/config"
	"github.com/seopilot/seopilot/internal/logging"
	"github.com/seopilot/seopilot/internal/pipeline"
	"github.com/seopilot/seopilot/internal/report"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Check keyword rankings and generate tasks",
	Long: `Check the ranking of every configured keyword and write two reports:
the rank report (one row per keyword with competitor positions) and the
enriched task list (one classified task per keyword).

The ranking oracle is probed first; if it is unreachable nothing is
observed and the command fails.`,
	Args: cobra.NoArgs,
	RunE: runObserve,
}

var implementCmd = &cobra.Command{
	Use:   "implement",
	Short: "Implement the highest-priority tasks",
	Long: `Load scored tasks from the task source, select those scoring at least
the priority threshold, highest first, up to the per-run cap, and
dispatch each to its handler. A summary of the run is written as JSON.

With --dry-run (or AUTO_IMPLEMENT_DRY_RUN=true) every routable task is
reported implemented without running any script.`,
	Args: cobra.NoArgs,
	RunE: runImplement,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Observe, then implement",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(implementCmd)
	rootCmd.AddCommand(runCmd)

	for _, c := range []*cobra.Command{implementCmd, runCmd} {
		c.Flags().Bool("dry-run", false, "report tasks as implemented without running scripts")
		c.Flags().Int("max-tasks", 0, "maximum number of tasks to implement (default from config: 5)")
		c.Flags().Float64("threshold", 0, "minimum priority score (default from config: 1.0)")
		c.Flags().String("source", "", "task source CSV (default from config: tasks_final.csv)")
	}
}

// bindTaskFlags binds the task flags of cmd to viper. Flags are bound when
// the command runs so that implement and run do not override each other.
func bindTaskFlags(cmd *cobra.Command) {
	bindings := map[string]string{
		"dry-run":   "tasks.dry_run",
		"max-tasks": "tasks.max_per_run",
		"threshold": "tasks.priority_threshold",
		"source":    "tasks.source",
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// newPipeline loads the configuration and builds the pipeline and logger
// for one run. The caller must close the logger.
func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, *logging.Logger, error) {
	bindTaskFlags(cmd)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	runID := uuid.NewString()
	logger = logger.WithRun(runID)
	logger.Info("run started", "command", cmd.Name(), "dry_run", cfg.Tasks.DryRun, "config", viper.ConfigFileUsed())

	p, err := pipeline.New(cfg, runID,
		pipeline.WithLogger(logger),
		pipeline.WithPrinter(report.NewPrinter(cmd.OutOrStdout())),
	)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	return p, logger, nil
}

func runObserve(cmd *cobra.Command, args []string) error {
	p, logger, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	_, err = p.Observe(cmd.Context())
	return err
}

func runImplement(cmd *cobra.Command, args []string) error {
	p, logger, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	_, err = p.Implement(cmd.Context())
	return err
}

func runAll(cmd *cobra.Command, args []string) error {
	p, logger, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	_, _, err = p.Run(cmd.Context())
	return err
}
