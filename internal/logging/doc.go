// Package logging provides structured logging for seopilot runs.
//
// It wraps Go's log/slog package to write JSON-formatted log lines, either to
// stderr or to a size-rotated file in a log directory. Child loggers carry
// persistent context so every line of a run can be correlated afterwards:
//
//	logger, err := logging.NewLogger("/var/log/seopilot", logging.LevelInfo, logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun(runID).WithPhase("implement")
//	runLogger.Info("task dispatched", "action", "improve-landing")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task dispatched","run_id":"...","phase":"implement","action":"improve-landing"}
//
// Use [NopLogger] in tests to discard output.
package logging
