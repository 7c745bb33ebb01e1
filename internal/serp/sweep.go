package serp

import (
	"context"
	"time"

	"github.com/seopilot/seopilot/internal/errors"
	"github.com/seopilot/seopilot/internal/logging"
)

// SweepResult holds the outcome of observing a list of keywords.
// Observations keep the order of the input keywords and share no memory
// with what the Observer returned; failed keywords are listed in Failed and
// absent from Observations.
type SweepResult struct {
	Observations []Observation
	Failed       []*errors.ObservationError
}

// Sweeper observes keywords one at a time, pausing Delay between
// consecutive lookups. No pause follows the last lookup.
type Sweeper struct {
	Observer Observer
	Delay    time.Duration
	Logger   *logging.Logger

	// OnObserved, when set, is called after each lookup with its index,
	// the keyword and the lookup error (nil on success).
	OnObserved func(i int, keyword string, err error)

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Run observes each keyword in order. A failed lookup is logged and the
// sweep continues; a canceled context stops the sweep and returns what was
// collected so far together with the context error.
func (s *Sweeper) Run(ctx context.Context, keywords []string) (SweepResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	sleep := s.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var result SweepResult
	for i, kw := range keywords {
		if i > 0 && s.Delay > 0 {
			if err := sleep(ctx, s.Delay); err != nil {
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		obs, err := s.Observer.Observe(ctx, kw)
		if s.OnObserved != nil {
			s.OnObserved(i, kw, err)
		}
		if err != nil {
			var obsErr *errors.ObservationError
			if !errors.As(err, &obsErr) {
				obsErr = errors.NewObservationError(kw, err)
			}
			logger.WithKeyword(kw).Warn("rank lookup failed", "error", err.Error(), "retryable", errors.IsRetryable(obsErr))
			result.Failed = append(result.Failed, obsErr)
			continue
		}

		pos, ranked := obs.PositionValue()
		logger.WithKeyword(kw).Debug("rank observed", "ranked", ranked, "position", pos, "url", obs.URLValue())
		result.Observations = append(result.Observations, obs.Clone())
	}
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
