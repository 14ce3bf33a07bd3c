package shuffle

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// PassFunc performs one full pass. An error wrapping ErrPassFailures means
// the pass finished with per-file failures; any other error is fatal.
type PassFunc func(ctx context.Context) error

// Scheduler repeats a pass. Repeat > 0 runs exactly that many passes,
// Forever runs until the context is cancelled, otherwise a single pass runs.
// Between passes, and never after the last one, it sleeps for Interval, so
// the cadence is pass duration plus Interval.
type Scheduler struct {
	Interval time.Duration
	Repeat   int
	Forever  bool
	Clock    Clock
	Log      zerolog.Logger
}

// Run executes the schedule and returns the number of completed passes. A
// fatal pass error or cancellation during the sleep ends the schedule. When
// the final pass of a bounded schedule had failures, its error is returned.
func (s Scheduler) Run(ctx context.Context, pass PassFunc) (int, error) {
	if s.Interval < 0 {
		return 0, ErrNegativeInterval
	}
	clock := s.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	total := max(s.Repeat, 1)

	completed := 0
	for {
		err := pass(ctx)
		completed++
		switch {
		case err == nil:
		case errors.Is(err, ErrPassFailures):
			s.Log.Warn().Err(err).Int("pass", completed).Msg("pass completed with failures")
		default:
			return completed, err
		}

		if !s.Forever && completed >= total {
			return completed, err
		}

		s.Log.Debug().Dur("interval", s.Interval).Int("pass", completed).Msg("waiting for next pass")
		if err := clock.Sleep(ctx, s.Interval); err != nil {
			return completed, err
		}
	}
}
