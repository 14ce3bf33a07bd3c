package shuffle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRepeatCount(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Repeat: 3, Interval: 0, Clock: clock, Log: zerolog.Nop()}

	calls := 0
	n, err := s.Run(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{0, 0}, clock.sleeps, "no sleep after the final pass")
}

func TestSchedulerDefaultsToSinglePass(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Interval: time.Hour, Clock: clock}

	n, err := s.Run(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Empty(t, clock.sleeps)
}

func TestSchedulerSleepsIntervalBetweenPasses(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Repeat: 3, Interval: 30 * time.Second, Clock: clock}

	var starts []time.Time
	_, err := s.Run(context.Background(), func(context.Context) error {
		starts = append(starts, clock.Now())
		clock.now = clock.now.Add(5 * time.Second) // pass duration
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, clock.sleeps)
	require.Len(t, starts, 3)
	require.Equal(t, 35*time.Second, starts[1].Sub(starts[0]), "cadence is pass duration plus interval")
	require.Equal(t, 35*time.Second, starts[2].Sub(starts[1]))
}

func TestSchedulerForeverStopsOnCancel(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Forever: true, Interval: 7 * 24 * time.Hour, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	n, err := s.Run(ctx, func(context.Context) error {
		calls++
		if calls == 4 {
			cancel()
		}
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 4, n)
	require.Len(t, clock.sleeps, 4)
}

func TestSchedulerFatalErrorStops(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Repeat: 5, Clock: clock}
	boom := errors.New("root unreadable")

	n, err := s.Run(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, n)
	require.Empty(t, clock.sleeps)
}

func TestSchedulerContinuesAfterFileFailures(t *testing.T) {
	clock := &fakeClock{now: testNow}
	s := Scheduler{Repeat: 3, Clock: clock, Log: zerolog.Nop()}

	calls := 0
	n, err := s.Run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: one file", ErrPassFailures)
		}
		return nil
	})
	require.NoError(t, err, "only the final pass decides the result")
	require.Equal(t, 3, n)
}

func TestSchedulerReportsFailuresOfFinalPass(t *testing.T) {
	s := Scheduler{Clock: &fakeClock{now: testNow}}
	n, err := s.Run(context.Background(), func(context.Context) error {
		return fmt.Errorf("%w: one file", ErrPassFailures)
	})
	require.ErrorIs(t, err, ErrPassFailures)
	require.Equal(t, 1, n)
}

func TestSchedulerRejectsNegativeInterval(t *testing.T) {
	s := Scheduler{Interval: -time.Second}
	_, err := s.Run(context.Background(), func(context.Context) error {
		t.Fatal("pass must not run")
		return nil
	})
	require.ErrorIs(t, err, ErrNegativeInterval)
}

func TestSystemClockSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := SystemClock{}.Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Minute)
}

func TestSystemClockSleepShort(t *testing.T) {
	require.NoError(t, SystemClock{}.Sleep(context.Background(), time.Millisecond))
	require.NoError(t, SystemClock{}.Sleep(context.Background(), 0))
}
