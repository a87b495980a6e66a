package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	s, err := New(func(context.Context) error {
		runs.Add(1)
		return nil
	}, zap.NewNop(), Options{Interval: time.Hour})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if runs.Load() != 1 {
		t.Fatalf("got %d runs, want exactly 1 immediate run", runs.Load())
	}
}

func TestSchedulerContinuesPastFailure(t *testing.T) {
	var runs atomic.Int32
	s, err := New(func(context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("decrypt failed")
		}
		return nil
	}, zap.NewNop(), Options{Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if runs.Load() < 3 {
		t.Fatalf("got %d runs, want the loop to keep ticking past a failed cycle", runs.Load())
	}
}

func TestSchedulerCyclesDoNotOverlap(t *testing.T) {
	var inflight, maxInflight atomic.Int32
	s, err := New(func(context.Context) error {
		cur := inflight.Add(1)
		if cur > maxInflight.Load() {
			maxInflight.Store(cur)
		}
		time.Sleep(30 * time.Millisecond) // longer than the interval
		inflight.Add(-1)
		return nil
	}, zap.NewNop(), Options{Interval: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if maxInflight.Load() != 1 {
		t.Fatalf("max inflight cycles = %d, want 1", maxInflight.Load())
	}
}

func TestSchedulerRecoversFromPanic(t *testing.T) {
	var runs atomic.Int32
	s, err := New(func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("boom")
		}
		return nil
	}, zap.NewNop(), Options{Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if runs.Load() < 2 {
		t.Fatalf("got %d runs, want the loop to survive a panicking cycle", runs.Load())
	}
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	_, err := New(func(context.Context) error { return nil }, zap.NewNop(), Options{
		Interval: time.Minute,
		Cron:     "not a cron",
	})
	if err == nil {
		t.Fatal("want error for invalid cron expression")
	}
}
