// Package scheduler drives the recurring sync cycle: once immediately on
// startup, then forever on a fixed interval or cron expression. Cycles
// never overlap; a long cycle simply delays the next tick.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/whitelistlab/wx-db-kit/internal/metrics"
)

type Options struct {
	Interval time.Duration
	Cron     string // optional, overrides Interval when set
}

type Scheduler struct {
	run      func(ctx context.Context) error
	log      *zap.Logger
	interval time.Duration
	cron     string
}

func New(run func(ctx context.Context) error, log *zap.Logger, opt Options) (*Scheduler, error) {
	if opt.Interval <= 0 {
		opt.Interval = 5 * time.Minute
	}
	if opt.Cron != "" && !gronx.IsValid(opt.Cron) {
		return nil, fmt.Errorf("invalid cron expression: %s", opt.Cron)
	}
	return &Scheduler{
		run:      run,
		log:      log,
		interval: opt.Interval,
		cron:     opt.Cron,
	}, nil
}

// Run blocks until ctx is cancelled. The first cycle starts immediately.
// A failed cycle is logged and never stops the loop or skips later ticks.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)
	for {
		wait := s.interval
		if s.cron != "" {
			next, err := gronx.NextTickAfter(s.cron, time.Now(), false)
			if err != nil {
				s.log.Error("cron next tick failed", zap.String("cron", s.cron), zap.Error(err))
				wait = s.interval
			} else {
				wait = time.Until(next)
				if wait <= 0 {
					wait = time.Second
				}
			}
		}

		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-time.After(wait):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	metrics.CyclesTotal.Inc()
	start := time.Now()
	s.log.Info("sync cycle starting")

	err := s.guarded(ctx)
	if err != nil {
		metrics.CycleFailures.Inc()
		s.log.Error("sync cycle failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	metrics.LastSyncUnix.SetToCurrentTime()
	s.log.Info("sync cycle done", zap.Duration("elapsed", time.Since(start)))
}

// guarded converts a panicking cycle into a cycle error; the process must
// outlive any single failure.
func (s *Scheduler) guarded(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	return s.run(ctx)
}
