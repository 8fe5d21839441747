package sla

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/errs"
)

var (
	ErrAlreadyStarted = errs.New("scheduler already started")
	ErrNotStarted     = errs.New("scheduler not started")
)

type Sweeper interface {
	Sweep(ctx context.Context) (Report, error)
}

// Scheduler ticks the sweep on the injected clock. At most one sweep runs at a time; a tick
// that arrives during a sweep is skipped.
type Scheduler struct {
	sweeper  Sweeper
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	runs    atomic.Int64
}

func NewScheduler(sweeper Sweeper, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrAlreadyStarted
	}
	if s.interval <= 0 {
		return errs.Newf("sweep interval must be positive, got %s", s.interval)
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	ticker := s.clock.NewTicker(s.interval)

	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				s.RunOnce(ctx)
			}
		}
	}()

	s.logger.Info("sla scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for an in-flight sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
		s.logger.Info("sla scheduler stopped")
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "waiting for sla sweep")
	}
}

// RunOnce runs a sweep unless one is already in progress; the bool reports whether it ran.
func (s *Scheduler) RunOnce(ctx context.Context) (Report, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("sla sweep skipped: previous sweep still running")
		return Report{}, false
	}
	defer s.running.Store(false)

	report, err := s.sweeper.Sweep(ctx)
	s.runs.Add(1)
	if err != nil {
		s.logger.Error("sla sweep failed", slog.String("error", err.Error()))
	}
	return report, true
}

// Runs counts completed sweeps.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}
