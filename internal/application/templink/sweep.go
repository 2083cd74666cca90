package templink

import (
	"context"
	"time"

	"github.com/orris-inc/templink/internal/domain/templink"
)

const SweepJobName = "templink-sweep"

// SweepScheduler runs the sweep on a fixed interval until stopped.
type SweepScheduler interface {
	RegisterSweepJob(name string, interval time.Duration, task func(ctx context.Context) (int, error)) error
	Start()
	Stop() error
}

// Sweep evicts every link whose expiration is at or before now and returns
// how many were removed.
func (s *Store[R]) Sweep(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := s.nowFunc()

	s.mu.Lock()
	evicted := 0
	for token, link := range s.links {
		if link.IsExpired(now) {
			delete(s.links, token)
			evicted++
		}
	}
	s.mu.Unlock()

	return evicted, nil
}

// StartSweeper registers the sweep on sched at the configured interval and
// starts it. The store owns sched from then on and stops it in Close.
func (s *Store[R]) StartSweeper(sched SweepScheduler) error {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	if s.closed {
		return templink.ErrStoreClosed
	}
	if s.sweeper != nil {
		return templink.ErrSweeperRunning
	}

	if err := sched.RegisterSweepJob(SweepJobName, s.cfg.Interval, s.Sweep); err != nil {
		return err
	}
	sched.Start()
	s.sweeper = sched

	s.logger.Infow("link sweeper started", "interval", s.cfg.Interval)
	return nil
}

// Close stops the sweeper. Links stay readable; the sweeper cannot be
// restarted. Calling Close more than once is safe.
func (s *Store[R]) Close() error {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.sweeper == nil {
		return nil
	}
	sched := s.sweeper
	s.sweeper = nil
	return sched.Stop()
}
