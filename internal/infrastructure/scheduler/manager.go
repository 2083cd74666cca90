// Package scheduler provides periodic job management using gocron v2.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/templink/internal/shared/logger"
)

// ErrInvalidInterval is returned when a job is registered with a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// BatchJob processes one batch per call and returns the number of items handled.
type BatchJob func(ctx context.Context) (int, error)

// SchedulerManager owns a single gocron scheduler shared by the link sweeper
// and the snapshot saver.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Sweep Jobs
// ========================================

// RegisterSweepJob runs task every interval. Runs never overlap; a run that
// is still busy when the next one is due pushes it to the following tick.
func (m *SchedulerManager) RegisterSweepJob(name string, interval time.Duration, task func(ctx context.Context) (int, error)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runSweep(ctx, name, task)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("templink", "sweep"),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered sweep job", "name", name, "interval", interval)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, name string, task BatchJob) {
	startTime := time.Now()

	evicted, err := task(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("sweep failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if evicted > 0 {
		m.logger.Debugw("expired links evicted",
			"job", name,
			"count", evicted,
			"duration", time.Since(startTime),
		)
	}
}

// ========================================
// Snapshot Jobs
// ========================================

// RegisterSnapshotJob saves the link snapshot every interval.
func (m *SchedulerManager) RegisterSnapshotJob(interval time.Duration, save func(ctx context.Context) error) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			if err := save(ctx); err != nil {
				m.logger.Errorw("failed to save link snapshot", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("templink", "snapshot"),
		gocron.WithName("templink-snapshot"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered snapshot job", "interval", interval)
	return nil
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
