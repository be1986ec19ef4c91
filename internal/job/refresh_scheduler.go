// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"channel-prospector/internal/app/service"
	"channel-prospector/pkg/locker"
)

// RefreshScheduler periodically re-scores persisted leads against fresh
// provider data, with distributed locking so only one instance refreshes
// at a time.
type RefreshScheduler struct {
	analysis *service.AnalysisService
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// RefreshConfig holds refresh scheduler configuration.
type RefreshConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewRefreshScheduler creates a new RefreshScheduler with distributed
// locking support.
func NewRefreshScheduler(
	analysis *service.AnalysisService,
	cfg RefreshConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *RefreshScheduler {
	return &RefreshScheduler{
		analysis: analysis,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background refresh job.
func (s *RefreshScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting lead refresh scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *RefreshScheduler) Stop() {
	s.logger.Info("stopping lead refresh scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("lead refresh scheduler stopped")
}

func (s *RefreshScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeRefresh()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeRefresh()
		}
	}
}

// executeRefresh runs one refresh pass under the distributed lock.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: lock held for the full interval to prevent duplicate passes
//   - Failure: lock released immediately so another instance can retry
func (s *RefreshScheduler) executeRefresh() {
	const lockKey = "refresh:scheduler:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is refreshing leads, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	refreshed, err := s.analysis.RefreshLeads(ctx)
	if err != nil {
		// Release the lock immediately on error to allow a prompt retry.
		if relErr := s.locker.Release(s.ctx, lockKey); relErr != nil {
			s.logger.Error("failed to release lock after refresh error", zap.Error(relErr))
		}
		s.logger.Warn("lead refresh failed, lock released for retry",
			zap.Int("refreshed", refreshed),
			zap.Error(err),
		)

		return
	}

	s.logger.Info("lead refresh completed, lock held for cooldown",
		zap.Int("refreshed", refreshed),
		zap.Duration("cooldown", s.interval),
	)
}
