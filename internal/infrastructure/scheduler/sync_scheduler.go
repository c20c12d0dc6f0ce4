package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job names, also used as lock keys
const (
	jobTokenRenewal = "token_renewal"
	jobOrderSync    = "order_sync"
)

// TokenRenewer refreshes every tenant's platform tokens
type TokenRenewer interface {
	RenewAllPlatformTokens(ctx context.Context) error
}

// OrderFetcher pulls new orders for every tenant
type OrderFetcher interface {
	FetchAllNewOrders(ctx context.Context) error
}

// SyncSchedulerConfig holds the cron schedules for the background sweeps
type SyncSchedulerConfig struct {
	// Enabled turns the background scheduler on
	Enabled bool
	// TokenRenewalSchedule is the cron expression for the token sweep
	TokenRenewalSchedule string
	// OrderSyncSchedule is the cron expression for the order sweep
	OrderSyncSchedule string
	// JobTimeout bounds a single sweep run
	JobTimeout time.Duration
	// LockTTL bounds how long a crashed instance blocks a job
	LockTTL time.Duration
}

// DefaultSyncSchedulerConfig renews tokens hourly and pulls orders every
// thirty minutes
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:              true,
		TokenRenewalSchedule: "0 * * * *",
		OrderSyncSchedule:    "*/30 * * * *",
		JobTimeout:           20 * time.Minute,
		LockTTL:              25 * time.Minute,
	}
}

// SyncScheduler drives the periodic token renewal and order ingestion
// sweeps. Job failures are logged and the next tick tries again; nothing a
// sweep does can take the scheduler down.
type SyncScheduler struct {
	config  SyncSchedulerConfig
	cron    *cron.Cron
	locker  JobLocker
	renewer TokenRenewer
	fetcher OrderFetcher
	logger  *zap.Logger
}

// NewSyncScheduler creates a new SyncScheduler
func NewSyncScheduler(
	config SyncSchedulerConfig,
	locker JobLocker,
	renewer TokenRenewer,
	fetcher OrderFetcher,
	logger *zap.Logger,
) *SyncScheduler {
	return &SyncScheduler{
		config:  config,
		cron:    cron.New(),
		locker:  locker,
		renewer: renewer,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop
func (s *SyncScheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Sync scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.TokenRenewalSchedule, func() {
		s.runJob(jobTokenRenewal, s.renewer.RenewAllPlatformTokens)
	}); err != nil {
		return fmt.Errorf("registering token renewal job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.config.OrderSyncSchedule, func() {
		s.runJob(jobOrderSync, s.fetcher.FetchAllNewOrders)
	}); err != nil {
		return fmt.Errorf("registering order sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Sync scheduler started",
		zap.String("token_renewal", s.config.TokenRenewalSchedule),
		zap.String("order_sync", s.config.OrderSyncSchedule),
	)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler stopped")
}

// runJob executes one sweep under the job lock
func (s *SyncScheduler) runJob(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	acquired, err := s.locker.Acquire(ctx, name, s.config.LockTTL)
	if err != nil {
		s.logger.Error("Job lock unavailable", zap.String("job", name), zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("Job already running elsewhere, skipping", zap.String("job", name))
		return
	}
	defer s.locker.Release(ctx, name)

	started := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Scheduled job finished",
		zap.String("job", name),
		zap.Duration("elapsed", time.Since(started)),
	)
}
