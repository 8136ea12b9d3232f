// Package scheduler runs the periodic catalog pull from the platform.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/squizz-sync/backend/internal/application/catalog"
)

// CatalogSyncer pulls the platform catalog into the local store
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) (*appcatalog.SyncReport, error)
}

// CatalogSyncSchedulerConfig holds configuration for the catalog sync scheduler
type CatalogSyncSchedulerConfig struct {
	// Interval between scheduled syncs; zero leaves only manual triggers
	Interval time.Duration

	// RunOnStart queues a sync as soon as the scheduler starts
	RunOnStart bool

	// JobTimeout bounds a single attempt
	JobTimeout time.Duration

	// RetryAttempts is how many times a failed sync is retried
	RetryAttempts int

	// RetryDelay is the base backoff between attempts
	RetryDelay time.Duration

	// HistorySize is how many finished attempts are kept
	HistorySize int
}

// DefaultCatalogSyncSchedulerConfig returns default configuration
func DefaultCatalogSyncSchedulerConfig() CatalogSyncSchedulerConfig {
	return CatalogSyncSchedulerConfig{
		Interval:      6 * time.Hour,
		JobTimeout:    30 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
		HistorySize:   100,
	}
}

// Validate validates the configuration
func (c CatalogSyncSchedulerConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval cannot be negative", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", ErrInvalidConfig)
	}
	if c.RetryAttempts > 0 && c.RetryDelay <= 0 {
		return fmt.Errorf("%w: retry delay must be positive when retries are enabled", ErrInvalidConfig)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history size must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// CatalogSyncScheduler runs catalog syncs one at a time. A single worker
// drains a one-slot queue, so a tick that arrives while a sync is queued is
// dropped rather than stacked.
type CatalogSyncScheduler struct {
	config CatalogSyncSchedulerConfig
	syncer CatalogSyncer
	logger *zap.Logger

	mu        sync.RWMutex
	isRunning bool
	jobs      chan *CatalogSyncJob
	history   []CatalogSyncJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewCatalogSyncScheduler creates a scheduler; call Start to run it
func NewCatalogSyncScheduler(syncer CatalogSyncer, config CatalogSyncSchedulerConfig, logger *zap.Logger) (*CatalogSyncScheduler, error) {
	if syncer == nil {
		return nil, ErrSyncerRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSyncScheduler{
		config: config,
		syncer: syncer,
		logger: logger.Named("catalog_sync_scheduler"),
	}, nil
}

// Start launches the worker and, when an interval is set, the ticker
func (s *CatalogSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *CatalogSyncJob, 1)
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	jobs := s.jobs
	s.mu.Unlock()

	s.wg.Add(1)
	go s.worker(ctx, jobs)

	if s.config.Interval > 0 {
		s.wg.Add(1)
		go s.tick(ctx)
	}

	s.logger.Info("Catalog sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
		zap.Int("retry_attempts", s.config.RetryAttempts),
	)

	if s.config.RunOnStart {
		if _, err := s.Trigger(TriggerStartup); err != nil {
			s.logger.Warn("Failed to queue startup sync", zap.Error(err))
		}
	}
	return nil
}

// Stop cancels any running sync and waits for the worker to exit
func (s *CatalogSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Catalog sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Catalog sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler accepts jobs
func (s *CatalogSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Trigger queues a sync now
func (s *CatalogSyncScheduler) Trigger(trigger string) (*CatalogSyncJob, error) {
	job := NewCatalogSyncJob(trigger, s.config.RetryAttempts)
	if err := s.submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// History returns finished attempts, oldest first
func (s *CatalogSyncScheduler) History() []CatalogSyncJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CatalogSyncJob, len(s.history))
	copy(out, s.history)
	return out
}

// LastJob returns the most recent finished attempt, if any
func (s *CatalogSyncScheduler) LastJob() (CatalogSyncJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return CatalogSyncJob{}, false
	}
	return s.history[len(s.history)-1], true
}

// submit holds the read lock across the send so Stop cannot close the queue
// underneath it.
func (s *CatalogSyncScheduler) submit(job *CatalogSyncJob) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *CatalogSyncScheduler) tick(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(TriggerInterval); err != nil {
				s.logger.Debug("Skipping scheduled sync", zap.Error(err))
			}
		}
	}
}

func (s *CatalogSyncScheduler) worker(ctx context.Context, jobs <-chan *CatalogSyncJob) {
	defer s.wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}
		s.processJob(ctx, job)
	}
}

func (s *CatalogSyncScheduler) processJob(ctx context.Context, job *CatalogSyncJob) {
	log := s.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("trigger", job.Trigger),
		zap.Int("attempt", job.RetryCount+1),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	job.Start()
	report, err := s.syncer.SyncCatalog(jobCtx)
	if err != nil {
		job.Fail(err)
		log.Error("Catalog sync failed", zap.Error(err))
	} else {
		job.Complete(report)
		log.Info("Catalog sync completed",
			zap.String("status", string(job.Status)),
			zap.Int("product_failures", job.ProductFailures),
			zap.Int("price_failures", job.PriceFailures),
			zap.Duration("duration", job.Duration()),
		)
	}
	s.record(*job)

	if job.ShouldRetry() && ctx.Err() == nil {
		delay := job.ScheduleRetry(s.config.RetryDelay)
		log.Info("Scheduling catalog sync retry", zap.Duration("delay", delay))
		time.AfterFunc(delay, func() {
			if err := s.submit(job); err != nil {
				log.Warn("Dropped catalog sync retry", zap.Error(err))
			}
		})
	}
}

func (s *CatalogSyncScheduler) record(job CatalogSyncJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, job)
	if over := len(s.history) - s.config.HistorySize; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
}
