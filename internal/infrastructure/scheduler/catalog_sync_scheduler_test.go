package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appcatalog "github.com/squizz-sync/backend/internal/application/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

type fakeSyncer struct {
	calls atomic.Int32
	run   func(ctx context.Context, call int32) (*appcatalog.SyncReport, error)
}

func (f *fakeSyncer) SyncCatalog(ctx context.Context) (*appcatalog.SyncReport, error) {
	n := f.calls.Add(1)
	if f.run == nil {
		return &appcatalog.SyncReport{}, nil
	}
	return f.run(ctx, n)
}

func testConfig() CatalogSyncSchedulerConfig {
	return CatalogSyncSchedulerConfig{
		JobTimeout:    time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		HistorySize:   10,
	}
}

func startScheduler(t *testing.T, syncer CatalogSyncer, cfg CatalogSyncSchedulerConfig) *CatalogSyncScheduler {
	t.Helper()
	s, err := NewCatalogSyncScheduler(syncer, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func reportWithFailures(products, prices []string) *appcatalog.SyncReport {
	return &appcatalog.SyncReport{
		Products: shared.NewBatchResult("successfully updated products", products),
		Prices:   shared.NewBatchResult("successfully updated product prices", prices),
	}
}

// ---------------------------------------------------------------------------
// CatalogSyncJob Tests
// ---------------------------------------------------------------------------

func TestNewCatalogSyncJob(t *testing.T) {
	job := NewCatalogSyncJob(TriggerManual, 3)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, TriggerManual, job.Trigger)
	assert.Equal(t, CatalogSyncJobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Zero(t, job.Duration())
}

func TestCatalogSyncJob_Complete(t *testing.T) {
	job := NewCatalogSyncJob(TriggerInterval, 0)
	job.Error = "previous"
	job.Start()
	assert.Equal(t, CatalogSyncJobStatusRunning, job.Status)
	assert.Empty(t, job.Error)

	job.Complete(reportWithFailures(nil, nil))
	assert.Equal(t, CatalogSyncJobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)

	job.Start()
	job.Complete(reportWithFailures([]string{"P1 error: boom"}, []string{"P2 error: product does not exist", "P3 error: x"}))
	assert.Equal(t, CatalogSyncJobStatusPartial, job.Status)
	assert.Equal(t, 1, job.ProductFailures)
	assert.Equal(t, 2, job.PriceFailures)
}

func TestCatalogSyncJob_Retry(t *testing.T) {
	job := NewCatalogSyncJob(TriggerInterval, 2)
	job.Start()
	job.Fail(errors.New("platform down"))

	assert.Equal(t, CatalogSyncJobStatusFailed, job.Status)
	assert.Equal(t, "platform down", job.Error)
	require.True(t, job.ShouldRetry())

	assert.Equal(t, time.Second, job.ScheduleRetry(time.Second))
	assert.Equal(t, CatalogSyncJobStatusPending, job.Status)
	assert.NotNil(t, job.NextRetryAt)

	job.Fail(nil)
	assert.Equal(t, 2*time.Second, job.ScheduleRetry(time.Second))

	job.Fail(nil)
	assert.False(t, job.ShouldRetry(), "retries exhausted")
}

func TestCatalogSyncJob_RetryDelayIsCapped(t *testing.T) {
	job := NewCatalogSyncJob(TriggerInterval, 100)
	job.RetryCount = 40

	assert.Equal(t, maxRetryDelay, job.ScheduleRetry(time.Minute))
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestCatalogSyncSchedulerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCatalogSyncSchedulerConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*CatalogSyncSchedulerConfig)
	}{
		{"negative interval", func(c *CatalogSyncSchedulerConfig) { c.Interval = -time.Second }},
		{"zero job timeout", func(c *CatalogSyncSchedulerConfig) { c.JobTimeout = 0 }},
		{"negative retries", func(c *CatalogSyncSchedulerConfig) { c.RetryAttempts = -1 }},
		{"retries without delay", func(c *CatalogSyncSchedulerConfig) { c.RetryDelay = 0 }},
		{"empty history", func(c *CatalogSyncSchedulerConfig) { c.HistorySize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCatalogSyncSchedulerConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestNewCatalogSyncScheduler_RequiresSyncer(t *testing.T) {
	_, err := NewCatalogSyncScheduler(nil, testConfig(), nil)
	assert.ErrorIs(t, err, ErrSyncerRequired)
}

// ---------------------------------------------------------------------------
// Scheduler Tests
// ---------------------------------------------------------------------------

func TestCatalogSyncScheduler_TriggerRequiresRunning(t *testing.T) {
	s, err := NewCatalogSyncScheduler(&fakeSyncer{}, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = s.Trigger(TriggerManual)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
	assert.NoError(t, s.Stop(context.Background()), "stopping an idle scheduler is a no-op")
}

func TestCatalogSyncScheduler_ManualTrigger(t *testing.T) {
	syncer := &fakeSyncer{run: func(context.Context, int32) (*appcatalog.SyncReport, error) {
		return reportWithFailures(nil, []string{"P9 error: product does not exist"}), nil
	}}
	s := startScheduler(t, syncer, testConfig())
	assert.True(t, s.IsRunning())

	job, err := s.Trigger(TriggerManual)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(s.History()) == 1 }, time.Second, 5*time.Millisecond)
	last, ok := s.LastJob()
	require.True(t, ok)
	assert.Equal(t, job.ID, last.ID)
	assert.Equal(t, CatalogSyncJobStatusPartial, last.Status)
	assert.Equal(t, 1, last.PriceFailures)
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestCatalogSyncScheduler_RetriesFailedSync(t *testing.T) {
	syncer := &fakeSyncer{run: func(_ context.Context, call int32) (*appcatalog.SyncReport, error) {
		if call == 1 {
			return nil, errors.New("fetch products: connection refused")
		}
		return reportWithFailures(nil, nil), nil
	}}
	s := startScheduler(t, syncer, testConfig())

	_, err := s.Trigger(TriggerManual)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(s.History()) == 2 }, time.Second, 5*time.Millisecond)
	history := s.History()
	assert.Equal(t, CatalogSyncJobStatusFailed, history[0].Status)
	assert.Contains(t, history[0].Error, "connection refused")
	assert.Equal(t, CatalogSyncJobStatusSuccess, history[1].Status)
	assert.Equal(t, 1, history[1].RetryCount)
	assert.Equal(t, history[0].ID, history[1].ID)
}

func TestCatalogSyncScheduler_GivesUpAfterRetries(t *testing.T) {
	syncer := &fakeSyncer{run: func(context.Context, int32) (*appcatalog.SyncReport, error) {
		return nil, errors.New("platform down")
	}}
	cfg := testConfig()
	cfg.RetryAttempts = 1
	s := startScheduler(t, syncer, cfg)

	_, err := s.Trigger(TriggerManual)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(s.History()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestCatalogSyncScheduler_QueueHoldsOneJob(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	syncer := &fakeSyncer{run: func(ctx context.Context, _ int32) (*appcatalog.SyncReport, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return reportWithFailures(nil, nil), nil
	}}
	s := startScheduler(t, syncer, testConfig())

	_, err := s.Trigger(TriggerManual)
	require.NoError(t, err)
	<-started

	_, err = s.Trigger(TriggerManual)
	require.NoError(t, err, "one job may wait behind the running sync")
	_, err = s.Trigger(TriggerManual)
	assert.ErrorIs(t, err, ErrJobQueueFull)

	close(release)
	<-started
	require.Eventually(t, func() bool { return len(s.History()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestCatalogSyncScheduler_IntervalAndStartup(t *testing.T) {
	syncer := &fakeSyncer{}
	cfg := testConfig()
	cfg.Interval = 10 * time.Millisecond
	cfg.RunOnStart = true
	s := startScheduler(t, syncer, cfg)

	require.Eventually(t, func() bool { return len(s.History()) >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, TriggerStartup, s.History()[0].Trigger)
	assert.Equal(t, TriggerInterval, s.History()[1].Trigger)
}

func TestCatalogSyncScheduler_HistoryIsBounded(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 2
	cfg.Interval = time.Millisecond
	s := startScheduler(t, &fakeSyncer{}, cfg)

	require.Eventually(t, func() bool { return len(s.History()) == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, s.History(), 2)
}

func TestCatalogSyncScheduler_StopCancelsRunningSync(t *testing.T) {
	started := make(chan struct{})
	syncer := &fakeSyncer{run: func(ctx context.Context, _ int32) (*appcatalog.SyncReport, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	cfg := testConfig()
	cfg.JobTimeout = time.Minute
	s, err := NewCatalogSyncScheduler(syncer, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	_, err = s.Trigger(TriggerManual)
	require.NoError(t, err)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())

	_, err = s.Trigger(TriggerManual)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
	assert.Equal(t, int32(1), syncer.calls.Load(), "no retry after stop")
}
