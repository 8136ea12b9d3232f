package scheduler

import (
	"time"

	"github.com/google/uuid"

	appcatalog "github.com/squizz-sync/backend/internal/application/catalog"
)

// CatalogSyncJobStatus is the lifecycle state of a scheduled catalog sync
type CatalogSyncJobStatus string

const (
	CatalogSyncJobStatusPending CatalogSyncJobStatus = "PENDING"
	CatalogSyncJobStatusRunning CatalogSyncJobStatus = "RUNNING"
	CatalogSyncJobStatusSuccess CatalogSyncJobStatus = "SUCCESS"
	CatalogSyncJobStatusPartial CatalogSyncJobStatus = "PARTIAL"
	CatalogSyncJobStatusFailed  CatalogSyncJobStatus = "FAILED"
)

// Triggers recorded on a job
const (
	TriggerInterval = "interval"
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
)

// maxRetryDelay caps the exponential backoff between attempts
const maxRetryDelay = 30 * time.Minute

// CatalogSyncJob tracks one pull of the catalog from the platform.
// PARTIAL means the feeds were fetched but some records were rejected.
type CatalogSyncJob struct {
	ID              uuid.UUID            `json:"id"`
	Trigger         string               `json:"trigger"`
	Status          CatalogSyncJobStatus `json:"status"`
	Error           string               `json:"error,omitempty"`
	ProductFailures int                  `json:"product_failures"`
	PriceFailures   int                  `json:"price_failures"`
	RetryCount      int                  `json:"retry_count"`
	MaxRetries      int                  `json:"max_retries"`
	NextRetryAt     *time.Time           `json:"next_retry_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	StartedAt       *time.Time           `json:"started_at,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// NewCatalogSyncJob creates a pending job
func NewCatalogSyncJob(trigger string, maxRetries int) *CatalogSyncJob {
	return &CatalogSyncJob{
		ID:         uuid.New(),
		Trigger:    trigger,
		Status:     CatalogSyncJobStatusPending,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
	}
}

// Start marks the job as running and clears the previous attempt's error
func (j *CatalogSyncJob) Start() {
	now := time.Now()
	j.Status = CatalogSyncJobStatusRunning
	j.StartedAt = &now
	j.CompletedAt = nil
	j.Error = ""
}

// Complete records the outcome of a finished sync
func (j *CatalogSyncJob) Complete(report *appcatalog.SyncReport) {
	now := time.Now()
	j.CompletedAt = &now
	j.NextRetryAt = nil
	j.ProductFailures = 0
	j.PriceFailures = 0
	if report != nil {
		j.ProductFailures = len(report.Products.Data.Failed)
		j.PriceFailures = len(report.Prices.Data.Failed)
	}
	if j.ProductFailures+j.PriceFailures > 0 {
		j.Status = CatalogSyncJobStatusPartial
	} else {
		j.Status = CatalogSyncJobStatusSuccess
	}
}

// Fail records an attempt that could not finish
func (j *CatalogSyncJob) Fail(err error) {
	now := time.Now()
	j.Status = CatalogSyncJobStatusFailed
	j.CompletedAt = &now
	if err != nil {
		j.Error = err.Error()
	}
}

// ShouldRetry reports whether a failed job has attempts left
func (j *CatalogSyncJob) ShouldRetry() bool {
	return j.Status == CatalogSyncJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry moves the job back to pending and returns the delay before
// the next attempt: base doubled for every retry already made.
func (j *CatalogSyncJob) ScheduleRetry(base time.Duration) time.Duration {
	delay := base
	for i := 0; i < j.RetryCount && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	delay = min(delay, maxRetryDelay)

	j.RetryCount++
	j.Status = CatalogSyncJobStatusPending
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	return delay
}

// Duration returns how long the last attempt ran, zero while it is running
func (j *CatalogSyncJob) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}
