package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/infrastructure/scheduler"
	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
)

// SyncJobScheduler queues background catalog syncs and reports past runs.
type SyncJobScheduler interface {
	Trigger(trigger string) (*scheduler.CatalogSyncJob, error)
	History() []scheduler.CatalogSyncJob
}

// SyncJobHandler exposes the background sync scheduler.
type SyncJobHandler struct {
	BaseHandler
	scheduler SyncJobScheduler
}

// NewSyncJobHandler creates a new SyncJobHandler. s may be nil when
// scheduled sync is disabled.
func NewSyncJobHandler(s SyncJobScheduler) *SyncJobHandler {
	return &SyncJobHandler{scheduler: s}
}

// List returns finished sync attempts, oldest first.
//
//	GET /sync/jobs
func (h *SyncJobHandler) List(c *gin.Context) {
	if h.scheduler == nil {
		h.ServiceUnavailable(c, "Scheduled sync is not enabled")
		return
	}
	h.Success(c, h.scheduler.History())
}

// Trigger queues a sync and answers 202 without waiting for it.
//
//	POST /sync/jobs
func (h *SyncJobHandler) Trigger(c *gin.Context) {
	if h.scheduler == nil {
		h.ServiceUnavailable(c, "Scheduled sync is not enabled")
		return
	}

	job, err := h.scheduler.Trigger(scheduler.TriggerManual)
	switch {
	case errors.Is(err, scheduler.ErrJobQueueFull):
		h.Error(c, http.StatusConflict, dto.ErrCodeAlreadyExists, "A catalog sync is already queued")
		return
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.ServiceUnavailable(c, "Scheduler is stopped")
		return
	case err != nil:
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"id": job.ID, "trigger": job.Trigger}))
}
