package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/accessflow-be/internal/api/dto"
	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/gin-gonic/gin"
)

// DeletedJobHandler serves the deleted-jobs view
type DeletedJobHandler struct {
	logger    *slog.Logger
	lifecycle *service.Lifecycle
}

func NewDeletedJobHandler(deps *Dependencies) *DeletedJobHandler {
	return &DeletedJobHandler{
		logger:    deps.Logger,
		lifecycle: deps.Lifecycle,
	}
}

// ListDeletedJobs handles GET /api/v1/deleted-jobs
func (h *DeletedJobHandler) ListDeletedJobs(c *gin.Context) {
	var req dto.ListDeletedJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, h.logger, "Invalid query parameters", err)
		return
	}

	var (
		items []*domain.DeletedJob
		err   error
	)
	if req.OriginalJobID != "" {
		items, err = h.lifecycle.FindByOriginalJobID(c.Request.Context(), req.OriginalJobID)
	} else {
		items, err = h.lifecycle.ListDeleted(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, "Failed to list deleted jobs", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListDeletedJobsResponse(items))
}

// GetDeletedJob handles GET /api/v1/deleted-jobs/:id
func (h *DeletedJobHandler) GetDeletedJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	deleted, err := h.lifecycle.GetDeleted(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get deleted job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDeletedJobDTO(deleted))
}

// RestoreDeletedJob handles POST /api/v1/deleted-jobs/:id/restore. The
// restored job gets a new id.
func (h *DeletedJobHandler) RestoreDeletedJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	jobID, err := h.lifecycle.Restore(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to restore job", err)
		return
	}

	c.JSON(http.StatusOK, dto.RestoreJobResponse{JobID: jobID})
}

// PurgeDeletedJob handles DELETE /api/v1/deleted-jobs/:id
func (h *DeletedJobHandler) PurgeDeletedJob(c *gin.Context) {
	id, ok := idParam(c, h.logger, "id")
	if !ok {
		return
	}

	if err := h.lifecycle.Purge(c.Request.Context(), id, actor(c)); err != nil {
		respondError(c, h.logger, "Failed to purge deleted job", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reconcile handles GET /api/v1/deleted-jobs/reconcile
func (h *DeletedJobHandler) Reconcile(c *gin.Context) {
	report, err := h.lifecycle.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to reconcile deleted jobs", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
