package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuongbtq/accessflow-be/internal/api/dto"
	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/gin-gonic/gin"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger      *slog.Logger
	jobs        *service.JobRepository
	transitions *service.StatusEngine
	lifecycle   *service.Lifecycle
	lister      *service.Lister
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:      deps.Logger,
		jobs:        deps.Jobs,
		transitions: deps.Transitions,
		lifecycle:   deps.Lifecycle,
		lister:      deps.Lister,
	}
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, "Invalid request body", err)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req.ToFields(), actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to create job", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewJobDTO(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, "Failed to get job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// ListJobs handles GET /api/v1/jobs, the report view
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, h.logger, "Invalid query parameters", err)
		return
	}

	filter := service.ListFilter{
		Statuses:      parseStatuses(req.Status),
		Query:         req.Query,
		DeliveryStart: req.DeliveryStart,
		DeliveryEnd:   req.DeliveryEnd,
		Sort: service.SortSpec{
			Field:     service.SortField(req.SortBy),
			Direction: service.SortDirection(req.SortDirection),
		},
	}

	list, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list jobs", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListJobsResponse(list))
}

// parseStatuses accepts repeated and comma-separated status values
func parseStatuses(values []string) []domain.Status {
	var out []domain.Status
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, domain.Status(part))
			}
		}
	}
	return out
}

// GetBoard handles GET /api/v1/jobs/board/:group
func (h *JobHandler) GetBoard(c *gin.Context) {
	board, err := h.lister.Board(c.Request.Context(), service.BoardGroup(c.Param("group")))
	if err != nil {
		respondError(c, h.logger, "Failed to build board", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBoardResponse(board))
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	var patch domain.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, h.logger, "Invalid request body", err)
		return
	}
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request body has no fields to update",
		})
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), jobID, patch, actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to update job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// OverrideStatus handles PUT /api/v1/jobs/:job_id/status. It bypasses the
// transition guards.
func (h *JobHandler) OverrideStatus(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	var req dto.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, "Invalid request body", err)
		return
	}

	job, err := h.jobs.OverrideStatus(c.Request.Context(), jobID, domain.Status(req.Status), actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to override job status", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// AdvanceJob handles POST /api/v1/jobs/:job_id/advance
func (h *JobHandler) AdvanceJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	job, err := h.transitions.Advance(c.Request.Context(), jobID, actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to advance job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// RetreatJob handles POST /api/v1/jobs/:job_id/retreat
func (h *JobHandler) RetreatJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	job, err := h.transitions.Retreat(c.Request.Context(), jobID, actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to retreat job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobDTO(job))
}

// DuplicateJob handles POST /api/v1/jobs/:job_id/duplicate
func (h *JobHandler) DuplicateJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	job, err := h.jobs.Duplicate(c.Request.Context(), jobID, actor(c))
	if err != nil {
		respondError(c, h.logger, "Failed to duplicate job", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewJobDTO(job))
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id. The job moves to the
// deleted-jobs store; an optional JSON body carries the reason.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, ok := idParam(c, h.logger, "job_id")
	if !ok {
		return
	}

	var req dto.DeleteJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, h.logger, "Invalid request body", err)
			return
		}
	}

	deleted, err := h.lifecycle.SoftDelete(c.Request.Context(), jobID, actor(c), req.Reason)
	if err != nil {
		respondError(c, h.logger, "Failed to delete job", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDeletedJobDTO(deleted))
}
