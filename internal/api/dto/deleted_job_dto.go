package dto

import (
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
)

type DeletedJobDTO struct {
	*domain.DeletedJob
	PurgeEligibleAt time.Time `json:"purgeEligibleAt"`
}

func NewDeletedJobDTO(d *domain.DeletedJob) DeletedJobDTO {
	return DeletedJobDTO{DeletedJob: d, PurgeEligibleAt: d.PurgeEligibleAt()}
}

type ListDeletedJobsRequest struct {
	OriginalJobID string `form:"original_job_id" binding:"omitempty,uuid"`
}

type ListDeletedJobsResponse struct {
	DeletedJobs []DeletedJobDTO `json:"deletedJobs"`
	Count       int             `json:"count"`
}

func NewListDeletedJobsResponse(items []*domain.DeletedJob) ListDeletedJobsResponse {
	out := make([]DeletedJobDTO, len(items))
	for i, d := range items {
		out[i] = NewDeletedJobDTO(d)
	}
	return ListDeletedJobsResponse{DeletedJobs: out, Count: len(out)}
}

type RestoreJobResponse struct {
	JobID string `json:"jobId"`
}
