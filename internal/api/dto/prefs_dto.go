package dto

import "github.com/cuongbtq/accessflow-be/internal/domain"

type SavePrefsRequest struct {
	Initials             *string `json:"initials" binding:"omitempty,initials"`
	JobFormServiceHeight *int    `json:"jobFormServiceHeight" binding:"omitempty,min=0"`
}

func (r SavePrefsRequest) ToPatch() domain.UserPrefsPatch {
	return domain.UserPrefsPatch{
		Initials:             r.Initials,
		JobFormServiceHeight: r.JobFormServiceHeight,
	}
}

type HeartbeatResponse struct {
	Recorded bool `json:"recorded"`
}
