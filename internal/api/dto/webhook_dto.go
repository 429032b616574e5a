package dto

// StatusUpdateRequest is posted by the email-to-status automation
type StatusUpdateRequest struct {
	ClockNumber string `json:"clockNumber"`
	NewStatus   string `json:"newStatus"`
}
