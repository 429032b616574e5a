package events

import (
	"context"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
)

// Type names a job lifecycle event. It doubles as the AMQP routing key.
type Type string

const (
	JobCreated       Type = "job.created"
	JobUpdated       Type = "job.updated"
	JobStatusChanged Type = "job.status_changed"
	JobDeleted       Type = "job.deleted"
	JobRestored      Type = "job.restored"
	JobPurged        Type = "job.purged"
)

// JobEvent is the payload published after a successful mutation
type JobEvent struct {
	ID             string        `json:"id"`
	Type           Type          `json:"type"`
	JobID          string        `json:"job_id,omitempty"`
	DeletedJobID   string        `json:"deleted_job_id,omitempty"`
	ClockNumber    string        `json:"clock_number_media_name,omitempty"`
	Status         domain.Status `json:"status,omitempty"`
	PreviousStatus domain.Status `json:"previous_status,omitempty"`
	Actor          string        `json:"actor,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// Publisher delivers job events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event JobEvent) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, JobEvent) error { return nil }
