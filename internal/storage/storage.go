package storage

import (
	"context"

	"github.com/cuongbtq/accessflow-be/internal/domain"
)

// JobQuery selects active jobs. Empty fields do not filter.
type JobQuery struct {
	Statuses []domain.Status
	// NamePrefix keeps jobs whose clockNumberMediaName starts with it
	NamePrefix string
}

// JobStore persists active jobs. ListJobs returns jobs oldest first
// (createdAt, then id), which is the order the status webhook relies on.
type JobStore interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, q JobQuery) ([]*domain.Job, error)
}

// DeletedJobStore persists tombstones. There is no index on originalJobId;
// lookups by it scan ListDeletedJobs.
type DeletedJobStore interface {
	CreateDeletedJob(ctx context.Context, d *domain.DeletedJob) error
	GetDeletedJob(ctx context.Context, id string) (*domain.DeletedJob, error)
	ListDeletedJobs(ctx context.Context) ([]*domain.DeletedJob, error)
	DeleteDeletedJob(ctx context.Context, id string) error
}

// UserPrefsStore persists one preferences record per user
type UserPrefsStore interface {
	GetUserPrefs(ctx context.Context, userID string) (*domain.UserPrefs, error)
	UpsertUserPrefs(ctx context.Context, prefs *domain.UserPrefs) error
}

// Store is the full record store used by the services
type Store interface {
	JobStore
	DeletedJobStore
	UserPrefsStore
	Ping(ctx context.Context) error
}
