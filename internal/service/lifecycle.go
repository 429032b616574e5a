package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/events"
	"github.com/cuongbtq/accessflow-be/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Lifecycle soft-deletes jobs into tombstones, restores them and purges
// tombstones. Delete and restore are two store writes with no transaction
// around them; a failure after the first write returns a
// *domain.PartialFailureError and Reconcile lists what needs repair.
type Lifecycle struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewLifecycle(store storage.Store, publisher events.Publisher, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SoftDelete writes a tombstone snapshot of the job, then removes the job
func (l *Lifecycle) SoftDelete(ctx context.Context, jobID, deletedBy, reason string) (*domain.DeletedJob, error) {
	if strings.TrimSpace(deletedBy) == "" {
		return nil, domain.NewValidationError("deletedBy", "is required")
	}

	job, err := l.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	tombstone := domain.NewDeletedJob(job, deletedBy, reason, l.now())
	if err := l.store.CreateDeletedJob(ctx, tombstone); err != nil {
		return nil, fmt.Errorf("failed to create tombstone for job %s: %w", jobID, err)
	}

	if err := l.store.DeleteJob(ctx, jobID); err != nil {
		l.logger.Error("Soft delete left an orphaned tombstone",
			slog.String("job_id", jobID),
			slog.String("deleted_job_id", tombstone.ID),
			slog.Any("error", err),
		)
		return nil, &domain.PartialFailureError{
			Operation:     "soft delete",
			CompletedStep: "create tombstone",
			RecordID:      tombstone.ID,
			Err:           err,
		}
	}

	l.logger.Info("Job soft deleted",
		slog.String("job_id", jobID),
		slog.String("deleted_job_id", tombstone.ID),
		slog.String("deleted_by", deletedBy),
	)

	publishEvent(ctx, l.publisher, l.logger, events.JobEvent{
		Type:         events.JobDeleted,
		JobID:        jobID,
		DeletedJobID: tombstone.ID,
		ClockNumber:  tombstone.ClockNumberMediaName,
		Status:       tombstone.Status,
		Actor:        deletedBy,
		OccurredAt:   tombstone.DeletedAt,
	})

	return tombstone, nil
}

// Restore creates a new job from the tombstone snapshot, then removes the
// tombstone. The new job gets a new id and fresh timestamps and keeps the
// snapshot status.
func (l *Lifecycle) Restore(ctx context.Context, deletedJobID, restoredBy string) (string, error) {
	if strings.TrimSpace(restoredBy) == "" {
		return "", domain.NewValidationError("restoredBy", "is required")
	}

	tombstone, err := l.store.GetDeletedJob(ctx, deletedJobID)
	if err != nil {
		return "", fmt.Errorf("failed to get deleted job %s: %w", deletedJobID, err)
	}

	fields := tombstone.JobFields.Clone()
	if !fields.Status.Valid() {
		l.logger.Warn("Restoring tombstone with unknown status as Booked",
			slog.String("deleted_job_id", deletedJobID),
			slog.String("status", string(fields.Status)),
		)
		fields.Status = domain.StatusBooked
	}

	now := l.now()
	job := &domain.Job{
		JobFields: fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.store.CreateJob(ctx, job); err != nil {
		return "", fmt.Errorf("failed to restore deleted job %s: %w", deletedJobID, err)
	}

	if err := l.store.DeleteDeletedJob(ctx, deletedJobID); err != nil {
		l.logger.Error("Restore left a stale tombstone",
			slog.String("deleted_job_id", deletedJobID),
			slog.String("job_id", job.ID),
			slog.Any("error", err),
		)
		return "", &domain.PartialFailureError{
			Operation:     "restore",
			CompletedStep: "create job",
			RecordID:      job.ID,
			Err:           err,
		}
	}

	l.logger.Info("Job restored",
		slog.String("deleted_job_id", deletedJobID),
		slog.String("original_job_id", tombstone.OriginalJobID),
		slog.String("job_id", job.ID),
		slog.String("restored_by", restoredBy),
	)

	publishEvent(ctx, l.publisher, l.logger, events.JobEvent{
		Type:         events.JobRestored,
		JobID:        job.ID,
		DeletedJobID: deletedJobID,
		ClockNumber:  job.ClockNumberMediaName,
		Status:       job.Status,
		Actor:        restoredBy,
		OccurredAt:   now,
	})

	return job.ID, nil
}

// Purge permanently deletes a tombstone. Confirmation is the caller's concern.
func (l *Lifecycle) Purge(ctx context.Context, deletedJobID, actor string) error {
	if err := l.store.DeleteDeletedJob(ctx, deletedJobID); err != nil {
		return fmt.Errorf("failed to purge deleted job %s: %w", deletedJobID, err)
	}

	l.logger.Info("Deleted job purged",
		slog.String("deleted_job_id", deletedJobID),
		slog.String("actor", actor),
	)

	publishEvent(ctx, l.publisher, l.logger, events.JobEvent{
		Type:         events.JobPurged,
		DeletedJobID: deletedJobID,
		Actor:        actor,
		OccurredAt:   l.now(),
	})
	return nil
}

// ListDeleted returns all tombstones, most recently deleted first
func (l *Lifecycle) ListDeleted(ctx context.Context) ([]*domain.DeletedJob, error) {
	list, err := l.store.ListDeletedJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted jobs: %w", err)
	}
	return list, nil
}

func (l *Lifecycle) GetDeleted(ctx context.Context, deletedJobID string) (*domain.DeletedJob, error) {
	d, err := l.store.GetDeletedJob(ctx, deletedJobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deleted job %s: %w", deletedJobID, err)
	}
	return d, nil
}

// FindByOriginalJobID scans every tombstone. There is no index on the
// original id, so cost grows with the number of tombstones.
func (l *Lifecycle) FindByOriginalJobID(ctx context.Context, originalJobID string) ([]*domain.DeletedJob, error) {
	all, err := l.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.DeletedJob, 0)
	for _, d := range all {
		if d.OriginalJobID == originalJobID {
			out = append(out, d)
		}
	}
	return out, nil
}

// OrphanedTombstone is a tombstone whose original job is still active,
// left behind by a soft delete that failed after its first step.
type OrphanedTombstone struct {
	DeletedJobID  string    `json:"deletedJobId"`
	OriginalJobID string    `json:"originalJobId"`
	ClockNumber   string    `json:"clockNumberMediaName"`
	DeletedAt     time.Time `json:"deletedAt"`
}

// SuspectedRestore pairs a tombstone with an active job that looks like its
// restored copy: same clock number, created at or after the deletion.
type SuspectedRestore struct {
	DeletedJobID string    `json:"deletedJobId"`
	JobID        string    `json:"jobId"`
	ClockNumber  string    `json:"clockNumberMediaName"`
	DeletedAt    time.Time `json:"deletedAt"`
	JobCreatedAt time.Time `json:"jobCreatedAt"`
}

// InvalidJob is an active job the store returned without services or with
// an unknown status, typically a row whose services column failed to decode
type InvalidJob struct {
	JobID       string   `json:"jobId"`
	ClockNumber string   `json:"clockNumberMediaName"`
	Problems    []string `json:"problems"`
}

// ReconcileReport lists records left inconsistent by interrupted
// delete or restore sequences, plus active jobs that break record invariants
type ReconcileReport struct {
	ActiveJobs         int                 `json:"activeJobs"`
	Tombstones         int                 `json:"tombstones"`
	OrphanedTombstones []OrphanedTombstone `json:"orphanedTombstones"`
	SuspectedRestores  []SuspectedRestore  `json:"suspectedRestores"`
	InvalidJobs        []InvalidJob        `json:"invalidJobs"`
}

// Reconcile joins tombstones against active jobs. It only reports; repair
// is an operator decision (purge the tombstone or delete the job).
func (l *Lifecycle) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	var (
		jobs       []*domain.Job
		tombstones []*domain.DeletedJob
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = l.store.ListJobs(gctx, storage.JobQuery{})
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tombstones, err = l.store.ListDeletedJobs(gctx)
		if err != nil {
			return fmt.Errorf("failed to list deleted jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Job, len(jobs))
	byName := make(map[string][]*domain.Job)
	for _, j := range jobs {
		byID[j.ID] = j
		byName[j.ClockNumberMediaName] = append(byName[j.ClockNumberMediaName], j)
	}

	report := &ReconcileReport{
		ActiveJobs:         len(jobs),
		Tombstones:         len(tombstones),
		OrphanedTombstones: []OrphanedTombstone{},
		SuspectedRestores:  []SuspectedRestore{},
		InvalidJobs:        []InvalidJob{},
	}

	for _, j := range jobs {
		var problems []string
		if len(j.Services) == 0 {
			problems = append(problems, "no services")
		}
		if !j.Status.Valid() {
			problems = append(problems, fmt.Sprintf("unknown status %q", j.Status))
		}
		if len(problems) > 0 {
			report.InvalidJobs = append(report.InvalidJobs, InvalidJob{
				JobID:       j.ID,
				ClockNumber: j.ClockNumberMediaName,
				Problems:    problems,
			})
		}
	}

	for _, d := range tombstones {
		if _, ok := byID[d.OriginalJobID]; ok {
			report.OrphanedTombstones = append(report.OrphanedTombstones, OrphanedTombstone{
				DeletedJobID:  d.ID,
				OriginalJobID: d.OriginalJobID,
				ClockNumber:   d.ClockNumberMediaName,
				DeletedAt:     d.DeletedAt,
			})
			continue
		}
		for _, j := range byName[d.ClockNumberMediaName] {
			if !j.CreatedAt.Before(d.DeletedAt) {
				report.SuspectedRestores = append(report.SuspectedRestores, SuspectedRestore{
					DeletedJobID: d.ID,
					JobID:        j.ID,
					ClockNumber:  d.ClockNumberMediaName,
					DeletedAt:    d.DeletedAt,
					JobCreatedAt: j.CreatedAt,
				})
			}
		}
	}

	if n := len(report.OrphanedTombstones) + len(report.SuspectedRestores) + len(report.InvalidJobs); n > 0 {
		l.logger.Warn("Reconciliation found inconsistent records",
			slog.Int("orphaned_tombstones", len(report.OrphanedTombstones)),
			slog.Int("suspected_restores", len(report.SuspectedRestores)),
			slog.Int("invalid_jobs", len(report.InvalidJobs)),
		)
	}

	return report, nil
}
