package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/events"
	"github.com/cuongbtq/accessflow-be/internal/storage"
)

// ListFilter selects jobs for the report view. Zero fields do not filter.
type ListFilter struct {
	Statuses []domain.Status
	Query    string
	// DeliveryStart and DeliveryEnd are ISO-8601 dates, compared by calendar day
	DeliveryStart string
	DeliveryEnd   string
	// Sort defaults to DefaultSort when Field is empty
	Sort SortSpec
}

// JobList is a filtered report view with the sort that was applied
type JobList struct {
	Jobs []*domain.Job
	Sort SortSpec
}

// JobRepository creates, reads and edits active jobs
type JobRepository struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

func NewJobRepository(store storage.Store, publisher events.Publisher, loc *time.Location, logger *slog.Logger) *JobRepository {
	return &JobRepository{
		store:     store,
		publisher: publisher,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// Create stores a new job. The status is always Booked whatever the input
// carries. An empty creator is prefilled from the actor's saved initials.
func (r *JobRepository) Create(ctx context.Context, input domain.JobFields, actor string) (*domain.Job, error) {
	fields := input.Clone()
	fields.Status = domain.StatusBooked

	if fields.Creator == "" && actor != "" {
		fields.Creator = r.initialsFor(ctx, actor)
	}

	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := r.now()
	job := &domain.Job{
		JobFields: fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	r.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("clock_number", job.ClockNumberMediaName),
		slog.String("actor", actor),
	)

	publishEvent(ctx, r.publisher, r.logger, events.JobEvent{
		Type:        events.JobCreated,
		JobID:       job.ID,
		ClockNumber: job.ClockNumberMediaName,
		Status:      job.Status,
		Actor:       actor,
		OccurredAt:  now,
	})

	return job, nil
}

func (r *JobRepository) initialsFor(ctx context.Context, userID string) string {
	prefs, err := r.store.GetUserPrefs(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("Failed to load user prefs for creator prefill",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return ""
	}
	return prefs.Initials
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := r.store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return job, nil
}

// Update merges patch onto the stored job and rewrites updatedAt. A status
// in the patch is applied as an administrative override.
func (r *JobRepository) Update(ctx context.Context, id string, patch domain.JobPatch, actor string) (*domain.Job, error) {
	job, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, err := patch.Merge(job.JobFields)
	if err != nil {
		return nil, err
	}

	previous := job.Status
	job.JobFields = merged
	job.UpdatedAt = r.now()

	if err := r.store.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}

	r.logger.Info("Job updated",
		slog.String("job_id", job.ID),
		slog.String("actor", actor),
	)

	event := events.JobEvent{
		Type:        events.JobUpdated,
		JobID:       job.ID,
		ClockNumber: job.ClockNumberMediaName,
		Status:      job.Status,
		Actor:       actor,
		OccurredAt:  job.UpdatedAt,
	}
	if previous != job.Status {
		event.Type = events.JobStatusChanged
		event.PreviousStatus = previous
	}
	publishEvent(ctx, r.publisher, r.logger, event)

	return job, nil
}

// OverrideStatus writes any valid status onto the job without consulting the
// transition guards. It is the administrative correction path used by the
// status webhook and by operators.
func (r *JobRepository) OverrideStatus(ctx context.Context, id string, status domain.Status, actor string) (*domain.Job, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "%q is not a valid status", status)
	}

	job, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := job.Status
	job.Status = status
	job.UpdatedAt = r.now()

	if err := r.store.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to override status of job %s: %w", id, err)
	}

	r.logger.Info("Job status overridden",
		slog.String("job_id", job.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(status)),
		slog.String("actor", actor),
	)

	publishEvent(ctx, r.publisher, r.logger, events.JobEvent{
		Type:           events.JobStatusChanged,
		JobID:          job.ID,
		ClockNumber:    job.ClockNumberMediaName,
		Status:         status,
		PreviousStatus: previous,
		Actor:          actor,
		OccurredAt:     job.UpdatedAt,
	})

	return job, nil
}

// List returns the report view: status subset, free-text search and an
// inclusive delivery-date range, then sorted by filter.Sort.
func (r *JobRepository) List(ctx context.Context, filter ListFilter) (*JobList, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, domain.NewValidationError("status", "%q is not a valid status", st)
		}
	}

	start, err := parseBound("delivery_start", filter.DeliveryStart, r.loc)
	if err != nil {
		return nil, err
	}
	end, err := parseBound("delivery_end", filter.DeliveryEnd, r.loc)
	if err != nil {
		return nil, err
	}

	spec, err := filter.Sort.Resolve()
	if err != nil {
		return nil, err
	}

	jobs, err := r.store.ListJobs(ctx, storage.JobQuery{Statuses: filter.Statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs = FilterSearch(jobs, filter.Query)
	jobs = FilterDeliveryRange(jobs, start, end, r.loc)
	SortJobs(jobs, spec, r.loc)
	return &JobList{Jobs: jobs, Sort: spec}, nil
}

func parseBound(field, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, ok := domain.ParseDeliveryDate(value, loc)
	if !ok {
		return nil, domain.NewValidationError(field, "%q is not an ISO-8601 date", value)
	}
	return &day, nil
}

// Duplicate creates a new Booked job carrying the identifying and delivery
// fields of an existing one.
func (r *JobRepository) Duplicate(ctx context.Context, id string, actor string) (*domain.Job, error) {
	src, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := domain.JobFields{
		ClockNumberMediaName: src.ClockNumberMediaName,
		OrderNumber:          src.OrderNumber,
		Client:               src.Client,
		Agency:               src.Agency,
		PoReference:          src.PoReference,
		Services:             src.Services,
		Destination:          src.Destination,
		DeliveryDate:         src.DeliveryDate,
	}

	job, err := r.Create(ctx, copied, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate job %s: %w", id, err)
	}
	return job, nil
}
