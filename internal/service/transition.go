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
)

// StatusEngine moves jobs one step along the status pipeline. Arbitrary
// status writes go through JobRepository.OverrideStatus instead.
//
// Concurrent moves on the same job are last-write-wins.
type StatusEngine struct {
	store     storage.JobStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewStatusEngine(store storage.JobStore, publisher events.Publisher, logger *slog.Logger) *StatusEngine {
	return &StatusEngine{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Advance moves the job to the next status. A Finished job returns
// domain.ErrAtTerminal and is not written.
func (e *StatusEngine) Advance(ctx context.Context, id string, actor string) (*domain.Job, error) {
	return e.move(ctx, id, actor, true)
}

// Retreat moves the job to the previous status. A Booked job returns
// domain.ErrAtInitial and is not written.
func (e *StatusEngine) Retreat(ctx context.Context, id string, actor string) (*domain.Job, error) {
	return e.move(ctx, id, actor, false)
}

func (e *StatusEngine) move(ctx context.Context, id string, actor string, forward bool) (*domain.Job, error) {
	job, err := e.store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	from := job.Status
	var (
		to domain.Status
		ok bool
	)
	if forward {
		to, ok = from.Next()
	} else {
		to, ok = from.Prev()
	}
	if !ok {
		switch {
		case !from.Valid():
			return nil, fmt.Errorf("job %s has %w %q", id, domain.ErrInvalidStatus, from)
		case forward:
			return nil, domain.ErrAtTerminal
		default:
			return nil, domain.ErrAtInitial
		}
	}

	if err := CheckTransition(job, to); err != nil {
		e.logger.Info("Status transition rejected",
			slog.String("job_id", id),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
			slog.Any("error", err),
		)
		return nil, err
	}

	job.Status = to
	job.UpdatedAt = e.now()
	if err := e.store.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to move job %s to %s: %w", id, to, err)
	}

	e.logger.Info("Job status changed",
		slog.String("job_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("actor", actor),
	)

	publishEvent(ctx, e.publisher, e.logger, events.JobEvent{
		Type:           events.JobStatusChanged,
		JobID:          job.ID,
		ClockNumber:    job.ClockNumberMediaName,
		Status:         to,
		PreviousStatus: from,
		Actor:          actor,
		OccurredAt:     job.UpdatedAt,
	})

	return job, nil
}

// CheckTransition applies the guard on moving job to target. Only
// Delivered to Finished is guarded: it needs inSAP and a non-blank
// commercial description. Every unmet condition is named.
func CheckTransition(job *domain.Job, target domain.Status) error {
	if job.Status != domain.StatusDelivered || target != domain.StatusFinished {
		return nil
	}

	var unmet []string
	if !job.InSAP {
		unmet = append(unmet, "inSAP must be true")
	}
	if strings.TrimSpace(job.CommercialDescription) == "" {
		unmet = append(unmet, "commercialDescription must not be empty")
	}
	if len(unmet) == 0 {
		return nil
	}

	return &domain.PreconditionError{
		Transition: fmt.Sprintf("%s -> %s", job.Status, target),
		Unmet:      unmet,
	}
}
