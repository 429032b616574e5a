package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/storage"
)

// AmbiguityPolicy decides what happens when a clock number matches more
// than one active job
type AmbiguityPolicy string

const (
	// MatchFirst picks the oldest matching job and logs a warning
	MatchFirst AmbiguityPolicy = "first"
	// MatchReject fails with domain.ErrAmbiguousMatch
	MatchReject AmbiguityPolicy = "reject"
)

func (p AmbiguityPolicy) Valid() bool {
	return p == MatchFirst || p == MatchReject
}

// StatusUpdateResult describes an applied status update
type StatusUpdateResult struct {
	Job            *domain.Job
	PreviousStatus domain.Status
	Matches        int
}

// StatusUpdater applies externally triggered status updates addressed by
// clock number. It writes through JobRepository.OverrideStatus, so the
// transition guards do not apply.
type StatusUpdater struct {
	store  storage.JobStore
	repo   *JobRepository
	policy AmbiguityPolicy
	logger *slog.Logger
}

func NewStatusUpdater(store storage.JobStore, repo *JobRepository, policy AmbiguityPolicy, logger *slog.Logger) *StatusUpdater {
	if !policy.Valid() {
		policy = MatchFirst
	}
	return &StatusUpdater{
		store:  store,
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// ApplyByClockNumber sets newStatus on the active job whose clock number,
// up to the first "/", equals clockNumber exactly. Names without a "/"
// never match.
func (u *StatusUpdater) ApplyByClockNumber(ctx context.Context, clockNumber, newStatus, actor string) (*StatusUpdateResult, error) {
	if strings.TrimSpace(clockNumber) == "" {
		return nil, domain.NewValidationError("clockNumber", "is required")
	}
	if strings.TrimSpace(newStatus) == "" {
		return nil, domain.NewValidationError("newStatus", "is required")
	}
	status, err := domain.ParseStatus(newStatus)
	if err != nil {
		return nil, domain.NewValidationError("newStatus", "%q is not a valid status", newStatus)
	}

	matches, err := u.findByClockNumber(ctx, clockNumber)
	if err != nil {
		return nil, err
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("no active job for clock number %q: %w", clockNumber, domain.ErrNotFound)
	case len(matches) > 1 && u.policy == MatchReject:
		return nil, fmt.Errorf("clock number %q matches %d jobs: %w", clockNumber, len(matches), domain.ErrAmbiguousMatch)
	case len(matches) > 1:
		u.logger.Warn("Clock number matches several jobs, updating the oldest",
			slog.String("clock_number", clockNumber),
			slog.Int("matches", len(matches)),
			slog.String("job_id", matches[0].ID),
		)
	}

	target := matches[0]
	job, err := u.repo.OverrideStatus(ctx, target.ID, status, actor)
	if err != nil {
		return nil, err
	}

	return &StatusUpdateResult{
		Job:            job,
		PreviousStatus: target.Status,
		Matches:        len(matches),
	}, nil
}

// findByClockNumber returns matching jobs oldest first
func (u *StatusUpdater) findByClockNumber(ctx context.Context, clockNumber string) ([]*domain.Job, error) {
	candidates, err := u.store.ListJobs(ctx, storage.JobQuery{NamePrefix: clockNumber + "/"})
	if err != nil {
		return nil, fmt.Errorf("failed to look up clock number %q: %w", clockNumber, err)
	}

	matches := make([]*domain.Job, 0, len(candidates))
	for _, job := range candidates {
		if prefix, _, found := strings.Cut(job.ClockNumberMediaName, "/"); found && prefix == clockNumber {
			matches = append(matches, job)
		}
	}
	return matches, nil
}
