package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/events"
	"github.com/cuongbtq/accessflow-be/internal/storage"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func london(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return loc
}

// testClock is a settable clock shared by the services under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// faultyStore wraps MemoryStore and fails selected calls
type faultyStore struct {
	*storage.MemoryStore

	createJobErr        error
	deleteJobErr        error
	updateJobErr        error
	listJobsErr         error
	deleteDeletedJobErr error
	listDeletedJobsErr  error
}

func (s *faultyStore) CreateJob(ctx context.Context, job *domain.Job) error {
	if s.createJobErr != nil {
		return s.createJobErr
	}
	return s.MemoryStore.CreateJob(ctx, job)
}

func (s *faultyStore) DeleteJob(ctx context.Context, id string) error {
	if s.deleteJobErr != nil {
		return s.deleteJobErr
	}
	return s.MemoryStore.DeleteJob(ctx, id)
}

func (s *faultyStore) UpdateJob(ctx context.Context, job *domain.Job) error {
	if s.updateJobErr != nil {
		return s.updateJobErr
	}
	return s.MemoryStore.UpdateJob(ctx, job)
}

func (s *faultyStore) ListJobs(ctx context.Context, q storage.JobQuery) ([]*domain.Job, error) {
	if s.listJobsErr != nil {
		return nil, s.listJobsErr
	}
	return s.MemoryStore.ListJobs(ctx, q)
}

func (s *faultyStore) DeleteDeletedJob(ctx context.Context, id string) error {
	if s.deleteDeletedJobErr != nil {
		return s.deleteDeletedJobErr
	}
	return s.MemoryStore.DeleteDeletedJob(ctx, id)
}

func (s *faultyStore) ListDeletedJobs(ctx context.Context) ([]*domain.DeletedJob, error) {
	if s.listDeletedJobsErr != nil {
		return nil, s.listDeletedJobsErr
	}
	return s.MemoryStore.ListDeletedJobs(ctx)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.JobEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fixture wires every service over one faultyStore and one clock
type fixture struct {
	store     *faultyStore
	clock     *testClock
	publisher *recordingPublisher
	loc       *time.Location

	repo      *JobRepository
	engine    *StatusEngine
	lifecycle *Lifecycle
	lister    *Lister
	updater   *StatusUpdater
	prefs     *PrefsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := london(t)
	f := &fixture{
		store:     &faultyStore{MemoryStore: storage.NewMemoryStore()},
		clock:     &testClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, loc)},
		publisher: &recordingPublisher{},
		loc:       loc,
	}

	logger := testLogger()
	f.repo = NewJobRepository(f.store, f.publisher, loc, logger)
	f.repo.now = f.clock.Now
	f.engine = NewStatusEngine(f.store, f.publisher, logger)
	f.engine.now = f.clock.Now
	f.lifecycle = NewLifecycle(f.store, f.publisher, logger)
	f.lifecycle.now = f.clock.Now
	f.lister = NewLister(f.store, loc)
	f.lister.now = f.clock.Now
	f.updater = NewStatusUpdater(f.store, f.repo, MatchFirst, logger)
	f.prefs = NewPrefsService(f.store, time.Minute, logger)
	f.prefs.now = f.clock.Now
	return f
}

func jobInput(name, deliveryDate string) domain.JobFields {
	return domain.JobFields{
		ClockNumberMediaName: name,
		DeliveryDate:         deliveryDate,
		Services: []domain.ServiceDetail{
			{Name: domain.ServiceClosedCaptions, SubService: "Original"},
		},
	}
}

// seedJob creates a job and then forces its status through the override path
func (f *fixture) seedJob(t *testing.T, name string, status domain.Status) *domain.Job {
	t.Helper()
	job, err := f.repo.Create(context.Background(), jobInput(name, "2026-10-20"), "user-1")
	require.NoError(t, err)
	if status != domain.StatusBooked {
		job, err = f.repo.OverrideStatus(context.Background(), job.ID, status, "user-1")
		require.NoError(t, err)
	}
	return job
}
