package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

type memoryJob struct {
	job *domain.Job
	seq uint64
}

// MemoryStore is an in-process Store for development and tests.
// Safe for concurrent access. Records are copied on the way in and out.
type MemoryStore struct {
	mu sync.RWMutex

	seq       uint64
	jobs      map[string]memoryJob
	deleted   map[string]*domain.DeletedJob
	userPrefs map[string]*domain.UserPrefs
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:      make(map[string]memoryJob),
		deleted:   make(map[string]*domain.DeletedJob),
		userPrefs: make(map[string]*domain.UserPrefs),
	}
}

// Ping always succeeds
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// CreateJob stores job under a fresh id and writes the id back onto job
func (m *MemoryStore) CreateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.ID = uuid.NewString()
	m.seq++
	m.jobs[job.ID] = memoryJob{job: job.Clone(), seq: m.seq}
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.job.Clone(), nil
}

func (m *MemoryStore) UpdateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.job = job.Clone()
	m.jobs[job.ID] = rec
	return nil
}

func (m *MemoryStore) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *MemoryStore) ListJobs(_ context.Context, q JobQuery) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]memoryJob, 0, len(m.jobs))
	for _, rec := range m.jobs {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, rec.job.Status) {
			continue
		}
		if q.NamePrefix != "" && !strings.HasPrefix(rec.job.ClockNumberMediaName, q.NamePrefix) {
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].job, recs[j].job
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return recs[i].seq < recs[j].seq
	})

	out := make([]*domain.Job, len(recs))
	for i, rec := range recs {
		out[i] = rec.job.Clone()
	}
	return out, nil
}

// CreateDeletedJob stores d under a fresh id and writes the id back onto d
func (m *MemoryStore) CreateDeletedJob(_ context.Context, d *domain.DeletedJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = uuid.NewString()
	m.deleted[d.ID] = d.Clone()
	return nil
}

func (m *MemoryStore) GetDeletedJob(_ context.Context, id string) (*domain.DeletedJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.deleted[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d.Clone(), nil
}

// ListDeletedJobs returns tombstones, most recently deleted first
func (m *MemoryStore) ListDeletedJobs(_ context.Context) ([]*domain.DeletedJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.DeletedJob, 0, len(m.deleted))
	for _, d := range m.deleted {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeletedAt.Equal(out[j].DeletedAt) {
			return out[i].DeletedAt.After(out[j].DeletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) DeleteDeletedJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.deleted[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.deleted, id)
	return nil
}

func (m *MemoryStore) GetUserPrefs(_ context.Context, userID string) (*domain.UserPrefs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.userPrefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) UpsertUserPrefs(_ context.Context, prefs *domain.UserPrefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *prefs
	m.userPrefs[prefs.UserID] = &cp
	return nil
}

func containsStatus(statuses []domain.Status, s domain.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
