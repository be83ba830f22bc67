package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/types"
)

// MemoryStore keeps job applications in process memory. It offers the same
// operations as DB and is used by tests and the "memory" store mode.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*types.JobApplication
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]*types.JobApplication),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Intended for tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

// ListJobApplications returns the user's applications matching the filter, newest first.
func (m *MemoryStore) ListJobApplications(_ context.Context, filter types.ListFilter) ([]types.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := []types.JobApplication{}
	for _, job := range m.jobs {
		if job.UserID != filter.UserID || !filter.Matches(job) {
			continue
		}
		jobs = append(jobs, *job.Clone())
	}

	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID.String() < jobs[j].ID.String()
	})
	return jobs, nil
}

// CreateJobApplication stores a copy of job under a fresh identifier.
func (m *MemoryStore) CreateJobApplication(_ context.Context, job *types.JobApplication) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	job.ID = uuid.New()
	job.CreatedAt = now
	job.UpdatedAt = now
	m.jobs[job.ID] = job.Clone()
	return job.ID, nil
}

// GetJobApplication retrieves one application by ID.
func (m *MemoryStore) GetJobApplication(_ context.Context, id uuid.UUID) (*types.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	return job.Clone(), nil
}

// UpdateJobApplication merges the patch onto the stored application.
func (m *MemoryStore) UpdateJobApplication(_ context.Context, id uuid.UUID, patch types.JobApplicationPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	patch.Apply(job, m.now())
	return nil
}

// DeleteJobApplication removes an application.
func (m *MemoryStore) DeleteJobApplication(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	delete(m.jobs, id)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}
