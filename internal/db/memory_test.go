package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestMemoryStore() *MemoryStore {
	return NewMemoryStore().WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func seed(t *testing.T, m *MemoryStore, job types.JobApplication) uuid.UUID {
	t.Helper()
	id, err := m.CreateJobApplication(context.Background(), &job)
	require.NoError(t, err)
	return id
}

func TestMemoryStore_CreateAssignsIdentityAndTimestamps(t *testing.T) {
	m := newTestMemoryStore()
	job := &types.JobApplication{UserID: "u1", CompanyName: "Acme"}

	id, err := m.CreateJobApplication(context.Background(), job)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, job.ID)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)

	stored, err := m.GetJobApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.CompanyName)
}

func TestMemoryStore_ListOrdersNewestFirstAndScopesByUser(t *testing.T) {
	m := newTestMemoryStore()
	first := seed(t, m, types.JobApplication{UserID: "u1", CompanyName: "First"})
	second := seed(t, m, types.JobApplication{UserID: "u1", CompanyName: "Second"})
	seed(t, m, types.JobApplication{UserID: "u2", CompanyName: "Other"})

	jobs, err := m.ListJobApplications(context.Background(), types.ListFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second, jobs[0].ID)
	assert.Equal(t, first, jobs[1].ID)
}

func TestMemoryStore_ListFilters(t *testing.T) {
	m := newTestMemoryStore()
	seed(t, m, types.JobApplication{UserID: "u", CompanyName: "Acme Corp", JobTitle: "Engineer", Location: "Berlin", Status: types.StatusOffer})
	seed(t, m, types.JobApplication{UserID: "u", CompanyName: "Globex", JobTitle: "ACME liaison", Location: "Paris", Status: types.StatusApplied})
	seed(t, m, types.JobApplication{UserID: "u", CompanyName: "Initech", JobTitle: "Analyst", Location: "acmeville", Status: types.StatusOffer})
	seed(t, m, types.JobApplication{UserID: "u", CompanyName: "Hooli", JobTitle: "SRE", Location: "Remote", Status: types.StatusOffer})

	tests := []struct {
		name   string
		filter types.ListFilter
		want   []string
	}{
		{"status only", types.ListFilter{UserID: "u", Status: "offer"}, []string{"Hooli", "Initech", "Acme Corp"}},
		{"all status", types.ListFilter{UserID: "u", Status: "all"}, []string{"Hooli", "Initech", "Globex", "Acme Corp"}},
		{"search only", types.ListFilter{UserID: "u", Search: "acme"}, []string{"Initech", "Globex", "Acme Corp"}},
		{"status and search", types.ListFilter{UserID: "u", Status: "offer", Search: "acme"}, []string{"Initech", "Acme Corp"}},
		{"no match", types.ListFilter{UserID: "u", Search: "umbrella"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := m.ListJobApplications(context.Background(), tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, j := range jobs {
				got = append(got, j.CompanyName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryStore_UpdateIsPartialAndAdvancesUpdatedAt(t *testing.T) {
	m := newTestMemoryStore()
	deadline := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	id := seed(t, m, types.JobApplication{
		UserID:      "u",
		CompanyName: "Acme",
		JobTitle:    "Engineer",
		Status:      types.StatusApplied,
		Priority:    types.PriorityHigh,
		Deadline:    &deadline,
		Salary:      "100k",
	})
	before, err := m.GetJobApplication(context.Background(), id)
	require.NoError(t, err)

	status := types.StatusInterview
	require.NoError(t, m.UpdateJobApplication(context.Background(), id, types.JobApplicationPatch{Status: &status}))

	after, err := m.GetJobApplication(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, types.StatusInterview, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	// Everything except status and updatedAt is untouched.
	after.Status = before.Status
	after.UpdatedAt = before.UpdatedAt
	assert.Equal(t, before, after)
}

func TestMemoryStore_CreatedAtNeverExceedsUpdatedAt(t *testing.T) {
	m := newTestMemoryStore()
	ids := []uuid.UUID{
		seed(t, m, types.JobApplication{UserID: "u"}),
		seed(t, m, types.JobApplication{UserID: "u"}),
	}
	name := "renamed"
	for i := 0; i < 3; i++ {
		for _, id := range ids {
			require.NoError(t, m.UpdateJobApplication(context.Background(), id, types.JobApplicationPatch{CompanyName: &name}))
		}
	}

	jobs, err := m.ListJobApplications(context.Background(), types.ListFilter{UserID: "u"})
	require.NoError(t, err)
	for _, j := range jobs {
		assert.False(t, j.UpdatedAt.Before(j.CreatedAt))
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	m := newTestMemoryStore()
	missing := uuid.New()

	_, err := m.GetJobApplication(context.Background(), missing)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = m.UpdateJobApplication(context.Background(), missing, types.JobApplicationPatch{})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = m.DeleteJobApplication(context.Background(), missing)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_DeleteTwice(t *testing.T) {
	m := newTestMemoryStore()
	id := seed(t, m, types.JobApplication{UserID: "u"})

	require.NoError(t, m.DeleteJobApplication(context.Background(), id))
	err := m.DeleteJobApplication(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	jobs, err := m.ListJobApplications(context.Background(), types.ListFilter{UserID: "u"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	m := newTestMemoryStore()
	deadline := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	id := seed(t, m, types.JobApplication{UserID: "u", CompanyName: "Acme", Deadline: &deadline})

	got, err := m.GetJobApplication(context.Background(), id)
	require.NoError(t, err)
	got.CompanyName = "mutated"
	*got.Deadline = got.Deadline.AddDate(1, 0, 0)

	again, err := m.GetJobApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.CompanyName)
	assert.Equal(t, 2024, again.Deadline.Year())
}
