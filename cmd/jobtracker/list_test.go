package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *db.MemoryStore {
	t.Helper()

	store := db.NewMemoryStore()
	deadline := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	jobs := []*types.JobApplication{
		{UserID: "alice", CompanyName: "Acme", JobTitle: "Go Engineer", Status: types.StatusInterview, Priority: types.PriorityHigh, Deadline: &deadline},
		{UserID: "alice", CompanyName: "Globex", JobTitle: "Data Analyst", Status: types.StatusApplied, Priority: types.PriorityMedium},
		{UserID: "bob", CompanyName: "Initech", JobTitle: "SRE", Status: types.StatusOffer, Priority: types.PriorityLow},
	}
	for _, job := range jobs {
		_, err := store.CreateJobApplication(context.Background(), job)
		require.NoError(t, err)
	}
	return store
}

func TestPrintApplications(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    string
		status  string
		search  string
		want    []string
		notWant []string
	}{
		{
			name: "all of a user's applications",
			user: "alice",
			want: []string{"Total Applications:  2", "APPLICATIONS (2)", "Go Engineer at Acme", "Data Analyst at Globex", "(2 days left) ⚠"},
			notWant: []string{"Initech"},
		},
		{
			name:    "status narrows the list but not the counters",
			user:    "alice",
			status:  "applied",
			want:    []string{"Total Applications:  2", "Interviews:          1", "APPLICATIONS (1)", "Globex"},
			notWant: []string{"Go Engineer at Acme"},
		},
		{
			name:    "search",
			user:    "alice",
			search:  "acme",
			want:    []string{"APPLICATIONS (1)", "Go Engineer at Acme"},
			notWant: []string{"Data Analyst at Globex"},
		},
		{
			name: "unknown user",
			user: "carol",
			want: []string{"Total Applications:  0", "No job applications yet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := printApplications(context.Background(), &out, seedStore(t), tt.user, tt.status, tt.search, now)
			require.NoError(t, err)

			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestPrintApplications_InvalidStatus(t *testing.T) {
	var out bytes.Buffer
	err := printApplications(context.Background(), &out, seedStore(t), "alice", "pending", "", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
	assert.Empty(t, out.String())
}

func TestListCommand_MemoryStore(t *testing.T) {
	t.Setenv("JOBTRACKER_STORE", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--user", "alice"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "JOB SEARCH SUMMARY")
	assert.Contains(t, out.String(), "No job applications yet")
}
