package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
)

// ---------------------------------------------------------------------
// Job Application Handlers
// ---------------------------------------------------------------------

// CreateJobResponse is returned by POST /api/jobs.
type CreateJobResponse struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
}

// SuccessResponse acknowledges an update or delete.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := s.listFilter(r)
	if err != nil {
		s.failure(w, r, err, "Failed to fetch jobs")
		return
	}

	jobs, err := s.store.ListJobApplications(r.Context(), filter)
	if err != nil {
		s.failure(w, r, err, "Failed to fetch jobs")
		return
	}
	if jobs == nil {
		jobs = []types.JobApplication{}
	}

	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failure(w, r, &ErrMalformedBody{Err: err}, "Failed to create job")
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err, "Failed to create job")
		return
	}

	req.UserID = s.userID(r, req.UserID)
	job := req.ToJobApplication(s.defaultUser, s.now())

	id, err := s.store.CreateJobApplication(r.Context(), job)
	if err != nil {
		s.failure(w, r, err, "Failed to create job")
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateJobResponse{Success: true, ID: id})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.loadJob(r)
	if err != nil {
		s.failure(w, r, err, "Failed to fetch job")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizeJob(r)
	if err != nil {
		s.failure(w, r, err, "Failed to update job")
		return
	}

	var req types.UpdateJobApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failure(w, r, &ErrMalformedBody{Err: err}, "Failed to update job")
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, validationError(err), "Failed to update job")
		return
	}

	if err := s.store.UpdateJobApplication(r.Context(), id, req.ToPatch()); err != nil {
		s.failure(w, r, err, "Failed to update job")
		return
	}

	s.jsonResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizeJob(r)
	if err != nil {
		s.failure(w, r, err, "Failed to delete job")
		return
	}

	if err := s.store.DeleteJobApplication(r.Context(), id); err != nil {
		s.failure(w, r, err, "Failed to delete job")
		return
	}

	s.jsonResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobApplications(r.Context(), types.ListFilter{
		UserID: s.userID(r, r.URL.Query().Get("userId")),
	})
	if err != nil {
		s.failure(w, r, err, "Failed to fetch stats")
		return
	}

	s.jsonResponse(w, http.StatusOK, dashboard.ComputeStats(jobs, s.now()))
}

// listFilter reads the list query parameters.
func (s *Server) listFilter(r *http.Request) (types.ListFilter, error) {
	q := r.URL.Query()
	filter := types.ListFilter{
		UserID: s.userID(r, q.Get("userId")),
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if filter.StatusFilterActive() && !types.ApplicationStatus(filter.Status).Valid() {
		return filter, &ErrValidation{Message: "Invalid status"}
	}
	return filter, nil
}

// parseJobID reads the {id} path value. Anything that is not a UUID cannot
// name a stored application and is reported as not found.
func parseJobID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("job application %q: %w", raw, db.ErrNotFound)
	}
	return id, nil
}

// loadJob fetches the application named by the path. With authentication on,
// applications owned by someone else are reported as not found.
func (s *Server) loadJob(r *http.Request) (*types.JobApplication, error) {
	id, err := parseJobID(r)
	if err != nil {
		return nil, err
	}

	job, err := s.store.GetJobApplication(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if owner, authErr := middleware.GetUserID(r); authErr == nil && job.UserID != owner {
		return nil, fmt.Errorf("job application %s: %w", id, db.ErrNotFound)
	}
	return job, nil
}

// authorizeJob resolves the path identifier for a write. Ownership is only
// checked when the request is authenticated, which costs one extra read.
func (s *Server) authorizeJob(r *http.Request) (uuid.UUID, error) {
	if _, err := middleware.GetUserID(r); err != nil {
		return parseJobID(r)
	}

	job, err := s.loadJob(r)
	if err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

// validationError wraps non-validator failures from Validate so they map to 400.
func validationError(err error) error {
	if HTTPStatus(err) == http.StatusBadRequest {
		return err
	}
	return &ErrValidation{Message: err.Error()}
}
