package server

import (
	"bytes"
	"net/http"

	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/types"
)

// handleDashboard renders the full page server-side. Counters cover the
// user's whole list; the status and search parameters narrow only the cards.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := s.userID(r, q.Get("userId"))

	jobs, err := s.store.ListJobApplications(r.Context(), types.ListFilter{UserID: userID})
	if err != nil {
		s.logger.WithError(err).Error("dashboard: failed to fetch jobs")
		http.Error(w, "Failed to fetch jobs", http.StatusInternalServerError)
		return
	}

	page := dashboard.NewPage(userID, jobs, q.Get("status"), q.Get("search"), s.now())

	// Render into a buffer so a template failure does not leave a half-written page.
	var buf bytes.Buffer
	if err := dashboard.Render(&buf, page); err != nil {
		s.logger.WithError(err).Error("dashboard: failed to render page")
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
