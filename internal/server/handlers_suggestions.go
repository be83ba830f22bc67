package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/job-tracker/internal/suggestions"
	"github.com/jonathan/job-tracker/internal/types"
)

// ---------------------------------------------------------------------
// AI Suggestion Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCVSuggestions(w http.ResponseWriter, r *http.Request) {
	var req types.CVSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failure(w, r, &ErrMalformedBody{Err: err}, "Failed to generate suggestions")
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err, "Failed to generate suggestions")
		return
	}

	if s.suggestions == nil {
		s.suggestionFailure(w, r, suggestions.ErrUnconfigured)
		return
	}

	suggestion, err := s.suggestions.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, suggestions.ErrGeneration) {
			s.suggestionFailure(w, r, err)
			return
		}
		if errors.Is(err, suggestions.ErrFetch) {
			s.logger.WithError(err).WithField("path", r.URL.Path).Warn("job description fetch failed")
		}
		s.failure(w, r, err, "Failed to generate suggestions")
		return
	}

	s.jsonResponse(w, http.StatusOK, suggestion)
}

// suggestionFailure reports an unreachable model along with generic advice
// the page can still show.
func (s *Server) suggestionFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WithError(err).WithField("path", r.URL.Path).Error("AI suggestion request failed")
	s.jsonResponse(w, http.StatusInternalServerError, types.CVSuggestionFailure{
		Error:    "Failed to generate suggestions",
		Fallback: suggestions.CallFailureFallback(),
	})
}
