package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/suggestions"
	"github.com/jonathan/job-tracker/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrMalformedBody indicates a request body that is not valid JSON for its endpoint.
type ErrMalformedBody struct {
	Err error
}

func (e *ErrMalformedBody) Error() string {
	return "Invalid JSON body"
}

func (e *ErrMalformedBody) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		malformedErr  *ErrMalformedBody
		fieldErrs     validator.ValidationErrors
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &malformedErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, suggestions.ErrMissingInput), errors.Is(err, suggestions.ErrFetch):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fetchFailedMessage hides why a jobUrl fetch failed. Dial and status
// errors would otherwise reveal what the server can reach.
const fetchFailedMessage = "Failed to fetch job description"

// clientMessage is the error text safe to show the caller. Server-side
// failures collapse to fallback; details stay in the log.
func clientMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return "Job not found"
	case http.StatusBadRequest:
		if errors.Is(err, suggestions.ErrFetch) {
			return fetchFailedMessage
		}
		if errors.As(err, &fieldErrs) {
			return types.ValidationMessage(fieldErrs)
		}
		return err.Error()
	default:
		return fallback
	}
}
