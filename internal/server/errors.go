// Package server provides the HTTP REST API for the match engine.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/jobmatch/internal/matching"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		candidateNotFound *matching.ErrCandidateNotFound
		matchNotFound     *matching.ErrMatchNotFound
		notOwner          *matching.ErrNotMatchOwner
		validation        *ErrValidation
	)

	switch {
	case errors.As(err, &candidateNotFound), errors.As(err, &matchNotFound):
		return http.StatusNotFound
	case errors.As(err, &notOwner):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
