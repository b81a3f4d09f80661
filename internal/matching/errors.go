package matching

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrCandidateNotFound indicates the candidate to match could not be resolved
type ErrCandidateNotFound struct {
	ID uuid.UUID
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.ID)
}

// ErrMatchNotFound indicates a match record does not exist
type ErrMatchNotFound struct {
	ID uuid.UUID
}

func (e *ErrMatchNotFound) Error() string {
	return fmt.Sprintf("match record not found: %s", e.ID)
}

// ErrNotMatchOwner indicates a candidate attempted to mutate a match record
// owned by someone else
type ErrNotMatchOwner struct {
	MatchID     uuid.UUID
	CandidateID uuid.UUID
}

func (e *ErrNotMatchOwner) Error() string {
	return fmt.Sprintf("candidate %s does not own match record %s", e.CandidateID, e.MatchID)
}

// APICallError represents a failed call to the text-generation collaborator.
// It never escapes the scoring layer; callers receive fallback values instead.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a malformed collaborator reply. Like APICallError it
// is always converted to a fallback value at the point of use.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
