package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/db"
)

// MatchesResponse represents the response for computing or listing matches
type MatchesResponse struct {
	Matches []db.MatchRecord `json:"matches"`
	Count   int              `json:"count"`
}

// MarkViewedRequest represents the request body for the viewed-state transition.
// The candidate id identifies the actor; only the owning candidate may mark
// a match as viewed.
type MarkViewedRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
}

// Validate validates the MarkViewedRequest using the validator.
func (r *MarkViewedRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return &ErrValidation{Field: "candidate_id", Message: "must be a valid UUID"}
	}
	return nil
}

// handleComputeMatches runs the match orchestrator for a candidate and
// returns the freshly created records, ranked by score
func (s *Server) handleComputeMatches(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	records, err := s.matcher.ComputeMatches(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, MatchesResponse{
		Matches: records,
		Count:   len(records),
	})
}

// handleListMatches returns a candidate's persisted match records, score descending
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	records, err := s.matches.ListMatchesByCandidate(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if records == nil {
		records = []db.MatchRecord{}
	}

	s.jsonResponse(w, http.StatusOK, MatchesResponse{
		Matches: records,
		Count:   len(records),
	})
}

// handleGetMatch retrieves a single match record by ID
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	record, err := s.matches.GetMatchByID(r.Context(), matchID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "Match record not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleMarkViewed marks a match record as viewed by its owning candidate
func (s *Server) handleMarkViewed(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req MarkViewedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		verr := &ErrValidation{Field: "candidate_id", Message: "must be a valid UUID"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	record, err := s.tracker.MarkViewed(r.Context(), matchID, candidateID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}
