package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/db"
)

// CandidateStore resolves candidate profiles. Implemented by db.DB.
type CandidateStore interface {
	// GetCandidateByID returns (nil, nil) when the candidate does not exist
	GetCandidateByID(ctx context.Context, id uuid.UUID) (*db.Candidate, error)
}

// JobStore is the primary source of active job postings. Implemented by db.DB.
type JobStore interface {
	ListActiveJobPostings(ctx context.Context) ([]db.JobPosting, error)
}

// JobLister is the secondary catalog source, consulted once when the primary
// store yields no jobs. Implemented by catalog.Client.
type JobLister interface {
	ListActiveJobs(ctx context.Context) ([]db.JobPosting, error)
}

// MatchStore is the persistence boundary for match records. Implemented by db.DB.
type MatchStore interface {
	// SaveMatch assigns identity and returns the persisted record
	SaveMatch(ctx context.Context, input *db.MatchCreateInput) (*db.MatchRecord, error)
	// GetMatchByID returns (nil, nil) when no such record exists
	GetMatchByID(ctx context.Context, id uuid.UUID) (*db.MatchRecord, error)
	// ListMatchesByCandidate returns the candidate's records, score descending
	ListMatchesByCandidate(ctx context.Context, candidateID uuid.UUID) ([]db.MatchRecord, error)
	// SetMatchViewed marks a record as viewed
	SetMatchViewed(ctx context.Context, id uuid.UUID) error
}
