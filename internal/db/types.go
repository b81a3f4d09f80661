package db

import (
	"time"

	"github.com/google/uuid"
)

// MaxExplanationLength is the storage limit for match explanation text.
const MaxExplanationLength = 2000

// Candidate represents a candidate profile. Read-only to the match engine.
type Candidate struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	FieldOfStudy string    `json:"field_of_study,omitempty"`
	Skills       string    `json:"skills,omitempty"` // raw skills string, normalized on use
	ResumeText   *string   `json:"-"`                // active resume content (large), optional
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobPosting represents an active job opening supplied by the catalog.
// Read-only to the match engine.
type JobPosting struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills string    `json:"required_skills,omitempty"` // raw skills string
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// MatchRecord is the persisted outcome of scoring one candidate against one job.
// Score is always in [1, 100]; Explanation is at most MaxExplanationLength characters.
type MatchRecord struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
	Score       float64   `json:"score"`
	Explanation string    `json:"explanation"`
	MatchedAt   time.Time `json:"matched_at"`
	Viewed      bool      `json:"viewed"`
}

// MatchCreateInput is used when persisting a freshly computed match.
type MatchCreateInput struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
	Score       float64
	Explanation string
	MatchedAt   time.Time
}
