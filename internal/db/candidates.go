package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetCandidateByID retrieves a candidate profile together with the text of
// their active resume, if one exists. Returns (nil, nil) when the candidate
// is not found.
func (db *DB) GetCandidateByID(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	var c Candidate

	err := db.pool.QueryRow(ctx,
		`SELECT c.id, c.name, c.email, COALESCE(c.field_of_study, ''),
		        COALESCE(c.skills, ''), r.parsed_text, c.created_at, c.updated_at
		 FROM candidates c
		 LEFT JOIN resumes r ON r.candidate_id = c.id AND r.active = TRUE
		 WHERE c.id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.FieldOfStudy, &c.Skills, &c.ResumeText,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	return &c, nil
}
