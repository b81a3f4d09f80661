package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveMatch persists a freshly computed match record and returns it with its
// assigned identity. No uniqueness constraint exists on (candidate_id, job_id):
// repeated orchestration runs accumulate one record per run per pair.
func (db *DB) SaveMatch(ctx context.Context, input *MatchCreateInput) (*MatchRecord, error) {
	var m MatchRecord

	err := db.pool.QueryRow(ctx,
		`INSERT INTO match_records (candidate_id, job_id, score, explanation, matched_at, viewed)
		 VALUES ($1, $2, $3, $4, $5, FALSE)
		 RETURNING id, candidate_id, job_id, score, explanation, matched_at, viewed`,
		input.CandidateID, input.JobID, input.Score, input.Explanation, input.MatchedAt,
	).Scan(&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.Explanation, &m.MatchedAt, &m.Viewed)
	if err != nil {
		return nil, fmt.Errorf("failed to save match record: %w", err)
	}

	return &m, nil
}

// GetMatchByID retrieves a match record by its ID. Returns (nil, nil) when
// no such record exists.
func (db *DB) GetMatchByID(ctx context.Context, id uuid.UUID) (*MatchRecord, error) {
	var m MatchRecord

	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, job_id, score, explanation, matched_at, viewed
		 FROM match_records WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.Explanation, &m.MatchedAt, &m.Viewed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match record: %w", err)
	}

	return &m, nil
}

// ListMatchesByCandidate retrieves all match records owned by a candidate,
// highest score first.
func (db *DB) ListMatchesByCandidate(ctx context.Context, candidateID uuid.UUID) ([]MatchRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, job_id, score, explanation, matched_at, viewed
		 FROM match_records
		 WHERE candidate_id = $1
		 ORDER BY score DESC, matched_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.Explanation, &m.MatchedAt, &m.Viewed); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// SetMatchViewed marks a match record as viewed by its owner
func (db *DB) SetMatchViewed(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE match_records SET viewed = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark match viewed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match record not found: %s", id)
	}
	return nil
}
