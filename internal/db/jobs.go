package db

import (
	"context"
	"fmt"
)

// ListActiveJobPostings retrieves all job postings currently open for matching
func (db *DB) ListActiveJobPostings(ctx context.Context) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, COALESCE(required_skills, ''), active, created_at
		 FROM job_postings
		 WHERE active = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active job postings: %w", err)
	}
	defer rows.Close()

	var jobs []JobPosting
	for rows.Next() {
		var j JobPosting
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.RequiredSkills, &j.Active, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
