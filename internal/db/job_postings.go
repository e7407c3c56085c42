package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

// CreateJobPosting stores a job posting. A nil ID is replaced with a new one.
func (db *DB) CreateJobPosting(ctx context.Context, j *types.JobPosting) (*types.JobPosting, error) {
	stored := *j
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now

	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_postings (id, title, company, location, job_type, description,
		        requirements, responsibilities, benefits, source_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		stored.ID, stored.Title, stored.Company, stored.Location, stored.JobType, stored.Description,
		stored.Requirements, stored.Responsibilities, stored.Benefits, stored.SourceURL,
		stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return &stored, nil
}

// GetJobPosting retrieves a job posting by ID
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	var p types.JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, location, job_type, description, requirements,
		        responsibilities, benefits, source_url, created_at, updated_at
		 FROM job_postings WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.JobType, &p.Description, &p.Requirements,
		&p.Responsibilities, &p.Benefits, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}
