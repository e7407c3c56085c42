package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/resume-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Analysis Run Methods
// -----------------------------------------------------------------------------

// DefaultListLimit is the page size used when a RunFilter has no limit
const DefaultListLimit = 50

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	ResumeID *uuid.UUID
	Status   string
	Limit    int
}

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// foreignKeyViolation is the PostgreSQL error code for a missing referenced row
const foreignKeyViolation = "23503"

const runColumns = `id, resume_id, job_posting_id, status, error_message, result,
	processing_time_seconds, analysis_algorithm_version, nlp_model_version,
	created_at, started_at, completed_at`

// CreateRun creates a pending analysis run
func (db *DB) CreateRun(ctx context.Context, resumeID, jobPostingID uuid.UUID) (*types.AnalysisRun, error) {
	run := &types.AnalysisRun{
		ID:           uuid.New(),
		ResumeID:     resumeID,
		JobPostingID: jobPostingID,
		Status:       types.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, resume_id, job_posting_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.ResumeID, run.JobPostingID, run.Status, run.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}
	return run, nil
}

// GetRun retrieves an analysis run by ID
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*types.AnalysisRun, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves runs newest first
func (db *DB) ListRuns(ctx context.Context, filter RunFilter) ([]types.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE 1 = 1`
	args := []interface{}{}
	argPos := 1

	if filter.ResumeID != nil {
		query += fmt.Sprintf(" AND resume_id = $%d", argPos)
		args = append(args, *filter.ResumeID)
		argPos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argPos)
	args = append(args, filter.limit())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := make([]types.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return runs, nil
}

// StartRun moves a pending run to processing. It returns ErrInvalidTransition
// when the run is no longer pending, which is how concurrent workers lose the race.
func (db *DB) StartRun(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs SET status = $2, started_at = $3
		 WHERE id = $1 AND status = $4`,
		id, types.StatusProcessing, startedAt, types.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to start analysis run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.transitionError(ctx, id)
	}
	return nil
}

// CompleteRun records the result of a processing run
func (db *DB) CompleteRun(ctx context.Context, id uuid.UUID, result *types.MatchResult, seconds float64, completedAt time.Time) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	scores := result.ComponentScores

	tag, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $2, result = $3, overall_score = $4, skills_score = $5,
		     experience_score = $6, education_score = $7, keywords_score = $8, ats_score = $9,
		     processing_time_seconds = $10, analysis_algorithm_version = $11,
		     nlp_model_version = $12, completed_at = $13, error_message = NULL
		 WHERE id = $1 AND status = $14`,
		id, types.StatusCompleted, resultJSON, result.OverallScore, scores.Skills,
		scores.Experience, scores.Education, scores.Keywords, scores.ATS,
		seconds, types.AlgorithmVersion, types.NLPModelVersion, completedAt, types.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to complete analysis run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.transitionError(ctx, id)
	}
	return nil
}

// FailRun records the error of a processing run. Scores are cleared.
func (db *DB) FailRun(ctx context.Context, id uuid.UUID, message string, completedAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $2, error_message = $3, result = NULL, overall_score = NULL,
		     skills_score = NULL, experience_score = NULL, education_score = NULL,
		     keywords_score = NULL, ats_score = NULL, completed_at = $4
		 WHERE id = $1 AND status = $5`,
		id, types.StatusFailed, message, completedAt, types.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to fail analysis run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.transitionError(ctx, id)
	}
	return nil
}

// transitionError tells a missing run apart from one in the wrong status
func (db *DB) transitionError(ctx context.Context, id uuid.UUID) error {
	if _, err := db.GetRun(ctx, id); err != nil {
		return err
	}
	return ErrInvalidTransition
}

func scanRun(row pgx.Row) (*types.AnalysisRun, error) {
	var run types.AnalysisRun
	var resultJSON []byte

	err := row.Scan(&run.ID, &run.ResumeID, &run.JobPostingID, &run.Status, &run.ErrorMessage,
		&resultJSON, &run.ProcessingTimeSeconds, &run.AlgorithmVersion, &run.NLPModelVersion,
		&run.CreatedAt, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		return nil, err
	}

	if len(resultJSON) > 0 {
		var result types.MatchResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		run.Result = &result
	}
	return &run, nil
}
