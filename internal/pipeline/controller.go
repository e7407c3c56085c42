package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/types"
)

// RunStore is the persistence the controller needs. *db.DB and
// *db.MemoryStore implement it.
type RunStore interface {
	GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error)
	GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error)
	CreateRun(ctx context.Context, resumeID, jobPostingID uuid.UUID) (*types.AnalysisRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*types.AnalysisRun, error)
	StartRun(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	CompleteRun(ctx context.Context, id uuid.UUID, result *types.MatchResult, seconds float64, completedAt time.Time) error
	FailRun(ctx context.Context, id uuid.UUID, message string, completedAt time.Time) error
}

// Controller moves analysis runs through pending, processing and a terminal
// status. At most one Run call executes a given run.
type Controller struct {
	store    RunStore
	pipeline *Pipeline
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewController creates a Controller. Logger and metrics may be nil.
func NewController(store RunStore, pipeline *Pipeline, logger *zap.Logger, metrics *observability.Metrics) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:    store,
		pipeline: pipeline,
		logger:   logger,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a pending run for a stored résumé and job posting
func (c *Controller) Create(ctx context.Context, resumeID, jobPostingID uuid.UUID) (*types.AnalysisRun, error) {
	if _, err := c.store.GetResume(ctx, resumeID); err != nil {
		return nil, fmt.Errorf("failed to load resume %s: %w", resumeID, err)
	}
	if _, err := c.store.GetJobPosting(ctx, jobPostingID); err != nil {
		return nil, fmt.Errorf("failed to load job posting %s: %w", jobPostingID, err)
	}

	run, err := c.store.CreateRun(ctx, resumeID, jobPostingID)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}
	c.metrics.RecordRunCreated()
	c.logger.Info("analysis run created",
		zap.String("run_id", run.ID.String()),
		zap.String("resume_id", resumeID.String()),
		zap.String("job_posting_id", jobPostingID.String()))
	return run, nil
}

// Run executes a pending run. A run that is not pending, or that another
// worker started first, is left alone. Analysis failures and panics are
// recorded on the run; the returned error only reports a run that could not
// be loaded or saved.
func (c *Controller) Run(ctx context.Context, runID uuid.UUID) error {
	logger := c.logger.With(zap.String("run_id", runID.String()))

	run, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load analysis run %s: %w", runID, err)
	}
	if run.Status != types.StatusPending {
		logger.Debug("skipping run that is not pending", zap.String("status", run.Status))
		return nil
	}

	started := c.now()
	if err := c.store.StartRun(ctx, runID, started); err != nil {
		if errors.Is(err, db.ErrInvalidTransition) {
			logger.Debug("run was started by another worker")
			return nil
		}
		return fmt.Errorf("failed to start analysis run %s: %w", runID, err)
	}
	logger.Info("analysis run started")

	result, analyzeErr := c.execute(ctx, run)
	finished := c.now()
	seconds := finished.Sub(started).Seconds()

	// The outcome is saved even when ctx was cancelled mid-analysis
	saveCtx := context.WithoutCancel(ctx)

	if analyzeErr != nil {
		c.metrics.RecordRunFinished(false, seconds)
		logger.Warn("analysis run failed", zap.Error(analyzeErr))
		if err := c.store.FailRun(saveCtx, runID, analyzeErr.Error(), finished); err != nil {
			return fmt.Errorf("failed to record failure of analysis run %s: %w", runID, err)
		}
		return nil
	}

	if err := c.store.CompleteRun(saveCtx, runID, result, seconds, finished); err != nil {
		return fmt.Errorf("failed to record result of analysis run %s: %w", runID, err)
	}
	c.metrics.RecordRunFinished(true, seconds)
	logger.Info("analysis run completed",
		zap.Float64("overall_score", result.OverallScore),
		zap.Float64("seconds", seconds))
	return nil
}

// execute loads the records and analyzes them, turning a panic into an error
func (c *Controller) execute(ctx context.Context, run *types.AnalysisRun) (result *types.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("analysis panicked: %v", r)
		}
	}()

	resume, err := c.store.GetResume(ctx, run.ResumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume %s: %w", run.ResumeID, err)
	}
	job, err := c.store.GetJobPosting(ctx, run.JobPostingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting %s: %w", run.JobPostingID, err)
	}

	analysis, err := c.pipeline.Analyze(ctx, resume, job)
	if err != nil {
		return nil, err
	}
	return analysis.Result, nil
}
