package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/types"
)

// MemoryStore keeps records in process. It follows the same status rules as DB
// and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	resumes map[uuid.UUID]types.Resume
	jobs    map[uuid.UUID]types.JobPosting
	runs    map[uuid.UUID]types.AnalysisRun
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes: make(map[uuid.UUID]types.Resume),
		jobs:    make(map[uuid.UUID]types.JobPosting),
		runs:    make(map[uuid.UUID]types.AnalysisRun),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateResume stores a résumé. A nil ID is replaced with a new one.
func (m *MemoryStore) CreateResume(_ context.Context, r *types.Resume) (*types.Resume, error) {
	stored := *r
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = m.now()
	stored.UpdatedAt = stored.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[stored.ID] = stored
	return &stored, nil
}

// GetResume retrieves a résumé by ID
func (m *MemoryStore) GetResume(_ context.Context, id uuid.UUID) (*types.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// CreateJobPosting stores a job posting. A nil ID is replaced with a new one.
func (m *MemoryStore) CreateJobPosting(_ context.Context, j *types.JobPosting) (*types.JobPosting, error) {
	stored := *j
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = m.now()
	stored.UpdatedAt = stored.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[stored.ID] = stored
	return &stored, nil
}

// GetJobPosting retrieves a job posting by ID
func (m *MemoryStore) GetJobPosting(_ context.Context, id uuid.UUID) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

// CreateRun creates a pending analysis run
func (m *MemoryStore) CreateRun(_ context.Context, resumeID, jobPostingID uuid.UUID) (*types.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[resumeID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := m.jobs[jobPostingID]; !ok {
		return nil, ErrNotFound
	}

	run := types.AnalysisRun{
		ID:           uuid.New(),
		ResumeID:     resumeID,
		JobPostingID: jobPostingID,
		Status:       types.StatusPending,
		CreatedAt:    m.now(),
	}
	m.runs[run.ID] = run
	return &run, nil
}

// GetRun retrieves an analysis run by ID
func (m *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (*types.AnalysisRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &run, nil
}

// ListRuns retrieves runs newest first
func (m *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]types.AnalysisRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]types.AnalysisRun, 0)
	for _, run := range m.runs {
		if filter.ResumeID != nil && run.ResumeID != *filter.ResumeID {
			continue
		}
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID.String() < runs[j].ID.String()
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > filter.limit() {
		runs = runs[:filter.limit()]
	}
	return runs, nil
}

// StartRun moves a pending run to processing
func (m *MemoryStore) StartRun(_ context.Context, id uuid.UUID, startedAt time.Time) error {
	return m.transition(id, types.StatusPending, func(run *types.AnalysisRun) {
		run.Status = types.StatusProcessing
		run.StartedAt = &startedAt
	})
}

// CompleteRun records the result of a processing run
func (m *MemoryStore) CompleteRun(_ context.Context, id uuid.UUID, result *types.MatchResult, seconds float64, completedAt time.Time) error {
	return m.transition(id, types.StatusProcessing, func(run *types.AnalysisRun) {
		run.Status = types.StatusCompleted
		run.Result = result
		run.ErrorMessage = nil
		run.ProcessingTimeSeconds = &seconds
		run.AlgorithmVersion = types.AlgorithmVersion
		run.NLPModelVersion = types.NLPModelVersion
		run.CompletedAt = &completedAt
	})
}

// FailRun records the error of a processing run
func (m *MemoryStore) FailRun(_ context.Context, id uuid.UUID, message string, completedAt time.Time) error {
	return m.transition(id, types.StatusProcessing, func(run *types.AnalysisRun) {
		run.Status = types.StatusFailed
		run.Result = nil
		run.ErrorMessage = &message
		run.CompletedAt = &completedAt
	})
}

func (m *MemoryStore) transition(id uuid.UUID, from string, apply func(*types.AnalysisRun)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrNotFound
	}
	if run.Status != from {
		return ErrInvalidTransition
	}
	apply(&run)
	m.runs[id] = run
	return nil
}
