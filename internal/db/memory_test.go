package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/types"
)

func seedMemory(t *testing.T) (*MemoryStore, *types.Resume, *types.JobPosting) {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()

	resume, err := store.CreateResume(ctx, &types.Resume{FullName: "Jane Doe"})
	require.NoError(t, err)
	job, err := store.CreateJobPosting(ctx, &types.JobPosting{Title: "Engineer", Company: "Acme", Description: "Build things"})
	require.NoError(t, err)
	return store, resume, job
}

func TestMemoryStore_RecordsRoundTrip(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()

	assert.NotEqual(t, uuid.Nil, resume.ID)
	assert.False(t, resume.CreatedAt.IsZero())

	gotResume, err := store.GetResume(ctx, resume.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", gotResume.FullName)

	gotJob, err := store.GetJobPosting(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", gotJob.Company)

	_, err = store.GetResume(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetJobPosting(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_KeepsGivenID(t *testing.T) {
	store := NewMemoryStore()
	id := uuid.New()

	resume, err := store.CreateResume(context.Background(), &types.Resume{ID: id, FullName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, id, resume.ID)
}

func TestMemoryStore_RunLifecycle(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	run, err := store.CreateRun(ctx, resume.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, run.Status)

	// Only a processing run may finish
	assert.ErrorIs(t, store.CompleteRun(ctx, run.ID, &types.MatchResult{}, 1, now), ErrInvalidTransition)

	require.NoError(t, store.StartRun(ctx, run.ID, now))
	assert.ErrorIs(t, store.StartRun(ctx, run.ID, now), ErrInvalidTransition)

	result := &types.MatchResult{OverallScore: 72.5}
	require.NoError(t, store.CompleteRun(ctx, run.ID, result, 0.25, now.Add(time.Second)))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Status)
	assert.Equal(t, 72.5, got.Result.OverallScore)
	require.NotNil(t, got.ProcessingTimeSeconds)
	assert.Equal(t, 0.25, *got.ProcessingTimeSeconds)
	assert.Equal(t, types.AlgorithmVersion, got.AlgorithmVersion)
	assert.Equal(t, types.NLPModelVersion, got.NLPModelVersion)
	assert.Nil(t, got.ErrorMessage)

	// Terminal runs never change again
	assert.ErrorIs(t, store.FailRun(ctx, run.ID, "late", now), ErrInvalidTransition)
	assert.ErrorIs(t, store.StartRun(ctx, run.ID, now), ErrInvalidTransition)
}

func TestMemoryStore_FailRun(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()
	now := time.Now()

	run, err := store.CreateRun(ctx, resume.ID, job.ID)
	require.NoError(t, err)
	require.NoError(t, store.StartRun(ctx, run.ID, now))
	require.NoError(t, store.FailRun(ctx, run.ID, "scoring error: job facets are required", now))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, got.Status)
	assert.Nil(t, got.Result)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "scoring error: job facets are required", *got.ErrorMessage)
}

func TestMemoryStore_CreateRunRequiresRecords(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()

	_, err := store.CreateRun(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.CreateRun(ctx, resume.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.StartRun(ctx, uuid.New(), time.Now()), ErrNotFound)
}

func TestMemoryStore_ListRuns(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	other, err := store.CreateResume(ctx, &types.Resume{FullName: "John Roe"})
	require.NoError(t, err)

	first, err := store.CreateRun(ctx, resume.ID, job.ID)
	require.NoError(t, err)
	second, err := store.CreateRun(ctx, resume.ID, job.ID)
	require.NoError(t, err)
	_, err = store.CreateRun(ctx, other.ID, job.ID)
	require.NoError(t, err)
	require.NoError(t, store.StartRun(ctx, first.ID, time.Now()))

	runs, err := store.ListRuns(ctx, RunFilter{ResumeID: &resume.ID})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest first")
	assert.Equal(t, first.ID, runs[1].ID)

	runs, err = store.ListRuns(ctx, RunFilter{Status: types.StatusProcessing})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, first.ID, runs[0].ID)

	runs, err = store.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestMemoryStore_SingleWinnerOnStart(t *testing.T) {
	store, resume, job := seedMemory(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, resume.ID, job.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.StartRun(ctx, run.ID, time.Now()) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestRunFilter_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, RunFilter{}.limit())
	assert.Equal(t, 5, RunFilter{Limit: 5}.limit())
}
