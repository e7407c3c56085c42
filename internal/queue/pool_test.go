package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/observability"
)

// recorder counts handler calls per run
type recorder struct {
	mu    sync.Mutex
	calls map[uuid.UUID]int
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[uuid.UUID]int)}
}

func (r *recorder) handle(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id]++
	return nil
}

func (r *recorder) count(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

func TestPool_ExecutesSubmittedRuns(t *testing.T) {
	rec := newRecorder()
	pool := NewPool(context.Background(), rec.handle, PoolConfig{Workers: 3})

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, pool.Submit(context.Background(), id))
	}
	require.NoError(t, pool.Close())

	for _, id := range ids {
		assert.Equal(t, 1, rec.count(id))
	}
}

func TestPool_SubmitIsSingleFlight(t *testing.T) {
	rec := newRecorder()
	pool := NewPool(context.Background(), rec.handle, PoolConfig{Workers: 2})
	id := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(context.Background(), id))
	}
	require.NoError(t, pool.Close())

	assert.Equal(t, 1, rec.count(id))
}

func TestPool_IgnoresResubmitAfterCompletion(t *testing.T) {
	done := make(chan struct{})
	rec := newRecorder()
	handler := func(ctx context.Context, id uuid.UUID) error {
		defer close(done)
		return rec.handle(ctx, id)
	}
	pool := NewPool(context.Background(), handler, PoolConfig{Workers: 1})
	id := uuid.New()

	require.NoError(t, pool.Submit(context.Background(), id))
	<-done
	require.NoError(t, pool.Submit(context.Background(), id))
	require.NoError(t, pool.Close())

	assert.Equal(t, 1, rec.count(id))
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(context.Background(), newRecorder().handle, PoolConfig{})
	require.NoError(t, pool.Close())

	err := pool.Submit(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, pool.Close(), "close is idempotent")
}

func TestPool_CancelledSubmitCanBeRetried(t *testing.T) {
	started := make(chan struct{}, 3)
	release := make(chan struct{})
	rec := newRecorder()
	handler := func(ctx context.Context, id uuid.UUID) error {
		started <- struct{}{}
		<-release
		return rec.handle(ctx, id)
	}
	pool := NewPool(context.Background(), handler, PoolConfig{Workers: 1, Capacity: 1})

	first, second, third := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, pool.Submit(context.Background(), first))
	<-started
	require.NoError(t, pool.Submit(context.Background(), second))

	// The queue is full, so the submit gives up with its context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pool.Submit(ctx, third), context.Canceled)

	close(release)
	require.NoError(t, pool.Submit(context.Background(), third))
	require.NoError(t, pool.Close())

	assert.Equal(t, 1, rec.count(first))
	assert.Equal(t, 1, rec.count(second))
	assert.Equal(t, 1, rec.count(third))
}

func TestPool_HandlerErrorsDoNotStopWorkers(t *testing.T) {
	failing := uuid.New()
	rec := newRecorder()
	handler := func(ctx context.Context, id uuid.UUID) error {
		if id == failing {
			return errors.New("store unavailable")
		}
		return rec.handle(ctx, id)
	}
	pool := NewPool(context.Background(), handler, PoolConfig{Workers: 1})

	other := uuid.New()
	require.NoError(t, pool.Submit(context.Background(), failing))
	require.NoError(t, pool.Submit(context.Background(), other))
	require.NoError(t, pool.Close())

	assert.Equal(t, 1, rec.count(other))
}

func TestPool_ReportsQueueDepth(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	pool := NewPool(context.Background(), newRecorder().handle, PoolConfig{Metrics: metrics})

	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(context.Background(), uuid.New()))
	}
	require.NoError(t, pool.Close())

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.QueueDepth))
}
