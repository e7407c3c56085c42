// Package queue hands analysis runs to workers, either through an in-process
// pool or through RabbitMQ.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/observability"
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher queues runs for execution
type Dispatcher interface {
	Submit(ctx context.Context, runID uuid.UUID) error
}

// Handler executes one run. (*pipeline.Controller).Run satisfies it.
type Handler func(ctx context.Context, runID uuid.UUID) error

// PoolConfig configures a Pool
type PoolConfig struct {
	Workers  int
	Capacity int
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Default pool sizing
const (
	DefaultWorkers  = 4
	DefaultCapacity = 64
)

// Pool executes runs on a fixed number of goroutines. Each run id is accepted
// once; later submits of the same id are ignored.
type Pool struct {
	handler Handler
	logger  *zap.Logger
	metrics *observability.Metrics

	jobs  chan uuid.UUID
	group *errgroup.Group
	done  <-chan struct{}

	mu       sync.Mutex
	seen     map[uuid.UUID]bool
	closed   bool
	sending  sync.WaitGroup
	stopOnce sync.Once
}

// NewPool starts the workers. They stop when ctx is cancelled or Close is called.
func NewPool(ctx context.Context, handler Handler, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	g, gCtx := errgroup.WithContext(ctx)
	p := &Pool{
		handler: handler,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		jobs:    make(chan uuid.UUID, cfg.Capacity),
		group:   g,
		done:    gCtx.Done(),
		seen:    make(map[uuid.UUID]bool),
	}
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			p.work(gCtx, i)
			return nil
		})
	}
	return p
}

// Submit queues a run. It blocks while the queue is full.
func (p *Pool) Submit(ctx context.Context, runID uuid.UUID) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.seen[runID] {
		p.mu.Unlock()
		return nil
	}
	p.seen[runID] = true
	p.sending.Add(1)
	p.mu.Unlock()
	defer p.sending.Done()

	select {
	case p.jobs <- runID:
		p.metrics.SetQueueDepth(len(p.jobs))
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.seen, runID)
		p.mu.Unlock()
		return ctx.Err()
	}
}

// Close stops accepting runs and waits for queued and running ones to finish
func (p *Pool) Close() error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		p.sending.Wait()
		close(p.jobs)
	})
	return p.group.Wait()
}

func (p *Pool) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case runID, ok := <-p.jobs:
			if !ok {
				return
			}
			p.metrics.SetQueueDepth(len(p.jobs))
			if err := p.handler(ctx, runID); err != nil {
				p.logger.Error("run handler failed",
					zap.Int("worker", worker),
					zap.String("run_id", runID.String()),
					zap.Error(err))
			}
		}
	}
}
