// Package pool runs ordered batches of tasks on a fixed set of long-lived workers.
//
// A Pool is built once and shared by every batch submitted during its
// lifetime. Run blocks the caller until the whole batch has completed and
// returns results in submission order, whatever order the workers finish in.
package pool

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/tenor/pkg/core"
)

// ErrClosed is returned (wrapped in a core.PoolError) when a batch is
// submitted after Close.
var ErrClosed = errors.New("pool closed")

// Task is one unit of a batch. Index is the task's position in its batch.
type Task[T any] struct {
	Index int
	Input T
}

// Pool is a fixed-size set of workers fed from a single FIFO dispatch queue.
type Pool struct {
	size   int
	queue  int
	logger *slog.Logger

	jobs    chan func()
	workers sync.WaitGroup

	mu     sync.RWMutex
	closed atomic.Bool

	running   atomic.Int64
	peak      atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
	batches   atomic.Uint64
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for worker and task diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithQueue sets the dispatch queue buffer. Zero makes dispatch a direct
// hand-off to an idle worker.
func WithQueue(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.queue = n
		}
	}
}

// DefaultSize is two more than the number of usable CPUs.
func DefaultSize() int {
	return runtime.NumCPU() + 2
}

// New starts size workers. A size below 1 selects DefaultSize.
func New(size int, opts ...Option) *Pool {
	if size < 1 {
		size = DefaultSize()
	}
	p := &Pool{
		size:   size,
		queue:  size,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "pool"))
	p.jobs = make(chan func(), p.queue)

	p.workers.Add(size)
	for i := 0; i < size; i++ {
		id := i
		lifecycle.Go(context.Background(), func(ctx context.Context) error {
			defer p.workers.Done()
			for job := range p.jobs {
				job()
			}
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			p.logger.Error("worker stopped", "worker", id, "error", err)
		}))
	}
	p.logger.Debug("pool started", "size", size, "queue", p.queue)
	return p
}

// Size returns the fixed number of workers.
func (p *Pool) Size() int { return p.size }

// Close stops accepting batches, lets queued work drain and joins every
// worker. It is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return nil
	}
	p.closed.Store(true)
	close(p.jobs)
	p.mu.Unlock()

	p.workers.Wait()
	p.logger.Debug("pool closed",
		"completed", p.completed.Load(),
		"failed", p.failed.Load(),
		"peak", p.peak.Load(),
	)
	return nil
}

// Run executes tasks on p and returns one result per task, in task order.
//
// The first failing task cancels the batch: tasks still queued are skipped,
// tasks already running finish and their results are discarded, and that
// first error is returned. A task that panics fails with a core.PoolError.
// fn must not submit work to the same pool.
func Run[T, R any](ctx context.Context, p *Pool, tasks []Task[T], fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	p.mu.RLock()
	if p.closed.Load() {
		p.mu.RUnlock()
		return nil, &core.PoolError{Index: -1, Err: ErrClosed}
	}
	p.batches.Add(1)
	p.logger.Debug("batch dispatch", "tasks", len(tasks))

dispatch:
	for i := range tasks {
		slot := i
		task := tasks[i]
		wg.Add(1)
		job := func() {
			defer wg.Done()
			if batchCtx.Err() != nil {
				return
			}
			r, err := execute(batchCtx, p, task, fn)
			if err != nil {
				fail(err)
				return
			}
			results[slot] = r
		}
		select {
		case p.jobs <- job:
		case <-batchCtx.Done():
			wg.Done()
			break dispatch
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func execute[T, R any](ctx context.Context, p *Pool, task Task[T], fn func(context.Context, T) (R, error)) (r R, err error) {
	p.trackPeak(p.running.Add(1))
	defer func() {
		p.running.Add(-1)
		if v := recover(); v != nil {
			var zero R
			r = zero
			err = &core.PoolError{Index: task.Index, Panic: v}
			if p.logger.Enabled(ctx, slog.LevelDebug) {
				p.logger.Error("task panicked", "index", task.Index, "panic", v, "stack", string(debug.Stack()))
			} else {
				p.logger.Error("task panicked", "index", task.Index, "panic", v)
			}
		}
		if err != nil {
			p.failed.Add(1)
		} else {
			p.completed.Add(1)
		}
	}()
	return fn(ctx, task.Input)
}

func (p *Pool) trackPeak(n int64) {
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			return
		}
	}
}
