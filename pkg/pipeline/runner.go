package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pool"
)

// Runner drives a sequence of documents through one pool and one annotator.
// Documents are processed one at a time; parallelism happens only across the
// paragraphs of the current document.
type Runner struct {
	annotator core.Annotator
	workers   int
	policy    core.Policy
	logger    *slog.Logger
	poolOpts  []pool.Option

	mu       sync.RWMutex
	active   []*pool.Pool
	lastPool *pool.State
	stats    RunStats
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the pool size. Values below 1 select pool.DefaultSize.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithPolicy selects fail-fast or isolate handling of failed documents.
func WithPolicy(p core.Policy) Option {
	return func(r *Runner) {
		if p != "" {
			r.policy = p
		}
	}
}

// WithLogger sets the logger. The pool inherits it.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPoolOptions forwards options to every pool the runner builds.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(r *Runner) {
		r.poolOpts = append(r.poolOpts, opts...)
	}
}

// NewRunner creates a Runner around an annotator that is already safe for
// concurrent use.
func NewRunner(a core.Annotator, opts ...Option) *Runner {
	r := &Runner{
		annotator: a,
		policy:    core.FailFast,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("component", "runner"))
	return r
}

// Policy returns the configured failure policy.
func (r *Runner) Policy() core.Policy { return r.policy }

// RunAll annotates docs in order.
//
// Under fail-fast the first failing document aborts the run and RunAll returns
// nil and that error. Under isolate every document gets an Outcome, failures
// carry their error, and the returned error is nil unless ctx was cancelled.
func (r *Runner) RunAll(ctx context.Context, docs []core.Document) ([]core.Outcome, error) {
	return r.run(ctx, len(docs), func(ctx context.Context, i int) (string, core.Document, error) {
		return docs[i].ID, docs[i], nil
	})
}

// RunPaths loads each path with loader and annotates it. A load failure such
// as a core.ParseError is a failure of that document only.
func (r *Runner) RunPaths(ctx context.Context, paths []string, loader core.Loader) ([]core.Outcome, error) {
	return r.run(ctx, len(paths), func(ctx context.Context, i int) (string, core.Document, error) {
		doc, err := loader.Load(ctx, paths[i])
		if err != nil {
			return paths[i], core.Document{}, err
		}
		return doc.ID, doc, nil
	})
}

type source func(ctx context.Context, i int) (id string, doc core.Document, err error)

func (r *Runner) run(ctx context.Context, n int, next source) ([]core.Outcome, error) {
	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))

	opts := append([]pool.Option{pool.WithLogger(logger)}, r.poolOpts...)
	p := pool.New(r.workers, opts...)
	r.begin(runID, p)
	defer func() {
		_ = p.Close()
		r.end(p)
	}()

	logger.Info("run started", "documents", n, "workers", p.Size(), "policy", r.policy)
	start := time.Now()
	proc := NewProcessor(p, r.annotator, logger)

	outcomes := make([]core.Outcome, 0, n)
	failed := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "processed", i)
			return nil, err
		}

		id, doc, err := next(ctx, i)
		var annotated *core.AnnotatedDocument
		if err == nil {
			annotated, err = proc.Process(ctx, doc)
		}
		r.record(err)

		if err != nil {
			if r.policy != core.Isolate || ctx.Err() != nil {
				logger.Error("run aborted", "document", id, "error", err)
				return nil, fmt.Errorf("process %s: %w", id, err)
			}
			failed++
			logger.Warn("document failed", "document", id, "error", err)
			outcomes = append(outcomes, core.Outcome{ID: id, Err: err})
			continue
		}

		logger.Info("document processed",
			"document", id,
			"paragraphs", len(annotated.Paragraphs),
			"sentences", annotated.SentenceCount(),
		)
		outcomes = append(outcomes, core.Outcome{ID: id, Document: annotated})
	}

	logger.Info("run finished",
		"documents", n,
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return outcomes, nil
}

func (r *Runner) begin(runID string, p *pool.Pool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, p)
	r.stats.Runs++
	r.stats.RunID = runID
}

// end retires p, the pool of one finished run. Other runs on the same
// Runner may still be active.
func (r *Runner) end(p *pool.Pool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last := p.Stats()
	r.lastPool = &last
	for i, a := range r.active {
		if a == p {
			r.active = append(r.active[:i], r.active[i+1:]...)
			break
		}
	}
}

func (r *Runner) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.stats.Failed++
		return
	}
	r.stats.Processed++
}
