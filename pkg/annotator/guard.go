// Package annotator provides sentiment engines and the wrappers that make
// them safe to share across pool workers.
//
// Engines that are re-entrant (Lexicon, CoreNLP, Static) can be handed to the
// pipeline directly. Anything else goes through Guard, which either serializes
// calls on one instance or keeps a pool of exclusive instances.
package annotator

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tenor/pkg/core"
)

// Factory builds a fresh engine instance.
type Factory func() (core.Annotator, error)

// Declarer is implemented by engines that know their own concurrency mode.
type Declarer interface {
	Concurrency() core.Concurrency
}

// Guard builds an annotator from factory that is safe under concurrent calls.
// n is the number of instances kept in PerWorker mode and is ignored otherwise.
func Guard(factory Factory, mode core.Concurrency, n int) (core.Annotator, error) {
	switch mode {
	case core.Reentrant, "":
		a, err := factory()
		if err != nil {
			return nil, err
		}
		return a, nil
	case core.Serialized:
		a, err := factory()
		if err != nil {
			return nil, err
		}
		return Serialize(a), nil
	case core.PerWorker:
		return NewInstancePool(n, factory)
	default:
		return nil, fmt.Errorf("unknown concurrency mode %q", mode)
	}
}

type serialized struct {
	mu    sync.Mutex
	inner core.Annotator
}

// Serialize wraps a so that at most one call runs at a time.
func Serialize(a core.Annotator) core.Annotator {
	return &serialized{inner: a}
}

func (s *serialized) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Annotate(ctx, paragraph)
}

func (s *serialized) Concurrency() core.Concurrency { return core.Serialized }

// InstancePool lends each call an engine instance no other call is using.
type InstancePool struct {
	instances chan core.Annotator
	size      int
}

// NewInstancePool builds n instances up front. n below 1 builds one.
func NewInstancePool(n int, factory Factory) (*InstancePool, error) {
	if n < 1 {
		n = 1
	}
	p := &InstancePool{instances: make(chan core.Annotator, n), size: n}
	for i := 0; i < n; i++ {
		a, err := factory()
		if err != nil {
			return nil, fmt.Errorf("build instance %d: %w", i, err)
		}
		p.instances <- a
	}
	return p, nil
}

// Size returns the number of instances.
func (p *InstancePool) Size() int { return p.size }

// Annotate borrows an instance, waiting for one to be returned if all are busy.
func (p *InstancePool) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	var a core.Annotator
	select {
	case a = <-p.instances:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { p.instances <- a }()
	return a.Annotate(ctx, paragraph)
}

func (p *InstancePool) Concurrency() core.Concurrency { return core.PerWorker }
