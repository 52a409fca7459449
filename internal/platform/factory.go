package platform

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/tenor/pkg/annotator"
	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pipeline"
	"github.com/aretw0/tenor/pkg/pool"
)

// New builds a Runner from the options.
//
//	runner, err := platform.New(platform.WithWorkers(4), platform.WithPolicy(core.Isolate))
//
// The configuration is validated before anything is constructed.
func New(opts ...Option) (*pipeline.Runner, error) {
	o := apply(opts)
	return newRunner(o)
}

func newRunner(o *options) (*pipeline.Runner, error) {
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	a, err := NewAnnotator(o.config.Annotator, o.config.Workers, o.annotator)
	if err != nil {
		return nil, err
	}

	runnerOpts := []pipeline.Option{
		pipeline.WithWorkers(o.config.Workers),
		pipeline.WithPolicy(core.Policy(o.config.Policy)),
		pipeline.WithLogger(o.logger),
	}
	if o.config.Queue > 0 {
		runnerOpts = append(runnerOpts, pipeline.WithPoolOptions(pool.WithQueue(o.config.Queue)))
	}
	return pipeline.NewRunner(a, runnerOpts...), nil
}

// NewAnnotator builds the engine described by cfg, wraps it in the guard its
// concurrency mode asks for, then applies the rate limit.
//
// If injected is not nil it replaces the configured kind. An injected engine
// is a single instance, so it cannot run in per-worker mode.
func NewAnnotator(cfg AnnotatorConfig, workers int, injected core.Annotator) (core.Annotator, error) {
	var factory annotator.Factory
	if injected != nil {
		factory = func() (core.Annotator, error) { return injected, nil }
	} else {
		f, err := engineFactory(cfg)
		if err != nil {
			return nil, err
		}
		factory = f
	}

	mode := core.Concurrency(cfg.Concurrency)
	if mode == "" {
		mode = core.Reentrant
		if d, ok := injected.(annotator.Declarer); ok {
			mode = d.Concurrency()
		} else if injected != nil {
			// An engine that says nothing about itself is not trusted.
			mode = core.Serialized
		}
	}
	if mode == core.PerWorker && injected != nil {
		return nil, errors.New("per-worker mode needs an engine factory, an injected annotator is a single instance")
	}

	n := workers
	if n < 1 {
		n = pool.DefaultSize()
	}
	a, err := annotator.Guard(factory, mode, n)
	if err != nil {
		return nil, fmt.Errorf("annotator %s: %w", cfg.Kind, err)
	}
	return annotator.RateLimit(a, cfg.Rate, cfg.Burst), nil
}

func engineFactory(cfg AnnotatorConfig) (annotator.Factory, error) {
	switch cfg.Kind {
	case KindLexicon, "":
		if cfg.Lexicon == "" {
			return func() (core.Annotator, error) { return annotator.NewLexicon(), nil }, nil
		}
		return func() (core.Annotator, error) {
			f, err := os.Open(cfg.Lexicon)
			if err != nil {
				return nil, fmt.Errorf("open lexicon: %w", err)
			}
			defer f.Close()
			return annotator.LoadLexicon(f)
		}, nil
	case KindCoreNLP:
		return func() (core.Annotator, error) {
			var opts []annotator.CoreNLPOption
			if cfg.Timeout > 0 {
				opts = append(opts, annotator.WithTimeout(cfg.Timeout))
			}
			return annotator.NewCoreNLP(cfg.URL, opts...)
		}, nil
	case KindStatic:
		return func() (core.Annotator, error) {
			f, err := os.Open(cfg.Fixtures)
			if err != nil {
				return nil, fmt.Errorf("open fixtures: %w", err)
			}
			defer f.Close()
			return annotator.LoadStatic(f)
		}, nil
	default:
		return nil, fmt.Errorf("unknown annotator kind %q", cfg.Kind)
	}
}
