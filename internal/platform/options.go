package platform

import (
	"log/slog"

	"github.com/aretw0/tenor/pkg/core"
)

// options holds the internal configuration for a tenor run.
type options struct {
	config    Config
	logger    *slog.Logger
	annotator core.Annotator
}

// Option defines a functional option for configuring tenor.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: DefaultConfig(),
		logger: nil,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithConfig replaces the whole configuration, typically one read by
// LoadConfig. Options given after it still override single fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithWorkers sets the pool size. Zero means two more than the CPU count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.config.Workers = n
	}
}

// WithQueue sets the pool's pending task buffer.
func WithQueue(n int) Option {
	return func(o *options) {
		o.config.Queue = n
	}
}

// WithPolicy selects what happens when a document fails.
func WithPolicy(p core.Policy) Option {
	return func(o *options) {
		o.config.Policy = string(p)
	}
}

// WithInclude sets the doublestar pattern used when walking directories.
func WithInclude(pattern string) Option {
	return func(o *options) {
		o.config.Include = pattern
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAnnotator injects a ready engine (e.g. a model binding or a mock).
// If provided, the configured annotator kind is ignored, but the concurrency
// guard and rate limit still apply.
func WithAnnotator(a core.Annotator) Option {
	return func(o *options) {
		o.annotator = a
	}
}

// WithAnnotatorKind selects a built-in engine by name ("lexicon", "corenlp",
// "static").
func WithAnnotatorKind(kind string) Option {
	return func(o *options) {
		o.config.Annotator.Kind = kind
	}
}

// WithConcurrency overrides the concurrency mode an engine declares.
func WithConcurrency(mode core.Concurrency) Option {
	return func(o *options) {
		o.config.Annotator.Concurrency = string(mode)
	}
}

// WithCoreNLPURL points the corenlp engine at a server.
func WithCoreNLPURL(url string) Option {
	return func(o *options) {
		o.config.Annotator.URL = url
	}
}

// WithRateLimit caps engine calls per second, shared by all workers.
// A non-positive rate disables the limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.config.Annotator.Rate = perSecond
		o.config.Annotator.Burst = burst
	}
}
