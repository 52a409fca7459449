package tenor

import (
	"context"
	"log/slog"

	"github.com/aretw0/tenor/internal/platform"
	"github.com/aretw0/tenor/pkg/adapters/fs"
	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pipeline"
)

// --- Types ---

// Runner is a public alias for the pipeline runner.
type Runner = pipeline.Runner

// Config is a public alias for the file-backed configuration.
type Config = platform.Config

// Failure policies.
const (
	FailFast = core.FailFast
	Isolate  = core.Isolate
)

// Concurrency modes an engine can run under.
const (
	Reentrant  = core.Reentrant
	Serialized = core.Serialized
	PerWorker  = core.PerWorker
)

// --- Configuration ---

// Option defines a functional option for configuring Tenor.
type Option = platform.Option

// WithConfig replaces the whole configuration, e.g. one read by LoadConfig.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithWorkers sets the pool size. Zero means two more than the CPU count.
func WithWorkers(n int) Option {
	return platform.WithWorkers(n)
}

// WithPolicy selects what happens when a document fails.
func WithPolicy(p core.Policy) Option {
	return platform.WithPolicy(p)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAnnotator injects a custom sentiment engine.
func WithAnnotator(a core.Annotator) Option {
	return platform.WithAnnotator(a)
}

// WithAnnotatorKind selects a built-in engine by name.
func WithAnnotatorKind(kind string) Option {
	return platform.WithAnnotatorKind(kind)
}

// WithConcurrency overrides the concurrency mode of the engine.
func WithConcurrency(mode core.Concurrency) Option {
	return platform.WithConcurrency(mode)
}

// WithCoreNLPURL points the corenlp engine at a server.
func WithCoreNLPURL(url string) Option {
	return platform.WithCoreNLPURL(url)
}

// WithRateLimit caps engine calls per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return platform.WithRateLimit(perSecond, burst)
}

// WithInclude sets the glob used to pick files inside directories.
func WithInclude(pattern string) Option {
	return platform.WithInclude(pattern)
}

// --- Factory ---

// New creates a configured Runner.
func New(opts ...Option) (*Runner, error) {
	return platform.New(opts...)
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// NewLoader returns the filesystem document loader.
func NewLoader(logger *slog.Logger) core.Loader {
	return fs.NewLoader(logger)
}

// --- Operations ---

// Analyze collects, loads and annotates the documents under paths.
func Analyze(ctx context.Context, paths []string, opts ...Option) ([]core.Outcome, error) {
	outcomes, _, err := platform.Analyze(ctx, paths, opts...)
	return outcomes, err
}
