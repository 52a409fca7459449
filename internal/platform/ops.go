package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/tenor/pkg/adapters/fs"
	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pipeline"
	"github.com/aretw0/tenor/pkg/render"
)

// Analyze collects the input files under paths, then loads and annotates
// them in order. The runner is returned so callers can read its State after
// the run.
func Analyze(ctx context.Context, paths []string, opts ...Option) ([]core.Outcome, *pipeline.Runner, error) {
	o := apply(opts)
	runner, err := newRunner(o)
	if err != nil {
		return nil, nil, err
	}

	files, err := fs.Collect(paths, o.config.Include)
	if err != nil {
		return nil, runner, err
	}
	o.logger.Debug("inputs collected", "paths", len(paths), "files", len(files))

	outcomes, err := runner.RunPaths(ctx, files, fs.NewLoader(o.logger))
	return outcomes, runner, err
}

// Inspection is a loaded but unannotated document.
type Inspection struct {
	Path     string
	Document core.Document
	Err      error
}

// Inspect loads every input without annotating it. Load failures are
// reported per file; only a collection failure aborts.
func Inspect(ctx context.Context, paths []string, opts ...Option) ([]Inspection, error) {
	o := apply(opts)
	files, err := fs.Collect(paths, o.config.Include)
	if err != nil {
		return nil, err
	}

	loader := fs.NewLoader(o.logger)
	out := make([]Inspection, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := loader.Load(ctx, path)
		out = append(out, Inspection{Path: path, Document: doc, Err: err})
	}
	return out, nil
}

// Export renders each successful outcome on its own and writes it to dir as
// <stem>.<ext>. Failed outcomes are skipped. Paths are returned in outcome
// order.
func Export(ctx context.Context, outcomes []core.Outcome, r render.Renderer, dir string, opts ...Option) ([]string, error) {
	o := apply(opts)
	outputs := make([]fs.Output, 0, len(outcomes))
	for _, oc := range outcomes {
		if oc.Err != nil || oc.Document == nil {
			continue
		}
		data, err := r.Document(oc.Document)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", oc.ID, err)
		}
		outputs = append(outputs, fs.Output{ID: oc.ID, Data: data})
	}
	w := fs.NewWriter(dir, r.Extension(), fs.WithWriterLogger(o.logger))
	return w.WriteAll(ctx, outputs)
}
