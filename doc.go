// Package tenor is the Composition Root for the Tenor annotation pipeline.
//
// It connects the domain (documents, labels and the Annotator capability in
// pkg/core) with the worker pool, the sentiment engines and the filesystem
// adapter.
//
// Philosophy:
//
// A document is split into paragraphs, every paragraph is annotated
// concurrently on a bounded pool, and the results are put back together in
// the original order. Documents themselves are processed one after another,
// so a run's output is always in input order no matter which paragraph
// finishes first.
//
// Features:
//
//   - **Order Preserving Pool**: results are placed by index, never by completion time.
//   - **Declared Concurrency**: engines say whether they are re-entrant; the rest are serialized or pooled per worker.
//   - **Failure Policies**: fail-fast aborts on the first bad document, isolate records it and moves on.
//   - **Pluggable Engines**: a built-in lexicon, a Stanford CoreNLP client, or canned fixtures.
//   - **Renderers**: JSON, YAML, Markdown, ANSI and summary tables.
//
// Usage:
//
//	runner, err := tenor.New(
//		tenor.WithWorkers(8),
//		tenor.WithPolicy(tenor.Isolate),
//		tenor.WithLogger(logger),
//	)
//
//	outcomes, err := runner.RunAll(ctx, docs)
package tenor
