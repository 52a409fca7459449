package core

import "context"

// Annotator maps one paragraph to its ordered, labelled sentences.
//
// Implementations are invoked concurrently by every pool worker for the whole
// run. An implementation must either be re-entrant or be wrapped by one of
// the guards in pkg/annotator before it is handed to the pipeline.
type Annotator interface {
	Annotate(ctx context.Context, paragraph string) ([]SentenceResult, error)
}

// AnnotatorFunc adapts a plain function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, paragraph string) ([]SentenceResult, error)

func (f AnnotatorFunc) Annotate(ctx context.Context, paragraph string) ([]SentenceResult, error) {
	return f(ctx, paragraph)
}

// Loader turns an input path into a segmented Document.
type Loader interface {
	Load(ctx context.Context, path string) (Document, error)
}

// Concurrency declares how an Annotator is kept safe under parallel calls.
type Concurrency string

const (
	// Reentrant engines are safe to call from many goroutines as-is.
	Reentrant Concurrency = "reentrant"
	// Serialized engines share one instance behind a mutex.
	Serialized Concurrency = "serialized"
	// PerWorker engines keep one exclusive instance per concurrent caller.
	PerWorker Concurrency = "per-worker"
)

// Policy decides what the runner does when a document fails.
type Policy string

const (
	// FailFast aborts the run on the first failing document.
	FailFast Policy = "fail-fast"
	// Isolate records the failure and continues with the next document.
	Isolate Policy = "isolate"
)
