// Package pipeline turns segmented documents into annotated records.
//
// A Processor fans one document's paragraphs out to a shared pool and zips the
// ordered results back onto paragraph positions. A Runner owns the pool for a
// whole run and feeds it one document at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pool"
)

// Processor annotates single documents on a pool it does not own.
type Processor struct {
	pool      *pool.Pool
	annotator core.Annotator
	logger    *slog.Logger
}

// NewProcessor binds a pool and an annotator. The annotator must already be
// safe for concurrent use.
func NewProcessor(p *pool.Pool, a core.Annotator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{pool: p, annotator: a, logger: logger}
}

// Process submits one task per paragraph as a single batch and returns the
// complete annotated document, or nil and the first failure.
func (p *Processor) Process(ctx context.Context, doc core.Document) (*core.AnnotatedDocument, error) {
	tasks := make([]pool.Task[int], len(doc.Paragraphs))
	for i := range doc.Paragraphs {
		tasks[i] = pool.Task[int]{Index: i, Input: i}
	}

	results, err := pool.Run(ctx, p.pool, tasks, func(ctx context.Context, i int) ([]core.SentenceResult, error) {
		text := doc.Paragraphs[i]
		sentences, err := p.annotator.Annotate(ctx, text)
		if err != nil {
			var ae *core.AnnotationError
			if errors.As(err, &ae) {
				located := *ae
				located.Paragraph = i
				return nil, &located
			}
			return nil, fmt.Errorf("paragraph %d: %w", i, err)
		}
		if err := validate(i, text, sentences); err != nil {
			return nil, err
		}
		return append(make([]core.SentenceResult, 0, len(sentences)), sentences...), nil
	})
	if err != nil {
		return nil, err
	}

	out := &core.AnnotatedDocument{
		ID:         doc.ID,
		Metadata:   doc.Metadata.Clone(),
		Paragraphs: make([]core.Paragraph, len(results)),
	}
	for i, sentences := range results {
		out.Paragraphs[i] = core.Paragraph{Index: i, Sentences: sentences}
	}

	p.logger.Debug("document annotated",
		"document", doc.ID,
		"paragraphs", len(out.Paragraphs),
		"sentences", out.SentenceCount(),
	)
	return out, nil
}

func validate(paragraph int, text string, sentences []core.SentenceResult) error {
	if len(sentences) == 0 && strings.TrimSpace(text) != "" {
		return &core.AnnotationError{Paragraph: paragraph, Sentence: -1, Reason: "no sentences for non-empty paragraph"}
	}
	for j, s := range sentences {
		if s.Label == "" {
			return &core.AnnotationError{Paragraph: paragraph, Sentence: j, Reason: "missing label"}
		}
		if !s.Label.Valid() {
			return &core.AnnotationError{Paragraph: paragraph, Sentence: j, Reason: fmt.Sprintf("unknown label %q", s.Label)}
		}
	}
	return nil
}
