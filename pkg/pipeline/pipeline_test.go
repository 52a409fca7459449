package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tenor/pkg/core"
	"github.com/aretw0/tenor/pkg/pool"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestProcessor(t *testing.T, size int, a core.Annotator) *Processor {
	t.Helper()
	p := pool.New(size, pool.WithLogger(discard))
	t.Cleanup(func() { _ = p.Close() })
	return NewProcessor(p, a, discard)
}

// echo labels every paragraph as a single Neutral sentence.
var echo = core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	return []core.SentenceResult{{Text: paragraph, Label: core.Neutral}}, nil
})

func TestProcess_TwoParagraphScenario(t *testing.T) {
	canned := map[string][]core.SentenceResult{
		"Hello world. Good day.": {
			{Text: "Hello world.", Label: core.Positive},
			{Text: "Good day.", Label: core.Neutral},
		},
		"Second para.": {
			{Text: "Second para.", Label: core.Positive},
		},
	}
	var order []string
	orderCh := make(chan string, 2)
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		// The first paragraph is held back until the second has finished.
		if paragraph == "Hello world. Good day." {
			time.Sleep(30 * time.Millisecond)
		}
		orderCh <- paragraph
		return canned[paragraph], nil
	})

	proc := newTestProcessor(t, 2, a)
	doc := core.Document{
		ID:         "1863-gettysburg.txt",
		Metadata:   core.Metadata{"identifier": "1863"},
		Paragraphs: []string{"Hello world. Good day.", "Second para."},
	}

	got, err := proc.Process(context.Background(), doc)
	require.NoError(t, err)
	close(orderCh)
	for p := range orderCh {
		order = append(order, p)
	}
	assert.Equal(t, []string{"Second para.", "Hello world. Good day."}, order, "paragraph 2 should complete first")

	want := &core.AnnotatedDocument{
		ID:       "1863-gettysburg.txt",
		Metadata: core.Metadata{"identifier": "1863"},
		Paragraphs: []core.Paragraph{
			{Index: 0, Sentences: []core.SentenceResult{
				{Text: "Hello world.", Label: core.Positive},
				{Text: "Good day.", Label: core.Neutral},
			}},
			{Index: 1, Sentences: []core.SentenceResult{
				{Text: "Second para.", Label: core.Positive},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Process() mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_ParagraphCountInvariant(t *testing.T) {
	proc := newTestProcessor(t, 3, echo)
	for _, n := range []int{0, 1, 5, 40} {
		t.Run(fmt.Sprintf("P=%d", n), func(t *testing.T) {
			paras := make([]string, n)
			for i := range paras {
				paras[i] = fmt.Sprintf("paragraph %d", i)
			}
			got, err := proc.Process(context.Background(), core.Document{ID: "doc", Paragraphs: paras})
			require.NoError(t, err)
			require.Len(t, got.Paragraphs, n)
			for i, p := range got.Paragraphs {
				assert.Equal(t, i, p.Index)
				assert.Equal(t, paras[i], p.Sentences[0].Text)
			}
		})
	}
}

func TestProcess_FailFastNoPartialDocument(t *testing.T) {
	boom := errors.New("engine exploded")
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		if paragraph == "p3" {
			return nil, boom
		}
		return []core.SentenceResult{{Text: paragraph, Label: core.Positive}}, nil
	})
	proc := newTestProcessor(t, 2, a)

	got, err := proc.Process(context.Background(), core.Document{
		ID:         "doc",
		Paragraphs: []string{"p0", "p1", "p2", "p3", "p4", "p5"},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "paragraph 3")
	assert.Nil(t, got)
}

func TestProcess_MalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		result []core.SentenceResult
		reason string
	}{
		{"missing label", []core.SentenceResult{{Text: "A."}}, "missing label"},
		{"unknown label", []core.SentenceResult{{Text: "A.", Label: "Ecstatic"}}, `unknown label "Ecstatic"`},
		{"no sentences", nil, "no sentences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
				return tt.result, nil
			})
			proc := newTestProcessor(t, 2, a)

			got, err := proc.Process(context.Background(), core.Document{ID: "doc", Paragraphs: []string{"A."}})
			require.ErrorIs(t, err, core.ErrAnnotation)
			assert.Contains(t, err.Error(), tt.reason)
			assert.Nil(t, got)

			var ae *core.AnnotationError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, 0, ae.Paragraph)
		})
	}
}

func TestProcess_BlankParagraphMayBeEmpty(t *testing.T) {
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		return nil, nil
	})
	proc := newTestProcessor(t, 1, a)

	got, err := proc.Process(context.Background(), core.Document{ID: "doc", Paragraphs: []string{"   "}})
	require.NoError(t, err)
	require.Len(t, got.Paragraphs, 1)
	assert.NotNil(t, got.Paragraphs[0].Sentences)
	assert.Empty(t, got.Paragraphs[0].Sentences)
}

func TestProcess_DoesNotAliasInputs(t *testing.T) {
	shared := []core.SentenceResult{{Text: "Shared.", Label: core.Negative}}
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		return shared, nil
	})
	proc := newTestProcessor(t, 2, a)
	meta := core.Metadata{"name": "inaugural"}

	got, err := proc.Process(context.Background(), core.Document{ID: "doc", Metadata: meta, Paragraphs: []string{"x"}})
	require.NoError(t, err)

	meta["name"] = "changed"
	shared[0].Label = core.Positive
	assert.Equal(t, "inaugural", got.Metadata["name"])
	assert.Equal(t, core.Negative, got.Paragraphs[0].Sentences[0].Label)
}

func TestProcess_Idempotent(t *testing.T) {
	proc := newTestProcessor(t, 4, echo)
	doc := core.Document{ID: "doc", Paragraphs: []string{"a", "b", "c"}}

	first, err := proc.Process(context.Background(), doc)
	require.NoError(t, err)
	second, err := proc.Process(context.Background(), doc)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Process() differs (-first +second):\n%s", diff)
	}
}

func docs(ids ...string) []core.Document {
	out := make([]core.Document, len(ids))
	for i, id := range ids {
		out[i] = core.Document{ID: id, Paragraphs: []string{id + " one", id + " two"}}
	}
	return out
}

func TestRunAll_PreservesDocumentOrder(t *testing.T) {
	r := NewRunner(echo, WithWorkers(3), WithLogger(discard))
	outcomes, err := r.RunAll(context.Background(), docs("c", "a", "b"))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for i, id := range []string{"c", "a", "b"} {
		assert.Equal(t, id, outcomes[i].ID)
		require.NoError(t, outcomes[i].Err)
		assert.Equal(t, id+" one", outcomes[i].Document.Paragraphs[0].Sentences[0].Text)
	}
}

func failOn(id string) core.Annotator {
	return core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		if strings.HasPrefix(paragraph, id+" ") {
			return []core.SentenceResult{{Text: paragraph, Label: "???"}}, nil
		}
		return echo(ctx, paragraph)
	})
}

func TestRunAll_FailFast(t *testing.T) {
	var calls atomic.Int64
	inner := failOn("b")
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		calls.Add(1)
		return inner.Annotate(ctx, paragraph)
	})
	r := NewRunner(a, WithWorkers(2), WithLogger(discard))

	outcomes, err := r.RunAll(context.Background(), docs("a", "b", "c"))
	require.ErrorIs(t, err, core.ErrAnnotation)
	assert.Contains(t, err.Error(), "process b")
	assert.Nil(t, outcomes)
	assert.LessOrEqual(t, calls.Load(), int64(4), "document c must never be annotated")
}

func TestRunAll_Isolate(t *testing.T) {
	r := NewRunner(failOn("b"), WithWorkers(2), WithPolicy(core.Isolate), WithLogger(discard))

	outcomes, err := r.RunAll(context.Background(), docs("a", "b", "c"))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	assert.NotNil(t, outcomes[0].Document)
	assert.ErrorIs(t, outcomes[1].Err, core.ErrAnnotation)
	assert.Nil(t, outcomes[1].Document)
	assert.Equal(t, "b", outcomes[1].ID)
	assert.NoError(t, outcomes[2].Err)
	assert.NotNil(t, outcomes[2].Document)
}

type mapLoader map[string]core.Document

func (m mapLoader) Load(ctx context.Context, path string) (core.Document, error) {
	doc, ok := m[path]
	if !ok {
		return core.Document{}, &core.ParseError{Filename: path, Reason: "no match"}
	}
	return doc, nil
}

func TestRunPaths_ParseErrorPerDocument(t *testing.T) {
	loader := mapLoader{
		"in/1-a.txt": {ID: "1-a.txt", Paragraphs: []string{"x"}},
		"in/2-b.txt": {ID: "2-b.txt", Paragraphs: []string{"y"}},
	}
	paths := []string{"in/1-a.txt", "in/bad", "in/2-b.txt"}

	t.Run("isolate", func(t *testing.T) {
		r := NewRunner(echo, WithPolicy(core.Isolate), WithLogger(discard))
		outcomes, err := r.RunPaths(context.Background(), paths, loader)
		require.NoError(t, err)
		require.Len(t, outcomes, 3)
		assert.Equal(t, "1-a.txt", outcomes[0].ID)
		assert.Equal(t, "in/bad", outcomes[1].ID)
		assert.ErrorIs(t, outcomes[1].Err, core.ErrParse)
		assert.Equal(t, "2-b.txt", outcomes[2].ID)
	})

	t.Run("fail-fast", func(t *testing.T) {
		r := NewRunner(echo, WithLogger(discard))
		outcomes, err := r.RunPaths(context.Background(), paths, loader)
		require.ErrorIs(t, err, core.ErrParse)
		assert.Nil(t, outcomes)
	})
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(echo, WithPolicy(core.Isolate), WithLogger(discard))

	outcomes, err := r.RunAll(ctx, docs("a"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestRunAll_Empty(t *testing.T) {
	r := NewRunner(echo, WithLogger(discard))
	outcomes, err := r.RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestRunner_State(t *testing.T) {
	r := NewRunner(failOn("b"), WithWorkers(3), WithPolicy(core.Isolate), WithLogger(discard))
	assert.Equal(t, "runner", r.ComponentType())

	_, err := r.RunAll(context.Background(), docs("a", "b", "c"))
	require.NoError(t, err)

	s, ok := r.State().(RunStats)
	require.True(t, ok)
	assert.Equal(t, 1, s.Runs)
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Failed)
	assert.False(t, s.Active)
	assert.Equal(t, "isolate", s.Policy)
	assert.Equal(t, 3, s.Workers)
	assert.NotEmpty(t, s.RunID)
	require.NotNil(t, s.Pool)
	assert.True(t, s.Pool.Closed)
	assert.LessOrEqual(t, s.Pool.Peak, int64(3))
}

func TestRunner_OverlappingRuns(t *testing.T) {
	slowStarted := make(chan struct{})
	var once sync.Once
	a := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		if strings.HasPrefix(paragraph, "slow") {
			once.Do(func() { close(slowStarted) })
			time.Sleep(50 * time.Millisecond)
		}
		return []core.SentenceResult{{Text: paragraph, Label: core.Neutral}}, nil
	})
	r := NewRunner(a, WithWorkers(2), WithLogger(discard))

	slowDone := make(chan error, 1)
	go func() {
		_, err := r.RunAll(context.Background(), docs("slow"))
		slowDone <- err
	}()

	<-slowStarted
	assert.True(t, r.State().(RunStats).Active)

	outcomes, err := r.RunAll(context.Background(), docs("fast"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	mid := r.State().(RunStats)
	assert.True(t, mid.Active, "slow run is still in flight")
	assert.Equal(t, 1, mid.ActiveRuns)

	require.NoError(t, <-slowDone)
	s := r.State().(RunStats)
	assert.False(t, s.Active)
	assert.Equal(t, 0, s.ActiveRuns)
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 2, s.Processed)
	require.NotNil(t, s.Pool)
	assert.True(t, s.Pool.Closed)
}
