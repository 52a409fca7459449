package platform

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tenor/pkg/annotator"
	"github.com/aretw0/tenor/pkg/core"
)

var neutral = core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	return []core.SentenceResult{{Text: paragraph, Label: core.Neutral}}, nil
})

type declared struct {
	core.AnnotatorFunc
	mode core.Concurrency
}

func (d declared) Concurrency() core.Concurrency { return d.mode }

func TestNewAnnotator_Modes(t *testing.T) {
	tests := []struct {
		name     string
		cfg      AnnotatorConfig
		injected core.Annotator
		want     core.Concurrency
	}{
		{"lexicon is reentrant", AnnotatorConfig{Kind: KindLexicon}, nil, core.Reentrant},
		{"lexicon per worker", AnnotatorConfig{Kind: KindLexicon, Concurrency: "per-worker"}, nil, core.PerWorker},
		{"lexicon serialized", AnnotatorConfig{Kind: KindLexicon, Concurrency: "serialized"}, nil, core.Serialized},
		{"undeclared injection is serialized", AnnotatorConfig{}, neutral, core.Serialized},
		{"declared injection is trusted", AnnotatorConfig{}, declared{neutral, core.Reentrant}, core.Reentrant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnnotator(tt.cfg, 2, tt.injected)
			require.NoError(t, err)
			d, ok := a.(annotator.Declarer)
			require.True(t, ok, "%T declares no mode", a)
			assert.Equal(t, tt.want, d.Concurrency())

			got, err := a.Annotate(context.Background(), "Peace.")
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestNewAnnotator_PerWorkerInstances(t *testing.T) {
	a, err := NewAnnotator(AnnotatorConfig{Kind: KindLexicon, Concurrency: "per-worker"}, 3, nil)
	require.NoError(t, err)
	p, ok := a.(*annotator.InstancePool)
	require.True(t, ok)
	assert.Equal(t, 3, p.Size())
}

func TestNewAnnotator_Errors(t *testing.T) {
	_, err := NewAnnotator(AnnotatorConfig{Concurrency: "per-worker"}, 2, neutral)
	assert.ErrorContains(t, err, "per-worker mode needs an engine factory")

	_, err = NewAnnotator(AnnotatorConfig{Kind: "gpt"}, 2, nil)
	assert.ErrorContains(t, err, `unknown annotator kind "gpt"`)

	_, err = NewAnnotator(AnnotatorConfig{Kind: KindStatic, Fixtures: filepath.Join(t.TempDir(), "none.yaml")}, 2, nil)
	assert.ErrorContains(t, err, "open fixtures")

	_, err = NewAnnotator(AnnotatorConfig{Kind: KindCoreNLP, URL: "::"}, 2, nil)
	assert.Error(t, err)
}

func TestNewAnnotator_FileBackedEngines(t *testing.T) {
	dir := t.TempDir()
	lexicon := writeFile(t, filepath.Join(dir, "lexicon.yaml"), "words: {tuesday: 3}\n")
	fixtures := writeFile(t, filepath.Join(dir, "fixtures.yaml"), `
- paragraph: "It is Tuesday."
  sentences: [{text: "It is Tuesday.", label: "Very negative"}]
`)

	lex, err := NewAnnotator(AnnotatorConfig{Kind: KindLexicon, Lexicon: lexicon}, 1, nil)
	require.NoError(t, err)
	got, err := lex.Annotate(context.Background(), "It is Tuesday.")
	require.NoError(t, err)
	assert.Equal(t, core.VeryPositive, got[0].Label)

	static, err := NewAnnotator(AnnotatorConfig{Kind: KindStatic, Fixtures: fixtures}, 1, nil)
	require.NoError(t, err)
	got, err = static.Annotate(context.Background(), "It is Tuesday.")
	require.NoError(t, err)
	assert.Equal(t, core.VeryNegative, got[0].Label)
}

func TestNew(t *testing.T) {
	runner, err := New(WithWorkers(2), WithPolicy(core.Isolate), WithQueue(8))
	require.NoError(t, err)
	assert.Equal(t, core.Isolate, runner.Policy())

	_, err = New(WithPolicy("sometimes"))
	require.ErrorContains(t, err, "invalid config")

	cfg := DefaultConfig()
	cfg.Workers = 7
	runner, err = New(WithConfig(cfg), WithAnnotator(neutral), WithPolicy(core.FailFast))
	require.NoError(t, err)
	assert.Equal(t, core.FailFast, runner.Policy())
}
