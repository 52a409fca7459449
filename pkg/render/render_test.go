package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

func sampleDoc() *core.AnnotatedDocument {
	return &core.AnnotatedDocument{
		ID:       "1863-gettysburg.txt",
		Metadata: core.Metadata{"identifier": "1863", "name": "gettysburg"},
		Paragraphs: []core.Paragraph{
			{Index: 0, Sentences: []core.SentenceResult{
				{Text: "Hello world.", Label: core.Positive},
				{Text: "Good day.", Label: core.Neutral},
			}},
			{Index: 1, Sentences: []core.SentenceResult{
				{Text: "Second para.", Label: core.VeryNegative},
			}},
		},
	}
}

func sampleOutcomes() []core.Outcome {
	return []core.Outcome{
		{ID: "1863-gettysburg.txt", Document: sampleDoc()},
		{ID: "bad.txt", Err: errors.New(`parse "bad.txt": expected <identifier>-<name>.<extension>`)},
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		r, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, r.Name())
		assert.NotEmpty(t, r.Extension())
	}

	r, err := Lookup("md")
	require.NoError(t, err)
	assert.Equal(t, "markdown", r.Name())

	_, err = Lookup("pdf")
	require.ErrorContains(t, err, `unknown format "pdf"`)
	assert.Equal(t, []string{"ansi", "json", "markdown", "table", "table-md", "yaml"}, Names())
}

func TestJSON_Run(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Run(&buf, sampleOutcomes()))

	var got []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	want := []Record{
		{
			ID:         "1863-gettysburg.txt",
			Metadata:   core.Metadata{"identifier": "1863", "name": "gettysburg"},
			Paragraphs: sampleDoc().Paragraphs,
		},
		{ID: "bad.txt", Error: `parse "bad.txt": expected <identifier>-<name>.<extension>`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON.Run() mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `"label": "Very negative"`)
}

func TestYAML_Document(t *testing.T) {
	data, err := YAML{}.Document(sampleDoc())
	require.NoError(t, err)

	var got Record
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "1863-gettysburg.txt", got.ID)
	if diff := cmp.Diff(sampleDoc().Paragraphs, got.Paragraphs); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(data), "label: Very negative")
}

func TestMarkdown_Document(t *testing.T) {
	data, err := Markdown{}.Document(sampleDoc())
	require.NoError(t, err)

	want := "---\n" +
		"identifier: \"1863\"\n" +
		"name: gettysburg\n" +
		"---\n\n" +
		"**[Positive]** Hello world. **[Neutral]** Good day.\n\n" +
		"**[Very negative]** Second para.\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("Markdown.Document() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdown_RunKeepsOrderAndFailures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Run(&buf, sampleOutcomes()))
	out := buf.String()

	first := strings.Index(out, "Hello world.")
	failure := strings.Index(out, "<!-- bad.txt:")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, failure, 0)
	assert.Less(t, first, failure)
}

func TestANSI(t *testing.T) {
	data, err := ANSI{}.Document(sampleDoc())
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "1863-gettysburg.txt")
	assert.Contains(t, out, "(2 paragraphs, 3 sentences)")
	assert.Contains(t, out, "[Very negative]")
	assert.Less(t, strings.Index(out, "Hello world."), strings.Index(out, "Second para."))

	var buf bytes.Buffer
	require.NoError(t, ANSI{}.Run(&buf, sampleOutcomes()))
	assert.Contains(t, buf.String(), "✗ bad.txt")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table{}.Run(&buf, sampleOutcomes()))
	out := buf.String()

	for _, want := range []string{"DOCUMENT", "VERY NEGATIVE", "1863-GETTYSBURG.TXT", "BAD.TXT", "TOTAL", "FAILED: 1"} {
		assert.Contains(t, strings.ToUpper(out), want)
	}
	assert.Less(t, strings.Index(out, "1863-gettysburg.txt"), strings.Index(out, "bad.txt"))

	md, err := Table{Markdown: true}.Document(sampleDoc())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "| "), "markdown table, got:\n%s", md)
	assert.Contains(t, strings.ToLower(string(md)), "| document |")
}
