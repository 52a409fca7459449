// Package render turns annotated documents into structured text or markup.
//
// Every renderer works on the ordered outcomes of a run and never reorders
// them; failed documents are rendered as error records in place.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/tenor/pkg/core"
)

// Renderer defines how annotated documents are presented in one format.
type Renderer interface {
	// Name is the format name used on the command line.
	Name() string
	// Extension is the file extension, without dot, for per-document output.
	Extension() string
	// Document renders a single annotated document.
	Document(doc *core.AnnotatedDocument) ([]byte, error)
	// Run renders the outcomes of a whole run, in order, to w.
	Run(w io.Writer, outcomes []core.Outcome) error
}

// Record is the serialisable form of one outcome.
type Record struct {
	ID         string           `json:"id" yaml:"id"`
	Metadata   core.Metadata    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Paragraphs []core.Paragraph `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRecord converts an outcome into a Record.
func NewRecord(o core.Outcome) Record {
	if o.Err != nil || o.Document == nil {
		msg := "no document"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return Record{ID: o.ID, Error: msg}
	}
	return Record{
		ID:         o.Document.ID,
		Metadata:   o.Document.Metadata,
		Paragraphs: o.Document.Paragraphs,
	}
}

// Records converts outcomes in order.
func Records(outcomes []core.Outcome) []Record {
	out := make([]Record, len(outcomes))
	for i, o := range outcomes {
		out[i] = NewRecord(o)
	}
	return out
}

var registry = map[string]func() Renderer{
	"json":     func() Renderer { return JSON{} },
	"yaml":     func() Renderer { return YAML{} },
	"markdown": func() Renderer { return Markdown{} },
	"ansi":     func() Renderer { return ANSI{} },
	"table":    func() Renderer { return Table{} },
	"table-md": func() Renderer { return Table{Markdown: true} },
}

// Lookup returns the renderer registered under name.
func Lookup(name string) (Renderer, error) {
	if name == "md" {
		name = "markdown"
	}
	if name == "yml" {
		name = "yaml"
	}
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, Names())
	}
	return f(), nil
}

// Names lists the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
