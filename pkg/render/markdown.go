package render

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

// Markdown renders each document as YAML frontmatter followed by its
// paragraphs, every sentence prefixed with its label in bold.
type Markdown struct{}

func (Markdown) Name() string      { return "markdown" }
func (Markdown) Extension() string { return "md" }

func (Markdown) Document(doc *core.AnnotatedDocument) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n\n")
	}
	for i, p := range doc.Paragraphs {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		for j, s := range p.Sentences {
			if j > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "**[%s]** %s", s.Label, s.Text)
		}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Run writes documents one after another, separated by a blank line.
// Failed documents become an HTML comment so the output stays valid markdown.
func (m Markdown) Run(w io.Writer, outcomes []core.Outcome) error {
	for i, o := range outcomes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if o.Err != nil || o.Document == nil {
			if _, err := fmt.Fprintf(w, "<!-- %s: %s -->\n", o.ID, NewRecord(o).Error); err != nil {
				return err
			}
			continue
		}
		data, err := m.Document(o.Document)
		if err != nil {
			return fmt.Errorf("render %s: %w", o.ID, err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
