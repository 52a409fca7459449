package render

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

// YAML renders a YAML sequence of records with two-space indentation.
type YAML struct{}

func (YAML) Name() string      { return "yaml" }
func (YAML) Extension() string { return "yaml" }

func (y YAML) Document(doc *core.AnnotatedDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeYAML(&buf, NewRecord(core.Outcome{ID: doc.ID, Document: doc})); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAML) Run(w io.Writer, outcomes []core.Outcome) error {
	return encodeYAML(w, Records(outcomes))
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
