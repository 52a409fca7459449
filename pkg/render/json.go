package render

import (
	"encoding/json"
	"io"

	"github.com/aretw0/tenor/pkg/core"
)

// JSON renders indented JSON. A run is a single array of records.
type JSON struct{}

func (JSON) Name() string      { return "json" }
func (JSON) Extension() string { return "json" }

func (JSON) Document(doc *core.AnnotatedDocument) ([]byte, error) {
	data, err := json.MarshalIndent(NewRecord(core.Outcome{ID: doc.ID, Document: doc}), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSON) Run(w io.Writer, outcomes []core.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(outcomes))
}
