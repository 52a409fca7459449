package fs

import (
	"github.com/aretw0/introspection"
)

// WriterState exposes writer counters for observability.
type WriterState struct {
	Dir         string `json:"dir"`
	Extension   string `json:"extension"`
	Concurrency int    `json:"concurrency"`
	Written     int64  `json:"written"`
	Failed      int64  `json:"failed"`
}

// State implements introspection.Introspectable.
func (w *Writer) State() any {
	return WriterState{
		Dir:         w.dir,
		Extension:   w.ext,
		Concurrency: w.limit,
		Written:     w.written.Load(),
		Failed:      w.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (w *Writer) ComponentType() string {
	return "writer"
}

var _ introspection.Introspectable = (*Writer)(nil)
var _ introspection.Component = (*Writer)(nil)
