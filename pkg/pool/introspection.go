package pool

import (
	"github.com/aretw0/introspection"
)

// State exposes pool counters for observability.
type State struct {
	Size      int    `json:"size"`
	Queue     int    `json:"queue"`
	Running   int64  `json:"running"`
	Peak      int64  `json:"peak"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Batches   uint64 `json:"batches"`
	Closed    bool   `json:"closed"`
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() State {
	return State{
		Size:      p.size,
		Queue:     p.queue,
		Running:   p.running.Load(),
		Peak:      p.peak.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Batches:   p.batches.Load(),
		Closed:    p.closed.Load(),
	}
}

// State implements introspection.Introspectable.
func (p *Pool) State() any {
	return p.Stats()
}

// ComponentType implements introspection.Component.
func (p *Pool) ComponentType() string {
	return "pool"
}

var _ introspection.Introspectable = (*Pool)(nil)
var _ introspection.Component = (*Pool)(nil)
