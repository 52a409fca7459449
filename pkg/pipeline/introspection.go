package pipeline

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/tenor/pkg/pool"
)

// RunStats exposes runner counters for observability.
type RunStats struct {
	RunID      string      `json:"run_id,omitempty"`
	Runs       int         `json:"runs"`
	Active     bool        `json:"active"`
	ActiveRuns int         `json:"active_runs"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Policy     string      `json:"policy"`
	Workers    int         `json:"workers"`
	Pool       *pool.State `json:"pool,omitempty"`
}

// State implements introspection.Introspectable.
// While a run is active the live counters of the most recently started pool
// are included; afterwards the counters of the last closed pool are reported.
func (r *Runner) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.stats
	s.Policy = string(r.policy)
	s.Workers = r.workers
	if s.Workers < 1 {
		s.Workers = pool.DefaultSize()
	}
	s.ActiveRuns = len(r.active)
	s.Active = s.ActiveRuns > 0
	if s.Active {
		ps := r.active[len(r.active)-1].Stats()
		s.Pool = &ps
	} else if r.lastPool != nil {
		ps := *r.lastPool
		s.Pool = &ps
	}
	return s
}

// ComponentType implements introspection.Component.
func (r *Runner) ComponentType() string {
	return "runner"
}

var _ introspection.Introspectable = (*Runner)(nil)
var _ introspection.Component = (*Runner)(nil)
