// Package status is the metrics facade shared by the simulation and the HUD.
// Writers cache cell pointers at construction; readers poll them each frame.
package status

import (
	"fmt"
	"sync/atomic"
)

// Well-known metric keys
const (
	KeyMoves     = "loop.moves"
	KeyMaxMoves  = "loop.max_moves"
	KeyDTMillis  = "loop.dt_ms"
	KeyRatio     = "loop.ratio"
	KeyLoopState = "loop.state"
	KeyScore     = "game.score"
	KeyMisses    = "game.misses"
	KeyBricks    = "game.bricks"
	KeyOutcome   = "game.outcome"
)

// Registry is the central metrics facade
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines formats every metric as "key=value", ints first, each group sorted
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", k, v.Load()))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s=%.2f", k, v.Get()))
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		lines = append(lines, fmt.Sprintf("%s=%s", k, v.Load()))
	})
	return lines
}
