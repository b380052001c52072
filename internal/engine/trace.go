package engine

import (
	"context"
	"sync"

	"github.com/roach88/hackerstories/internal/store"
)

// TraceRecorder keeps applied transitions in memory.
// Used by the scenario harness and by tests in place of the SQLite log.
type TraceRecorder struct {
	mu          sync.Mutex
	transitions []store.Transition
}

// NewTraceRecorder creates an empty TraceRecorder.
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

// WriteTransition implements Recorder.
func (r *TraceRecorder) WriteTransition(_ context.Context, t store.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
	return nil
}

// Transitions returns a copy of everything recorded so far, in apply order.
func (r *TraceRecorder) Transitions() []store.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}

// Kinds returns the kinds of the recorded transitions in order.
func (r *TraceRecorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.transitions))
	for i, t := range r.transitions {
		kinds[i] = t.Kind
	}
	return kinds
}
