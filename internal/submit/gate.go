package submit

import (
	"sync"
	"sync/atomic"
)

// Gate admits one submission at a time.
//
// It models the disabled state of the form controls while a submission is
// running: a second submission is refused, not queued.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire takes the gate or returns ErrSubmissionInFlight.
func (g *Gate) TryAcquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	return nil
}

// Release frees the gate. Releasing a free gate is a no-op.
func (g *Gate) Release() {
	g.busy.Store(false)
}

// Busy reports whether a submission holds the gate.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}

// Gates holds one Gate per client, keyed by an opaque client id.
type Gates struct {
	mu    sync.Mutex
	gates map[string]*Gate
}

// NewGates creates an empty gate set.
func NewGates() *Gates {
	return &Gates{gates: make(map[string]*Gate)}
}

// Get returns the gate for id, creating it on first use.
func (g *Gates) Get(id string) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()

	gate, ok := g.gates[id]
	if !ok {
		gate = &Gate{}
		g.gates[id] = gate
	}
	return gate
}

// Len returns the number of known clients.
func (g *Gates) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.gates)
}

// Forget drops the gate for id unless it is busy.
func (g *Gates) Forget(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gate, ok := g.gates[id]; ok && !gate.Busy() {
		delete(g.gates, id)
	}
}
