package evtactor

import (
	"sync"
	"sync/atomic"
)

// registry is the process-wide mapping from a stable actor id to its live
// handle. Invariant: an entry exists in the registry iff the actor is
// currently attached to some thread. Lookups take a shared lock;
// attach/detach take the exclusive lock. The registry lock is last in the
// detach lock order: child-id set, handling, queue, registry.
type registry struct {
	mu      sync.RWMutex
	objects map[uint64]*Actor
	nextID  atomic.Uint64
}

func newRegistry() *registry {
	return &registry{
		objects: make(map[uint64]*Actor),
	}
}

// global is the single process-wide registry instance. An alternative
// design is a per-thread registry plus a directory of threads; a single
// global map is simpler and sufficient at the actor-count scales this
// framework targets.
var global = newRegistry()

// allocID returns the next monotonically increasing actor id. Ids are
// never reused.
func (r *registry) allocID() uint64 {
	return r.nextID.Add(1)
}

func (r *registry) insert(a *Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[a.id] = a
}

func (r *registry) erase(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.objects, id)
}

func (r *registry) lookup(id uint64) (*Actor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.objects[id]
	return a, ok
}

// len reports the number of currently attached actors; used by tests to
// assert that an attach/detach round trip leaves the registry as before.
func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
