// Package sessionlock serializes dispatches per session id. The state
// machine assumes at most one in-flight dispatch per session; this registry
// makes that assumption hold under concurrent requests.
package sessionlock

import (
	"context"
	"sync"
	"sync/atomic"
)

// Locker hands out per-id critical sections.
type Locker interface {
	// Acquire blocks until the caller holds the lock for id and returns
	// the release function. Release must be called exactly once.
	Acquire(ctx context.Context, id string) (release func())

	// Size returns the number of ids currently tracked.
	Size() int64
}

// entry is one per-id lock with a reference count of waiting holders.
type entry struct {
	mu   sync.Mutex
	refs int
}

func (e *entry) reset() {
	e.refs = 0
}

// registry implements Locker with a map of ref-counted mutexes. Idle
// entries are retained up to capacity so hot sessions reuse their lock;
// beyond capacity an idle entry is dropped on release.
type registry struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	size     atomic.Int64
	pool     sync.Pool
}

// NewRegistry creates a per-session lock registry.
func NewRegistry(opts ...Option) Locker {
	r := &registry{
		capacity: 50000,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.entries = make(map[string]*entry)
	r.pool = sync.Pool{
		New: func() interface{} {
			return &entry{}
		},
	}
	return r
}

// Acquire blocks until the per-id lock is held. The registry lock is never
// held while blocking on the per-id lock, so independent sessions proceed
// concurrently.
func (r *registry) Acquire(_ context.Context, id string) func() {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		e = r.pool.Get().(*entry)
		r.entries[id] = e
		r.size.Add(1)
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()
	released := false
	return func() {
		if released {
			return
		}
		released = true
		e.mu.Unlock()
		r.release(id, e)
	}
}

func (r *registry) release(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.refs--
	if e.refs > 0 {
		return
	}
	if r.capacity <= 0 || len(r.entries) <= r.capacity {
		return
	}

	delete(r.entries, id)
	e.reset()
	r.pool.Put(e)
	r.size.Add(-1)
}

// Size returns the current number of tracked ids.
func (r *registry) Size() int64 {
	return r.size.Load()
}
