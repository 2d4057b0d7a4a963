package session

import "sync"

// Registry keeps live contexts and a per-session mutex so turns within a
// session run one at a time while distinct sessions proceed in parallel.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	ctx *Context
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

func (r *Registry) entryFor(sessionID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		e = &entry{}
		r.entries[sessionID] = e
	}
	return e
}

// Lock acquires the session's turn lock and returns the unlock func.
func (r *Registry) Lock(sessionID string) func() {
	e := r.entryFor(sessionID)
	e.mu.Lock()
	return e.mu.Unlock
}

// Get returns the live context, if any. Callers must hold the session
// lock.
func (r *Registry) Get(sessionID string) (*Context, bool) {
	e := r.entryFor(sessionID)
	if e.ctx == nil {
		return nil, false
	}
	return e.ctx, true
}

// Put installs the live context. Callers must hold the session lock.
func (r *Registry) Put(c *Context) {
	r.entryFor(c.SessionID).ctx = c
}

// Evict drops the live context so the next turn rehydrates from the
// store. The per-session lock survives eviction.
func (r *Registry) Evict(sessionID string) {
	r.entryFor(sessionID).ctx = nil
}
