package core

import "sync"

// IdentityRegistry keeps the bidirectional binding between a durable user
// identity and the ephemeral connection handle it is currently reachable on.
// At most one live binding exists per identity and per handle; rebinding an
// identity steals it from the previous handle and removes the stale reverse
// entry so it can never resolve again.
type IdentityRegistry struct {
	mu       sync.RWMutex
	byID     map[string]string // identity -> handle
	byHandle map[string]string // handle -> identity
}

// NewIdentityRegistry constructs an empty registry.
func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{
		byID:     make(map[string]string),
		byHandle: make(map[string]string),
	}
}

// Bind records the identity<->handle pair, last writer wins. It returns the
// handle the identity was previously bound to and whether that binding was
// stolen by this call.
func (r *IdentityRegistry) Bind(identity, handle string) (prev string, stolen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.byID[identity]
	if had && prev != handle {
		delete(r.byHandle, prev)
		stolen = true
	}
	// The handle may have announced a different identity earlier; that
	// forward entry must not keep resolving to this handle.
	if old, ok := r.byHandle[handle]; ok && old != identity {
		delete(r.byID, old)
	}
	r.byID[identity] = handle
	r.byHandle[handle] = identity
	return prev, stolen
}

// Handle resolves the current connection handle for an identity.
func (r *IdentityRegistry) Handle(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[identity]
	return h, ok
}

// Identity resolves the identity bound to a connection handle.
func (r *IdentityRegistry) Identity(handle string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHandle[handle]
	return id, ok
}

// Unbind removes both directions of the mapping for handle. Unbinding an
// unknown handle is a no-op.
func (r *IdentityRegistry) Unbind(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byHandle[handle]
	if !ok {
		return
	}
	delete(r.byHandle, handle)
	// Only drop the forward entry if it still points at this handle; a
	// rebind may have already moved the identity elsewhere.
	if cur, ok := r.byID[id]; ok && cur == handle {
		delete(r.byID, id)
	}
}

// Len reports the number of live bindings.
func (r *IdentityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHandle)
}
