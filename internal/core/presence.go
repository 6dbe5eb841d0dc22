package core

import "sync"

// Registry is the bijective mapping between live clients and the display
// identity each has claimed. It is the single source of truth for "who is
// in the room". It never touches the store or the transport.
type Registry struct {
	mu       sync.RWMutex
	byClient map[*Client]string
	byName   map[string]*Client
}

// NewRegistry constructs an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		byClient: make(map[*Client]string),
		byName:   make(map[string]*Client),
	}
}

// Register binds client to name in both directions. When name is already
// held by a different client, that binding is removed first and the evicted
// client is returned (last join wins). When the client was bound under a
// previous name, the old binding is dropped. Idempotent for an identical
// binding.
func (r *Registry) Register(c *Client, name string) (evicted *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byName[name] == c {
		return nil
	}
	if prev, ok := r.byName[name]; ok {
		delete(r.byClient, prev)
		evicted = prev
	}
	if old, ok := r.byClient[c]; ok {
		delete(r.byName, old)
	}
	r.byClient[c] = name
	r.byName[name] = c
	return evicted
}

// Resolve returns the identity bound to the client, if any.
func (r *Registry) Resolve(c *Client) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byClient[c]
	return name, ok
}

// UnregisterClient removes both directions of the client's binding and
// returns the identity it held. No-op when the client was never bound.
func (r *Registry) UnregisterClient(c *Client) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.byClient[c]
	if !ok {
		return "", false
	}
	delete(r.byClient, c)
	delete(r.byName, name)
	return name, true
}

// UnregisterName removes both directions of the binding held under name and
// returns the client that held it. No-op when the name is not bound.
func (r *Registry) UnregisterName(name string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	delete(r.byName, name)
	delete(r.byClient, c)
	return c, true
}

// Snapshot returns the clients currently registered. Fanout iterates this
// snapshot so membership is fixed at call time.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.byClient))
	for c := range r.byClient {
		clients = append(clients, c)
	}
	return clients
}

// Len returns the number of active bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byClient)
}
