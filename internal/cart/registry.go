package cart

import "sync"

// Registry owns one in-memory cart store per user. Stores are created on
// first use and live for the lifetime of the process; nothing is persisted
// across restarts.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// StoreFor returns the user's cart store, creating it on demand.
func (r *Registry) StoreFor(userID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[userID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[userID]; ok {
		return store
	}
	store = NewStore()
	r.stores[userID] = store
	return store
}
