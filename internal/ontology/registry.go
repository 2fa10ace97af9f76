package ontology

import "sync/atomic"

// Registry holds the current Store and lets it be replaced out-of-band.
// Callers pin a Store with Current for the duration of a scoring pass.
type Registry struct {
	current atomic.Pointer[Store]
}

// NewRegistry creates a registry serving s.
func NewRegistry(s *Store) *Registry {
	r := &Registry{}
	r.current.Store(s)
	return r
}

// Current returns the store in effect.
func (r *Registry) Current() *Store {
	return r.current.Load()
}

// Swap installs s and returns the previous store.
func (r *Registry) Swap(s *Store) *Store {
	return r.current.Swap(s)
}
