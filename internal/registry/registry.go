// Package registry tracks known collections and serializes writes into
// each one. Reads never take the ingest lock, so searches stay
// concurrent with ingestion into other collections.
package registry

import (
	"sync"

	"github.com/docfusion/docfusion/pkg/types"
)

// Collection is a named handle with a write lock. One ingest runs per
// collection at a time; concurrent ingests into different collections
// proceed independently.
type Collection struct {
	name     string
	ingestMu sync.Mutex
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// LockIngest acquires the collection's write lock.
func (c *Collection) LockIngest() {
	c.ingestMu.Lock()
}

// UnlockIngest releases the collection's write lock.
func (c *Collection) UnlockIngest() {
	c.ingestMu.Unlock()
}

// Registry hands out collection handles, creating each name once.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

// Get returns the handle for name, validating and creating it on first
// use. Repeated calls with the same name return the same handle.
func (r *Registry) Get(name string) (*Collection, error) {
	if err := types.ValidateCollectionName(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	c, ok := r.collections[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.collections[name]; ok {
		return c, nil
	}
	c = &Collection{name: name}
	r.collections[name] = c
	return c, nil
}

// Forget drops the handle for name, typically after collection deletion.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.collections, name)
}
