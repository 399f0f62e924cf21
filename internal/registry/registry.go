// Package registry tracks the configured provider adapters in fallback
// order. Registration order is query order: the first adapter that yields
// candidates wins.
package registry

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
)

// AdapterRegistry manages registered provider adapters
type AdapterRegistry struct {
	adapters []contracts.PropAdapter
	byName   map[models.Provenance]contracts.PropAdapter
	mu       sync.RWMutex
}

// NewAdapterRegistry creates a new adapter registry
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		byName: make(map[models.Provenance]contracts.PropAdapter),
	}
}

// Register appends an adapter to the fallback chain
func (r *AdapterRegistry) Register(adapter contracts.PropAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := adapter.Provenance()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("adapter %s is already registered", name)
	}

	r.byName[name] = adapter
	r.adapters = append(r.adapters, adapter)
	return nil
}

// Get retrieves an adapter by provenance
func (r *AdapterRegistry) Get(name models.Provenance) (contracts.PropAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.byName[name]
	return adapter, exists
}

// All returns the registered adapters in registration order
func (r *AdapterRegistry) All() []contracts.PropAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contracts.PropAdapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Names returns the registered provenances in registration order
func (r *AdapterRegistry) Names() []models.Provenance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]models.Provenance, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.Provenance())
	}
	return names
}

// Count returns the number of registered adapters
func (r *AdapterRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.adapters)
}
