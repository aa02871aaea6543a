package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryRegistry is an in-memory registry for tests and embedded use.
type MemoryRegistry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{defs: make(map[string]Definition)}
}

func (r *MemoryRegistry) List(_ context.Context) ([]Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

func (r *MemoryRegistry) Get(_ context.Context, name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.defs[name]; ok {
		return &def, nil
	}
	return nil, nil
}

func (r *MemoryRegistry) Put(_ context.Context, def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
	return nil
}

func (r *MemoryRegistry) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, name)
	return nil
}
