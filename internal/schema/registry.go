package schema

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownTable = errors.New("unknown table")

// Registry holds table descriptors, keyed by table name. Registration
// order is preserved so listings are stable.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register adds or replaces a table descriptor.
func (r *Registry) Register(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tables[t.Name] = t
}

// Describe returns the descriptor for a table name.
func (r *Registry) Describe(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// Has reports whether a table is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tables[name]
	return ok
}

// TableNames returns all registered table names in registration order.
func (r *Registry) TableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns all registered descriptors in registration order.
func (r *Registry) All() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Table, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}
