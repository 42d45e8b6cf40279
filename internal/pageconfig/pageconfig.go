package pageconfig

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownPage = errors.New("unknown page")

// Column is one listed column of a section.
type Column struct {
	DBColumn    string `json:"db_column"`
	DisplayName string `json:"display_name"`
	Searchable  bool   `json:"searchable"`
}

// Section binds a named card on a page to a table.
type Section struct {
	Name       string   `json:"name"`
	Table      string   `json:"table"`
	Icon       string   `json:"icon"`
	Columns    []Column `json:"columns"`
	AddButton  bool     `json:"add_button"`
	EditButton bool     `json:"edit_button"`
}

// Page is an ordered list of sections. Order matters: progressive
// loading serves sections in this order.
type Page struct {
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Section returns the section with the given name, or nil.
func (p *Page) Section(name string) *Section {
	for i := range p.Sections {
		if p.Sections[i].Name == name {
			return &p.Sections[i]
		}
	}
	return nil
}

// SectionNames returns section names in page order.
func (p *Page) SectionNames() []string {
	out := make([]string, len(p.Sections))
	for i := range p.Sections {
		out[i] = p.Sections[i].Name
	}
	return out
}

// Registry holds the configured pages.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]*Page
	order []string
}

func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]*Page)}
}

// Register adds or replaces a page.
func (r *Registry) Register(p *Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pages[p.Name]; !exists {
		r.order = append(r.order, p.Name)
	}
	r.pages[p.Name] = p
}

// Get returns the page with the given name.
func (r *Registry) Get(name string) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return p, nil
}

// PageNames returns page names in registration order.
func (r *Registry) PageNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
