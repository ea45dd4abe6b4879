package factory

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
)

var (
	// ErrFactoryLookup is matched by every FactoryLookupError.
	ErrFactoryLookup = errors.New("no module registered")
	// ErrDuplicateIdentifier is returned when an identifier is registered twice.
	ErrDuplicateIdentifier = errors.New("identifier already registered")
)

// FactoryLookupError reports an identifier unknown to a registry.
type FactoryLookupError struct {
	ID          string
	ProductType string
	Known       []string
}

func (e *FactoryLookupError) Error() string {
	return fmt.Sprintf("%s for %q in %s registry (known: %v)", ErrFactoryLookup, e.ID, e.ProductType, e.Known)
}

func (e *FactoryLookupError) Unwrap() error { return ErrFactoryLookup }

// Constructor builds a module from a reader positioned on its section.
type Constructor[P any, R reader.Reader] func(r R) (module.Module[P], error)

// Registry stores constructors keyed by identifier.
type Registry[P any, R reader.Reader] struct {
	mu           sync.RWMutex
	productType  string
	constructors map[string]Constructor[P, R]
}

// NewRegistry returns an empty registry that is not shared with Instance.
func NewRegistry[P any, R reader.Reader]() *Registry[P, R] {
	return &Registry[P, R]{
		productType:  reflect.TypeFor[P]().String(),
		constructors: make(map[string]Constructor[P, R]),
	}
}

// ProductType names the product family for error messages.
func (r *Registry[P, R]) ProductType() string { return r.productType }

// Register adds a constructor for id. Identifiers are unique per registry.
func (r *Registry[P, R]) Register(id string, c Constructor[P, R]) error {
	if c == nil {
		return fmt.Errorf("constructor nil for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.constructors[id]; ok {
		return fmt.Errorf("%w: %s in %s registry", ErrDuplicateIdentifier, id, r.productType)
	}
	r.constructors[id] = c
	return nil
}

// Create instantiates the module registered under id with its configuration.
func (r *Registry[P, R]) Create(id string, rd R) (module.Module[P], error) {
	r.mu.RLock()
	c, ok := r.constructors[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &FactoryLookupError{ID: id, ProductType: r.productType, Known: r.Names()}
	}
	m, err := c(rd)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", id, err)
	}
	return m, nil
}

// Has reports whether id is registered.
func (r *Registry[P, R]) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[id]
	return ok
}

// Names returns the registered identifiers in sorted order.
func (r *Registry[P, R]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.constructors))
	for id := range r.constructors {
		names = append(names, id)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
