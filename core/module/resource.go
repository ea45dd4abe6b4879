package module

import (
	"fmt"
	"sync"
)

// ResourceAcquirer is implemented by modules that need a shared resource
// handed over after construction.
type ResourceAcquirer[R any] interface {
	AcquireResource(res R) error
}

// Acquire hands res to m when m declares the hook and does nothing otherwise.
func Acquire[R any](m any, res R) error {
	if ra, ok := m.(ResourceAcquirer[R]); ok {
		return ra.AcquireResource(res)
	}
	return nil
}

// ResourceSlot holds the last resource supplied to a module. It is sealed
// once the module's product exists; later deliveries are rejected.
type ResourceSlot[R any] struct {
	mu     sync.Mutex
	owner  string
	kind   string
	res    R
	set    bool
	sealed bool
}

// NewResourceSlot names the owning module and the resource kind for errors.
func NewResourceSlot[R any](owner, kind string) *ResourceSlot[R] {
	return &ResourceSlot[R]{owner: owner, kind: kind}
}

// Store records res, replacing any earlier resource.
func (s *ResourceSlot[R]) Store(res R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return fmt.Errorf("module %s: %w", s.owner, ErrResourceAfterMaterialization)
	}
	s.res, s.set = res, true
	return nil
}

// Load returns the stored resource or a ResourceNotAvailableError.
func (s *ResourceSlot[R]) Load() (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		var zero R
		return zero, &ResourceNotAvailableError{Module: s.owner, Resource: s.kind}
	}
	return s.res, nil
}

// Seal rejects further Store calls.
func (s *ResourceSlot[R]) Seal() {
	s.mu.Lock()
	s.sealed = true
	s.mu.Unlock()
}

// Unseal accepts Store calls again, used when the product is released.
func (s *ResourceSlot[R]) Unseal() {
	s.mu.Lock()
	s.sealed = false
	s.mu.Unlock()
}
