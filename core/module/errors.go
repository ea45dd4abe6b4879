package module

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotAvailable is matched by every ResourceNotAvailableError.
	ErrResourceNotAvailable = errors.New("resource not available")
	// ErrResourceAfterMaterialization is returned when a resource is handed
	// to a module whose product already exists.
	ErrResourceAfterMaterialization = errors.New("resource supplied after materialization")
	// ErrReentrantInitialization is returned when an initializer asks for
	// the product it is building.
	ErrReentrantInitialization = errors.New("product requested during its own initialization")
)

// ResourceNotAvailableError reports an initializer that needed a resource
// which was never supplied.
type ResourceNotAvailableError struct {
	Module   string
	Resource string
}

func (e *ResourceNotAvailableError) Error() string {
	return fmt.Sprintf("module %s: %s %s", e.Module, e.Resource, ErrResourceNotAvailable)
}

func (e *ResourceNotAvailableError) Unwrap() error { return ErrResourceNotAvailable }
