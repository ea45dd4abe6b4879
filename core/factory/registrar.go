package factory

import "github.com/kilianp07/hmcmod/core/reader"

// Registrar records a single registration. Creating one is its only effect.
type Registrar struct {
	ID          string
	ProductType string
}

// NewRegistrar registers c under id in reg. A rejected registration is a
// programming error and panics.
func NewRegistrar[P any, R reader.Reader](reg *Registry[P, R], id string, c Constructor[P, R]) Registrar {
	if err := reg.Register(id, c); err != nil {
		panic(err)
	}
	return Registrar{ID: id, ProductType: reg.ProductType()}
}
