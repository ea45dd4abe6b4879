package module

import (
	"github.com/google/uuid"

	"github.com/kilianp07/hmcmod/core/logger"
	"github.com/kilianp07/hmcmod/core/reader"
)

// Module is a configured component whose product is built on first use.
type Module[P any] interface {
	// Name is the identifier the module was registered under.
	Name() string
	// ID is unique per module instance.
	ID() string
	// Product returns the realized product, building it on the first call.
	Product() (P, error)
	// Materialized reports whether the product has been built.
	Materialized() bool
	// PrintParameters logs the bound parameters.
	PrintParameters(log logger.Logger)
	// Release drops the product and everything the module owns.
	Release()
}

// Initializer builds a product from bound parameters.
type Initializer[P, Par any] func(par Par) (P, error)

// Sealer is implemented by state that must freeze once a product exists,
// such as a ResourceSlot.
type Sealer interface {
	Seal()
	Unseal()
}

// Base implements Module for a product P configured by parameters Par.
type Base[P, Par any] struct {
	Parametrized[Par]
	name      string
	id        string
	lazy      *Lazy[P]
	sealers   []Sealer
	onRelease []func()
}

// New binds Par from the current section of r and returns a module that
// builds its product with init on first use.
func New[P, Par any](name string, r reader.Reader, init Initializer[P, Par]) (*Base[P, Par], error) {
	par, err := BindParameters[Par](r)
	if err != nil {
		return nil, err
	}
	return newBase(name, par, init), nil
}

// NewWithParameters returns a module around already bound parameters.
func NewWithParameters[P, Par any](name string, par Par, init Initializer[P, Par]) *Base[P, Par] {
	return newBase(name, NewParametrized(par), init)
}

func newBase[P, Par any](name string, par Parametrized[Par], init Initializer[P, Par]) *Base[P, Par] {
	b := &Base[P, Par]{Parametrized: par, name: name, id: uuid.NewString()}
	b.lazy = NewLazy(func() (P, error) {
		p, err := init(b.Parameters())
		if err != nil {
			return p, err
		}
		for _, s := range b.sealers {
			s.Seal()
		}
		return p, nil
	})
	return b
}

func (b *Base[P, Par]) Name() string { return b.name }

func (b *Base[P, Par]) ID() string { return b.id }

func (b *Base[P, Par]) Product() (P, error) { return b.lazy.Get() }

func (b *Base[P, Par]) Materialized() bool { return b.lazy.Ready() }

// Track seals s when the product is built and unseals it on Release.
func (b *Base[P, Par]) Track(s Sealer) {
	b.sealers = append(b.sealers, s)
}

// OnRelease registers fn to run when the module is released.
func (b *Base[P, Par]) OnRelease(fn func()) {
	b.onRelease = append(b.onRelease, fn)
}

// Release drops the product, unseals tracked state and runs release hooks.
func (b *Base[P, Par]) Release() {
	b.lazy.Reset()
	for _, s := range b.sealers {
		s.Unseal()
	}
	for _, fn := range b.onRelease {
		fn()
	}
}
