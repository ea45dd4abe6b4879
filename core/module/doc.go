// Package module provides the building blocks of configurable, lazily
// materialized components.
//
// A module binds a plain parameter struct from a configuration reader when it
// is constructed and builds its product, which may be expensive, only when
// Product is first called. Behavior is composed from small pieces rather than
// a type hierarchy:
//
//   - Parametrized binds and prints a parameter struct;
//   - Lazy runs an initializer at most once and caches its product;
//   - ResourceSlot stores a shared resource handed over after construction;
//   - Base combines the three into a ready-made Module implementation.
//
// Concrete modules embed Base and supply an initializer:
//
//	type betaModule struct {
//	    *module.Base[float64, betaParams]
//	}
//
//	func newBetaModule(r reader.Reader) (module.Module[float64], error) {
//	    return module.New("Beta", r, func(p betaParams) (float64, error) {
//	        return p.Beta, nil
//	    })
//	}
package module
