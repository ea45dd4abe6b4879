// Package factory provides the generic registries used to instantiate modules
// from configuration. A registry maps identifiers read from configuration to
// constructors; there is one process-wide registry per pair of product type
// and reader type, so unrelated product families never share identifiers.
//
// Example usage:
//
//	reg := factory.Instance[action.Action, *reader.Koanf]()
//	factory.NewRegistrar(reg, "Wilson", newWilsonModule)
//
//	r.Push("gauge")
//	name, _ := corereader.Read[string](r, "name")
//	m, err := reg.Create(name, r)
//	r.Pop()
//	act, err := m.Product()
package factory
