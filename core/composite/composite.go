// Package composite resolves the sub-modules a module is assembled from.
//
// A composite module declares slots, each a named configuration subsection
// holding a "name" key. Resolving a slot enters the subsection, creates the
// named sub-module from the registry of the slot's product type and leaves
// the subsection again. Resolution happens while the composite is
// constructed; sub-products are only built when the composite's own product
// is requested.
package composite

import (
	"fmt"

	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
)

// NameKey is the key that selects the sub-module identifier in a slot.
const NameKey = "name"

type releaser interface {
	Release()
}

type member struct {
	section string
	mod     releaser
}

// Set owns the sub-modules of one composite.
type Set struct {
	members []member
}

// Resolve creates the sub-module described by section without taking
// ownership of it.
func Resolve[P any, R reader.Reader](r R, section string, reg *factory.Registry[P, R]) (module.Module[P], error) {
	var m module.Module[P]
	err := reader.Within(r, section, func() error {
		name, err := reader.Read[string](r, NameKey)
		if err != nil {
			return err
		}
		m, err = reg.Create(name, r)
		return err
	})
	if err != nil {
		if m != nil {
			m.Release()
		}
		return nil, err
	}
	return m, nil
}

// Attach resolves section and adds the result to s. On failure every module
// already in s is released before the error is returned.
func Attach[P any, R reader.Reader](s *Set, r R, section string, reg *factory.Registry[P, R]) (module.Module[P], error) {
	m, err := Resolve(r, section, reg)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("resolve %s: %w", section, err)
	}
	s.members = append(s.members, member{section: section, mod: m})
	return m, nil
}

// Sections lists the resolved slots in resolution order.
func (s *Set) Sections() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.section
	}
	return out
}

// Len is the number of owned sub-modules.
func (s *Set) Len() int { return len(s.members) }

// Release releases every owned sub-module in reverse order. The members stay
// in s, so a released composite can acquire resources and build again.
func (s *Set) Release() {
	for i := len(s.members) - 1; i >= 0; i-- {
		s.members[i].mod.Release()
	}
}

// Forward hands res to every owned sub-module that declares the resource
// hook, in resolution order.
func Forward[R any](s *Set, res R) error {
	for _, m := range s.members {
		if err := module.Acquire(m.mod, res); err != nil {
			return fmt.Errorf("%s: %w", m.section, err)
		}
	}
	return nil
}
