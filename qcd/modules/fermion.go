package modules

import (
	"fmt"

	"github.com/kilianp07/hmcmod/core/composite"
	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
	"github.com/kilianp07/hmcmod/qcd/action"
	"github.com/kilianp07/hmcmod/qcd/fermion"
	"github.com/kilianp07/hmcmod/qcd/grid"
	"github.com/kilianp07/hmcmod/qcd/solver"
)

// LaplaceModule builds a fermion.Laplace on the grid it acquires.
type LaplaceModule struct {
	*module.Base[fermion.Operator, LaplaceParameters]
	grid *module.ResourceSlot[*grid.Grid]
}

func newLaplaceModule[R reader.Reader](r R) (module.Module[fermion.Operator], error) {
	m := &LaplaceModule{grid: module.NewResourceSlot[*grid.Grid]("Laplace", "grid")}
	base, err := module.New("Laplace", r, m.initialize)
	if err != nil {
		return nil, err
	}
	m.Base = base
	m.Track(m.grid)
	return m, nil
}

// AcquireResource stores the grid the operator will be built on.
func (m *LaplaceModule) AcquireResource(g *grid.Grid) error {
	return m.grid.Store(g)
}

func (m *LaplaceModule) initialize(p LaplaceParameters) (fermion.Operator, error) {
	g, err := m.grid.Load()
	if err != nil {
		return nil, err
	}
	op, err := fermion.NewLaplace(g, p.Mass)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func newCGModule[R reader.Reader](r R) (module.Module[solver.Solver], error) {
	m, err := module.New("CG", r, func(p CGParameters) (solver.Solver, error) {
		cg, err := solver.NewCG(p.Tolerance, p.MaxIterations)
		if err != nil {
			return nil, err
		}
		return cg, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// PseudoFermionModule is a composite built from an operator and a solver
// module, resolved from its "Operator" and "Solver" sections.
type PseudoFermionModule struct {
	*module.Base[action.Action, module.NoParameters]
	subs   composite.Set
	op     module.Module[fermion.Operator]
	solver module.Module[solver.Solver]
	build  func(fermion.Operator, solver.Solver) action.Action
}

// pseudoFermionModule returns a constructor resolving sub-modules from the
// registries for reader type R.
func pseudoFermionModule[R reader.Reader](name string, build func(fermion.Operator, solver.Solver) action.Action) factory.Constructor[action.Action, R] {
	return func(r R) (module.Module[action.Action], error) {
		m := &PseudoFermionModule{build: build}
		base, err := module.New(name, r, m.initialize)
		if err != nil {
			return nil, err
		}
		m.Base = base
		if m.solver, err = composite.Attach(&m.subs, r, "Solver", Solvers[R]()); err != nil {
			return nil, err
		}
		if m.op, err = composite.Attach(&m.subs, r, "Operator", Operators[R]()); err != nil {
			return nil, err
		}
		m.OnRelease(m.subs.Release)
		return m, nil
	}
}

// AcquireResource forwards the grid to the sub-modules.
func (m *PseudoFermionModule) AcquireResource(g *grid.Grid) error {
	if m.Materialized() {
		return fmt.Errorf("module %s: %w", m.Name(), module.ErrResourceAfterMaterialization)
	}
	return composite.Forward(&m.subs, g)
}

// Sections lists the resolved sub-module sections.
func (m *PseudoFermionModule) Sections() []string { return m.subs.Sections() }

func (m *PseudoFermionModule) initialize(module.NoParameters) (action.Action, error) {
	op, err := m.op.Product()
	if err != nil {
		return nil, err
	}
	s, err := m.solver.Product()
	if err != nil {
		return nil, err
	}
	return m.build(op, s), nil
}

func twoFlavour(op fermion.Operator, s solver.Solver) action.Action {
	return action.NewTwoFlavour(op, s)
}

func twoFlavourEvenOdd(op fermion.Operator, s solver.Solver) action.Action {
	return action.NewTwoFlavourEvenOdd(op, s)
}
