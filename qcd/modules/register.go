package modules

import (
	"sync"

	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/reader"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
	"github.com/kilianp07/hmcmod/qcd/action"
	"github.com/kilianp07/hmcmod/qcd/fermion"
	"github.com/kilianp07/hmcmod/qcd/solver"
)

// Actions is the action registry for reader type R.
func Actions[R reader.Reader]() *factory.Registry[action.Action, R] {
	return factory.Instance[action.Action, R]()
}

// Operators is the fermion operator registry for reader type R.
func Operators[R reader.Reader]() *factory.Registry[fermion.Operator, R] {
	return factory.Instance[fermion.Operator, R]()
}

// Solvers is the solver registry for reader type R.
func Solvers[R reader.Reader]() *factory.Registry[solver.Solver, R] {
	return factory.Instance[solver.Solver, R]()
}

var registerOnce sync.Once

// Register installs the builtin modules for the koanf reader. It is safe to
// call more than once.
func Register() {
	registerOnce.Do(register[*cfgreader.Koanf])
}

func register[R reader.Reader]() {
	gauge := Actions[R]()
	factory.NewRegistrar(gauge, "Wilson", gaugeModule[BetaGaugeActionParameters, R]("Wilson", wilson))
	factory.NewRegistrar(gauge, "Symanzik", gaugeModule[BetaGaugeActionParameters, R]("Symanzik", symanzik))
	factory.NewRegistrar(gauge, "Iwasaki", gaugeModule[BetaGaugeActionParameters, R]("Iwasaki", iwasaki))
	factory.NewRegistrar(gauge, "DBW2", gaugeModule[BetaGaugeActionParameters, R]("DBW2", dbw2))
	factory.NewRegistrar(gauge, "RBC", gaugeModule[RBCGaugeActionParameters, R]("RBC", rbc))
	factory.NewRegistrar(gauge, "PlaqPlusRect", gaugeModule[PlaqPlusRectangleGaugeActionParameters, R]("PlaqPlusRect", plaqPlusRectangle))

	factory.NewRegistrar(gauge, "TwoFlavours", pseudoFermionModule[R]("TwoFlavours", twoFlavour))
	factory.NewRegistrar(gauge, "TwoFlavoursEvenOdd", pseudoFermionModule[R]("TwoFlavoursEvenOdd", twoFlavourEvenOdd))

	factory.NewRegistrar(Operators[R](), "Laplace", newLaplaceModule[R])
	factory.NewRegistrar(Solvers[R](), "CG", newCGModule[R])
}
