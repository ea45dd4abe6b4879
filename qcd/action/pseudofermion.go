package action

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/hmcmod/qcd/fermion"
	"github.com/kilianp07/hmcmod/qcd/grid"
	"github.com/kilianp07/hmcmod/qcd/solver"
)

// ErrNotRefreshed is returned when S is evaluated before any Refresh.
var ErrNotRefreshed = errors.New("pseudofermion field not refreshed")

// TwoFlavourPseudoFermion is S = phi^T (M^T M)^-1 phi for two degenerate
// flavours of the operator M.
type TwoFlavourPseudoFermion struct {
	op     fermion.Operator
	solver solver.Solver
	phi    *mat.VecDense
}

// NewTwoFlavour builds the action on op, inverting with s.
func NewTwoFlavour(op fermion.Operator, s solver.Solver) *TwoFlavourPseudoFermion {
	return &TwoFlavourPseudoFermion{op: op, solver: s}
}

func (a *TwoFlavourPseudoFermion) Name() string {
	return fmt.Sprintf("TwoFlavour(%s)", a.op.Name())
}

// Refresh draws eta with weight exp(-eta^2) and sets phi = M^T eta, so that
// S equals eta^T eta right after the refresh.
func (a *TwoFlavourPseudoFermion) Refresh(u *grid.GaugeField, rng *rand.Rand) error {
	m, err := importMatrix(a.op, u)
	if err != nil {
		return err
	}
	a.phi = refresh(m, rng)
	return nil
}

func (a *TwoFlavourPseudoFermion) S(u *grid.GaugeField) (float64, error) {
	if a.phi == nil {
		return 0, ErrNotRefreshed
	}
	m, err := importMatrix(a.op, u)
	if err != nil {
		return 0, err
	}
	return normalEquationAction(m, a.phi, a.solver)
}

// TwoFlavourEvenOddPseudoFermion is the two flavour action preconditioned on
// even sites with the Schur complement Mhat = Mee - Meo Moo^-1 Moe.
type TwoFlavourEvenOddPseudoFermion struct {
	op     fermion.Operator
	solver solver.Solver
	phi    *mat.VecDense
}

// NewTwoFlavourEvenOdd builds the preconditioned action on op.
func NewTwoFlavourEvenOdd(op fermion.Operator, s solver.Solver) *TwoFlavourEvenOddPseudoFermion {
	return &TwoFlavourEvenOddPseudoFermion{op: op, solver: s}
}

func (a *TwoFlavourEvenOddPseudoFermion) Name() string {
	return fmt.Sprintf("TwoFlavourEvenOdd(%s)", a.op.Name())
}

func (a *TwoFlavourEvenOddPseudoFermion) Refresh(u *grid.GaugeField, rng *rand.Rand) error {
	m, err := importMatrix(a.op, u)
	if err != nil {
		return err
	}
	a.phi = refresh(SchurComplement(m, a.op.Grid()), rng)
	return nil
}

func (a *TwoFlavourEvenOddPseudoFermion) S(u *grid.GaugeField) (float64, error) {
	if a.phi == nil {
		return 0, ErrNotRefreshed
	}
	m, err := importMatrix(a.op, u)
	if err != nil {
		return 0, err
	}
	return normalEquationAction(SchurComplement(m, a.op.Grid()), a.phi, a.solver)
}

// SchurComplement returns Mhat on the even sites of g, in checkerboard order.
func SchurComplement(m mat.Symmetric, g *grid.Grid) *mat.SymDense {
	even, odd := g.Checkerboard()
	mee := mat.NewSymDense(len(even), nil)
	for i, x := range even {
		for j := i; j < len(even); j++ {
			mee.SetSym(i, j, m.At(x, even[j]))
		}
	}
	// W = Meo Moo^-1/2, so that Meo Moo^-1 Moe = W W^T.
	w := mat.NewDense(len(even), len(odd), nil)
	for k, y := range odd {
		scale := 1 / math.Sqrt(m.At(y, y))
		for i, x := range even {
			w.Set(i, k, m.At(x, y)*scale)
		}
	}
	var wwt mat.SymDense
	wwt.SymOuterK(-1, w)
	schur := mat.NewSymDense(len(even), nil)
	schur.AddSym(mee, &wwt)
	return schur
}

func importMatrix(op fermion.Operator, u *grid.GaugeField) (*mat.SymDense, error) {
	if err := op.ImportGauge(u); err != nil {
		return nil, err
	}
	return op.Matrix()
}

func refresh(m mat.Symmetric, rng *rand.Rand) *mat.VecDense {
	n := m.SymmetricDim()
	eta := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		eta.SetVec(i, rng.NormFloat64()/math.Sqrt2)
	}
	phi := mat.NewVecDense(n, nil)
	phi.MulVec(m.T(), eta)
	return phi
}

// normalEquationAction computes phi^T (M^T M)^-1 phi.
func normalEquationAction(m mat.Symmetric, phi *mat.VecDense, s solver.Solver) (float64, error) {
	var mtm mat.SymDense
	mtm.SymOuterK(1, m)
	x, _, err := s.Solve(&mtm, phi)
	if err != nil {
		return 0, err
	}
	return mat.Dot(phi, x), nil
}
