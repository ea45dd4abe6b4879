package action

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/hmcmod/qcd/fermion"
	"github.com/kilianp07/hmcmod/qcd/grid"
	"github.com/kilianp07/hmcmod/qcd/solver"
)

func hotField(t *testing.T, dims ...int) *grid.GaugeField {
	t.Helper()
	g, err := grid.New(dims)
	require.NoError(t, err)
	return grid.NewHotField(g, rand.New(rand.NewPCG(7, 11)))
}

func TestGaugeActionsVanishOnColdField(t *testing.T) {
	g, err := grid.New([]int{4, 4})
	require.NoError(t, err)
	u := grid.NewColdField(g)
	for _, a := range []Action{
		NewWilson(5.4), NewSymanzik(4), NewIwasaki(2.6), NewDBW2(1), NewRBC(2.13, -0.2), NewPlaqPlusRectangle(1, 0.1),
	} {
		s, err := a.S(u)
		require.NoError(t, err)
		assert.Zero(t, s, a.Name())
		assert.NoError(t, a.Refresh(u, nil))
	}
}

func TestGaugeActionCoefficients(t *testing.T) {
	u := hotField(t, 4, 4)
	plaq, _ := u.PlaquetteSum()
	rect, _ := u.RectangleSum()

	tests := []struct {
		name   string
		action *Gauge
		want   float64
	}{
		{"wilson", NewWilson(5.4), 5.4 * plaq},
		{"symanzik", NewSymanzik(2), 2 * ((1+8.0/12)*plaq - rect/12)},
		{"iwasaki", NewIwasaki(2), 2 * ((1+8*0.331)*plaq - 0.331*rect)},
		{"dbw2", NewDBW2(1), (1+8*1.4067)*plaq - 1.4067*rect},
		{"rbc", NewRBC(3, -0.5), 3 * (5*plaq - 0.5*rect)},
		{"plaq plus rect", NewPlaqPlusRectangle(0.7, 0.3), 0.7*plaq + 0.3*rect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.action.S(u)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s, 1e-9)
		})
	}
	beta, c0, c1 := NewSymanzik(1).Coefficients()
	assert.Equal(t, 1.0, beta)
	assert.InDelta(t, 5.0/3.0, c0, 1e-15)
	assert.Equal(t, SymanzikC1, c1)
}

func denseAction(t *testing.T, m mat.Symmetric, phi *mat.VecDense) float64 {
	t.Helper()
	var mtm mat.SymDense
	mtm.SymOuterK(1, m)
	var chol mat.Cholesky
	require.True(t, chol.Factorize(&mtm))
	var x mat.VecDense
	require.NoError(t, chol.SolveVecTo(&x, phi))
	return mat.Dot(phi, &x)
}

func TestTwoFlavour(t *testing.T) {
	u := hotField(t, 4, 4)
	op, err := fermion.NewLaplace(u.Grid(), 0.2)
	require.NoError(t, err)
	cg, err := solver.NewCG(1e-12, 1000)
	require.NoError(t, err)
	a := NewTwoFlavour(op, cg)

	_, err = a.S(u)
	assert.ErrorIs(t, err, ErrNotRefreshed)

	require.NoError(t, a.Refresh(u, rand.New(rand.NewPCG(1, 1))))
	s, err := a.S(u)
	require.NoError(t, err)
	m, err := op.Matrix()
	require.NoError(t, err)
	assert.InDelta(t, denseAction(t, m, a.phi), s, 1e-8)
	assert.Greater(t, s, 0.0)
	assert.Contains(t, a.Name(), "Laplace")
}

func TestTwoFlavourEvenOdd(t *testing.T) {
	u := hotField(t, 4, 4)
	op, err := fermion.NewLaplace(u.Grid(), 0.2)
	require.NoError(t, err)
	cg, err := solver.NewCG(1e-12, 1000)
	require.NoError(t, err)
	a := NewTwoFlavourEvenOdd(op, cg)

	_, err = a.S(u)
	assert.ErrorIs(t, err, ErrNotRefreshed)

	require.NoError(t, a.Refresh(u, rand.New(rand.NewPCG(2, 2))))
	assert.Equal(t, u.Grid().Volume()/2, a.phi.Len())
	s, err := a.S(u)
	require.NoError(t, err)
	m, err := op.Matrix()
	require.NoError(t, err)
	assert.InDelta(t, denseAction(t, SchurComplement(m, u.Grid()), a.phi), s, 1e-8)
}

func TestSchurComplementDeterminant(t *testing.T) {
	u := hotField(t, 4, 2)
	op, err := fermion.NewLaplace(u.Grid(), 0.3)
	require.NoError(t, err)
	require.NoError(t, op.ImportGauge(u))
	m, err := op.Matrix()
	require.NoError(t, err)

	// det M = det Moo * det Mhat, and Moo is diagonal.
	detOdd := 1.0
	_, odd := u.Grid().Checkerboard()
	for _, y := range odd {
		detOdd *= m.At(y, y)
	}
	assert.InEpsilon(t, mat.Det(m), detOdd*mat.Det(SchurComplement(m, u.Grid())), 1e-9)
}

func TestSolverFailurePropagates(t *testing.T) {
	u := hotField(t, 4, 4)
	op, err := fermion.NewLaplace(u.Grid(), 0.01)
	require.NoError(t, err)
	cg, err := solver.NewCG(1e-14, 1)
	require.NoError(t, err)
	a := NewTwoFlavour(op, cg)
	require.NoError(t, a.Refresh(u, rand.New(rand.NewPCG(5, 5))))
	_, err = a.S(u)
	assert.ErrorIs(t, err, solver.ErrNotConverged)
}
