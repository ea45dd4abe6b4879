// Package fermion provides the lattice operators pseudofermion actions are
// built from.
package fermion

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/hmcmod/qcd/grid"
)

// ErrGridMismatch is returned when a gauge field lives on another grid.
var ErrGridMismatch = errors.New("gauge field lives on a different grid")

// Operator is a real symmetric positive definite lattice operator that
// depends on the gauge field.
type Operator interface {
	Name() string
	Grid() *grid.Grid
	// ImportGauge rebuilds the operator for u.
	ImportGauge(u *grid.GaugeField) error
	// Matrix returns the operator for the last imported field.
	Matrix() (*mat.SymDense, error)
}

// Laplace is the gauge-covariant lattice Laplacian plus a mass term:
//
//	M(x,x)    = mass + Nd
//	M(x,x+mu) = -cos(theta_mu(x)) / 2
type Laplace struct {
	grid *grid.Grid
	mass float64
	m    *mat.SymDense
}

// NewLaplace builds the operator on g. The mass must be positive so that M
// is strictly diagonally dominant.
func NewLaplace(g *grid.Grid, mass float64) (*Laplace, error) {
	if g == nil {
		return nil, errors.New("laplace: nil grid")
	}
	if mass <= 0 || math.IsNaN(mass) {
		return nil, fmt.Errorf("laplace: mass must be positive, got %g", mass)
	}
	return &Laplace{grid: g, mass: mass}, nil
}

func (l *Laplace) Name() string { return fmt.Sprintf("Laplace(mass=%g)", l.mass) }

func (l *Laplace) Grid() *grid.Grid { return l.grid }

// Mass returns the bare mass.
func (l *Laplace) Mass() float64 { return l.mass }

func (l *Laplace) ImportGauge(u *grid.GaugeField) error {
	if u.Grid() != l.grid {
		return ErrGridMismatch
	}
	g := l.grid
	n := g.Volume()
	m := mat.NewSymDense(n, nil)
	diag := l.mass + float64(g.Nd())
	for x := 0; x < n; x++ {
		m.SetSym(x, x, diag)
	}
	for x := 0; x < n; x++ {
		for mu := 0; mu < g.Nd(); mu++ {
			y := g.Shift(x, mu, 1)
			m.SetSym(x, y, m.At(x, y)-math.Cos(u.Link(x, mu))/2)
		}
	}
	l.m = m
	return nil
}

func (l *Laplace) Matrix() (*mat.SymDense, error) {
	if l.m == nil {
		return nil, errors.New("laplace: no gauge field imported")
	}
	return l.m, nil
}
