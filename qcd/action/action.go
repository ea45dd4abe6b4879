// Package action implements the action terms of the U(1) lattice theory.
package action

import (
	"fmt"
	"math/rand/v2"

	"github.com/kilianp07/hmcmod/qcd/grid"
)

// Action is one term of the total HMC action.
type Action interface {
	Name() string
	// S evaluates the action on u.
	S(u *grid.GaugeField) (float64, error)
	// Refresh draws new auxiliary fields at the start of a trajectory.
	Refresh(u *grid.GaugeField, rng *rand.Rand) error
}

// Improvement coefficients of the rectangle term.
const (
	SymanzikC1 = -1.0 / 12.0
	IwasakiC1  = -0.331
	DBW2C1     = -1.4067
)

// Gauge combines plaquettes and 2x1 rectangles:
//
//	S = beta * sum [ c0 (1 - cos P) + c1 (1 - cos R) ]
type Gauge struct {
	name string
	beta float64
	c0   float64
	c1   float64
}

// NewWilson is the plaquette action.
func NewWilson(beta float64) *Gauge {
	return &Gauge{name: "Wilson", beta: beta, c0: 1}
}

// NewRBC is the rectangle-improved action with c0 = 1 - 8 c1.
func NewRBC(beta, c1 float64) *Gauge {
	return &Gauge{name: "RBC", beta: beta, c0: 1 - 8*c1, c1: c1}
}

// NewSymanzik is the tree-level Symanzik improved action.
func NewSymanzik(beta float64) *Gauge {
	g := NewRBC(beta, SymanzikC1)
	g.name = "Symanzik"
	return g
}

// NewIwasaki is the Iwasaki RG improved action.
func NewIwasaki(beta float64) *Gauge {
	g := NewRBC(beta, IwasakiC1)
	g.name = "Iwasaki"
	return g
}

// NewDBW2 is the doubly blocked Wilson action.
func NewDBW2(beta float64) *Gauge {
	g := NewRBC(beta, DBW2C1)
	g.name = "DBW2"
	return g
}

// NewPlaqPlusRectangle weights plaquettes and rectangles directly.
func NewPlaqPlusRectangle(cPlaq, cRect float64) *Gauge {
	return &Gauge{name: "PlaqPlusRectangle", beta: 1, c0: cPlaq, c1: cRect}
}

func (a *Gauge) Name() string {
	return fmt.Sprintf("%s(beta=%g, c0=%g, c1=%g)", a.name, a.beta, a.c0, a.c1)
}

// Coefficients returns beta, c0 and c1.
func (a *Gauge) Coefficients() (beta, c0, c1 float64) { return a.beta, a.c0, a.c1 }

func (a *Gauge) S(u *grid.GaugeField) (float64, error) {
	plaq, _ := u.PlaquetteSum()
	s := a.c0 * plaq
	if a.c1 != 0 {
		rect, _ := u.RectangleSum()
		s += a.c1 * rect
	}
	return a.beta * s, nil
}

// Refresh is a no-op: gauge actions have no auxiliary fields.
func (a *Gauge) Refresh(*grid.GaugeField, *rand.Rand) error { return nil }
