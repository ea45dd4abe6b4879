package grid

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// GaugeField holds one U(1) link angle per site and direction.
type GaugeField struct {
	grid  *Grid
	links []float64
}

// NewColdField returns the unit configuration, all angles zero.
func NewColdField(g *Grid) *GaugeField {
	return &GaugeField{grid: g, links: make([]float64, g.Volume()*g.Nd())}
}

// NewHotField draws every angle uniformly from [-pi, pi).
func NewHotField(g *Grid, rng *rand.Rand) *GaugeField {
	u := NewColdField(g)
	for i := range u.links {
		u.links[i] = (2*rng.Float64() - 1) * math.Pi
	}
	return u
}

// Grid returns the layout the field lives on.
func (u *GaugeField) Grid() *Grid { return u.grid }

// Link returns the angle of the link leaving site in direction mu.
func (u *GaugeField) Link(site, mu int) float64 {
	return u.links[site*u.grid.Nd()+mu]
}

// SetLink sets the angle of the link leaving site in direction mu.
func (u *GaugeField) SetLink(site, mu int, theta float64) {
	u.links[site*u.grid.Nd()+mu] = theta
}

// Plaquette is the angle of the 1x1 loop in the mu-nu plane at site.
func (u *GaugeField) Plaquette(site, mu, nu int) float64 {
	g := u.grid
	return u.Link(site, mu) +
		u.Link(g.Shift(site, mu, 1), nu) -
		u.Link(g.Shift(site, nu, 1), mu) -
		u.Link(site, nu)
}

// Rectangle is the angle of the 2x1 loop, two steps along mu and one along nu.
func (u *GaugeField) Rectangle(site, mu, nu int) float64 {
	g := u.grid
	xmu := g.Shift(site, mu, 1)
	xnu := g.Shift(site, nu, 1)
	return u.Link(site, mu) +
		u.Link(xmu, mu) +
		u.Link(g.Shift(xmu, mu, 1), nu) -
		u.Link(g.Shift(xnu, mu, 1), mu) -
		u.Link(xnu, mu) -
		u.Link(site, nu)
}

// PlaquetteSum returns sum over sites and planes of 1-cos(plaquette), and
// the number of plaquettes.
func (u *GaugeField) PlaquetteSum() (float64, int) {
	terms := u.loops(u.Plaquette, false)
	return floats.Sum(terms), len(terms)
}

// RectangleSum returns sum over sites, planes and both orientations of
// 1-cos(rectangle), and the number of rectangles.
func (u *GaugeField) RectangleSum() (float64, int) {
	terms := u.loops(u.Rectangle, true)
	return floats.Sum(terms), len(terms)
}

// AveragePlaquette is the mean of cos(plaquette).
func (u *GaugeField) AveragePlaquette() float64 {
	sum, n := u.PlaquetteSum()
	return 1 - sum/float64(n)
}

func (u *GaugeField) loops(loop func(site, mu, nu int) float64, bothOrientations bool) []float64 {
	g := u.grid
	var terms []float64
	for site := 0; site < g.Volume(); site++ {
		for mu := 0; mu < g.Nd(); mu++ {
			for nu := mu + 1; nu < g.Nd(); nu++ {
				terms = append(terms, 1-math.Cos(loop(site, mu, nu)))
				if bothOrientations {
					terms = append(terms, 1-math.Cos(loop(site, nu, mu)))
				}
			}
		}
	}
	return terms
}
