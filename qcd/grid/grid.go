// Package grid describes the periodic hypercubic lattice shared by actions
// and operators, and the U(1) gauge field living on its links.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidDims is returned for empty or non-positive lattice extents.
var ErrInvalidDims = errors.New("invalid lattice dimensions")

// Grid is an immutable periodic lattice layout.
type Grid struct {
	dims    []int
	strides []int
	volume  int
}

// New builds a layout with the given extents, fastest direction first.
func New(dims []int) (*Grid, error) {
	if len(dims) < 2 {
		return nil, fmt.Errorf("%w: need at least two directions, got %d", ErrInvalidDims, len(dims))
	}
	g := &Grid{dims: append([]int(nil), dims...), strides: make([]int, len(dims)), volume: 1}
	for mu, n := range dims {
		if n < 2 || n%2 != 0 {
			return nil, fmt.Errorf("%w: extent %d in direction %d must be even and at least 2", ErrInvalidDims, n, mu)
		}
		g.strides[mu] = g.volume
		g.volume *= n
	}
	return g, nil
}

// Nd is the number of directions.
func (g *Grid) Nd() int { return len(g.dims) }

// Dims returns a copy of the extents.
func (g *Grid) Dims() []int { return append([]int(nil), g.dims...) }

// Volume is the number of sites.
func (g *Grid) Volume() int { return g.volume }

// Coord returns the coordinates of site.
func (g *Grid) Coord(site int) []int {
	c := make([]int, len(g.dims))
	for mu, n := range g.dims {
		c[mu] = site % n
		site /= n
	}
	return c
}

// Index is the inverse of Coord. Coordinates are taken modulo the extents.
func (g *Grid) Index(coord []int) int {
	site := 0
	for mu, n := range g.dims {
		x := ((coord[mu] % n) + n) % n
		site += x * g.strides[mu]
	}
	return site
}

// Shift returns the neighbour of site displaced by steps in direction mu.
func (g *Grid) Shift(site, mu, steps int) int {
	n := g.dims[mu]
	x := (site / g.strides[mu]) % n
	nx := ((x+steps)%n + n) % n
	return site + (nx-x)*g.strides[mu]
}

// Parity is 0 on even sites and 1 on odd ones.
func (g *Grid) Parity(site int) int {
	sum := 0
	for _, x := range g.Coord(site) {
		sum += x
	}
	return sum % 2
}

// Checkerboard splits the sites by parity, each list in ascending order.
func (g *Grid) Checkerboard() (even, odd []int) {
	for site := 0; site < g.volume; site++ {
		if g.Parity(site) == 0 {
			even = append(even, site)
		} else {
			odd = append(odd, site)
		}
	}
	return even, odd
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid%v", g.dims)
}
