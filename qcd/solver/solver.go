// Package solver holds the linear solvers used by pseudofermion actions.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged is returned when the residual target is not reached.
var ErrNotConverged = errors.New("solver did not converge")

// Stats describes one solve.
type Stats struct {
	Iterations int
	Residual   float64
}

// Solver solves a x = b for a symmetric positive definite a.
type Solver interface {
	Solve(a mat.Symmetric, b mat.Vector) (*mat.VecDense, Stats, error)
}

// CG is the conjugate gradient method.
type CG struct {
	Tolerance     float64
	MaxIterations int
}

// NewCG validates the stopping criteria.
func NewCG(tolerance float64, maxIterations int) (*CG, error) {
	if tolerance <= 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("tolerance must be positive, got %g", tolerance)
	}
	if maxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", maxIterations)
	}
	return &CG{Tolerance: tolerance, MaxIterations: maxIterations}, nil
}

// Solve stops once |r|/|b| falls below the tolerance.
func (s *CG) Solve(a mat.Symmetric, b mat.Vector) (*mat.VecDense, Stats, error) {
	n := b.Len()
	if r, _ := a.Dims(); r != n {
		return nil, Stats{}, fmt.Errorf("dimension mismatch: matrix %d, vector %d", r, n)
	}
	x := mat.NewVecDense(n, nil)
	bnorm := mat.Norm(b, 2)
	if bnorm == 0 {
		return x, Stats{}, nil
	}

	res := mat.VecDenseCopyOf(b)
	p := mat.VecDenseCopyOf(b)
	ap := mat.NewVecDense(n, nil)
	rr := mat.Dot(res, res)
	for k := 1; k <= s.MaxIterations; k++ {
		ap.MulVec(a, p)
		alpha := rr / mat.Dot(p, ap)
		x.AddScaledVec(x, alpha, p)
		res.AddScaledVec(res, -alpha, ap)
		next := mat.Dot(res, res)
		rel := math.Sqrt(next) / bnorm
		if rel < s.Tolerance {
			return x, Stats{Iterations: k, Residual: rel}, nil
		}
		p.AddScaledVec(res, next/rr, p)
		rr = next
	}
	return x, Stats{Iterations: s.MaxIterations, Residual: math.Sqrt(rr) / bnorm},
		fmt.Errorf("%w after %d iterations", ErrNotConverged, s.MaxIterations)
}
