package modules

// BetaGaugeActionParameters configures single-coupling gauge actions.
type BetaGaugeActionParameters struct {
	Beta float64 `json:"beta" validate:"gt=0"`
}

// RBCGaugeActionParameters configures the rectangle-improved family.
type RBCGaugeActionParameters struct {
	Beta float64 `json:"beta" validate:"gt=0"`
	C1   float64 `json:"c1"`
}

// PlaqPlusRectangleGaugeActionParameters weights plaquettes and rectangles.
type PlaqPlusRectangleGaugeActionParameters struct {
	CPlaq float64 `json:"c_plaq"`
	CRect float64 `json:"c_rect"`
}

// LaplaceParameters configures the Laplace operator.
type LaplaceParameters struct {
	Mass float64 `json:"mass" validate:"gt=0"`
}

// CGParameters configures the conjugate gradient solver.
type CGParameters struct {
	Tolerance     float64 `json:"tolerance" validate:"gt=0"`
	MaxIterations int     `json:"max_iterations" validate:"gt=0"`
}
