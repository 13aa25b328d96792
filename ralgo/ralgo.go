// Package ralgo minimizes the circle packing penalty function with Shor's
// r-algorithm (subgradient descent with space dilation in the direction of
// the difference of successive subgradients) and drives it with a step-size
// dichotomy that keeps shrinking the initial step until the enclosing radius
// stops improving.
package ralgo

import (
	"gonum.org/v1/gonum/mat"
)

const (
	// maxLineSearch caps the number of steps in a single line search.
	maxLineSearch = 500
	// growEvery is the number of consecutive line search steps after which
	// the step grows by growFactor.
	growEvery  = 3
	growFactor = 1.1
)

// Minimum is the best point seen by one run of Minimize.
type Minimum struct {
	X []float64
	F float64
	// Iterations is the number of outer iterations consumed.
	Iterations int
	// Evals is the number of objective evaluations performed.
	Evals int
}

// Minimize runs the r-algorithm on obj starting at x0 with initial step h.
// It returns the best point observed over the whole run, which is not
// necessarily the last iterate.  x0 is not modified.
func Minimize(obj Objectiver, x0 []float64, h float64, p Params) Minimum {
	n := len(x0)
	if n == 0 {
		panic("ralgo: empty starting point")
	}

	B := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		B.Set(i, i, 1)
	}

	x := mat.NewVecDense(n, append([]float64{}, x0...))
	g0 := mat.NewVecDense(n, nil)
	g1 := mat.NewVecDense(n, nil)
	bg := mat.NewVecDense(n, nil)
	dx := mat.NewVecDense(n, nil)
	r := mat.NewVecDense(n, nil)
	br := mat.NewVecDense(n, nil)

	best := Minimum{X: append([]float64{}, x0...)}
	best.F = obj.Objective(x.RawVector().Data, g0.RawVector().Data)
	best.Evals = 1

	if mat.Norm(g0, 2) < p.Epsg {
		return best
	}

	for iter := 0; iter < p.MaxIterations; iter++ {
		best.Iterations = iter

		// search direction in the dilated space
		bg.MulVec(B.T(), g0)
		bgnorm := mat.Norm(bg, 2)
		if bgnorm == 0 {
			return best
		}
		dx.MulVec(B, bg)
		dx.ScaleVec(1/bgnorm, dx)
		dxnorm := mat.Norm(dx, 2)

		d, ls, ddx := 1.0, 0, 0.0
		for d > 0 {
			x.AddScaledVec(x, -h, dx)
			ddx += h * dxnorm

			f := obj.Objective(x.RawVector().Data, g1.RawVector().Data)
			best.Evals++
			if f < best.F {
				best.F = f
				copy(best.X, x.RawVector().Data)
			}

			if mat.Norm(g1, 2) < p.Epsg {
				return best
			}

			ls++
			if ls%growEvery == 0 {
				h *= growFactor
			}
			if ls > maxLineSearch {
				return best
			}

			d = mat.Dot(dx, g1)
		}

		if ls == 1 {
			h *= p.Q1
		}

		if ddx < p.Epsx {
			return best
		}

		// dilate along r = Bᵀ(g1 - g0)/‖Bᵀ(g1 - g0)‖:  B += (1/alpha - 1) (B r) rᵀ
		r.SubVec(g1, g0)
		bg.MulVec(B.T(), r)
		if rnorm := mat.Norm(bg, 2); rnorm > 0 {
			r.ScaleVec(1/rnorm, bg)
			br.MulVec(B, r)
			B.RankOne(B, 1/p.Alpha-1, br, r)
		}

		g0.CopyVec(g1)
	}

	best.Iterations = p.MaxIterations
	return best
}
