package ralgo

import (
	"errors"
	"fmt"
)

var ErrBadParams = errors.New("ralgo: invalid parameters")

// Params tunes the r-algorithm.  Values are never modified in place; the
// With* methods return a modified copy.
type Params struct {
	// Alpha is the space dilation factor; it must exceed 1.
	Alpha float64
	// Q1 scales the step down after a line search that took a single step.
	Q1 float64
	// Epsx stops the run when a line search travels less than this.
	Epsx float64
	// Epsg stops the run when the subgradient norm falls below this.
	Epsg float64
	// MaxIterations caps the number of outer iterations.
	MaxIterations int
}

func DefaultParams() Params {
	return Params{
		Alpha:         3,
		Q1:            0.9,
		Epsx:          1e-6,
		Epsg:          1e-7,
		MaxIterations: 3000,
	}
}

func (p Params) WithAlpha(alpha float64) Params { p.Alpha = alpha; return p }

func (p Params) WithQ1(q1 float64) Params { p.Q1 = q1; return p }

func (p Params) WithEpsx(epsx float64) Params { p.Epsx = epsx; return p }

func (p Params) WithEpsg(epsg float64) Params { p.Epsg = epsg; return p }

func (p Params) WithMaxIterations(n int) Params { p.MaxIterations = n; return p }

func (p Params) Validate() error {
	switch {
	case !(p.Alpha > 1):
		return fmt.Errorf("alpha %v must be > 1: %w", p.Alpha, ErrBadParams)
	case !(p.Q1 > 0):
		return fmt.Errorf("q1 %v must be > 0: %w", p.Q1, ErrBadParams)
	case p.Epsx < 0 || p.Epsg < 0:
		return fmt.Errorf("tolerances (%v, %v) must be >= 0: %w", p.Epsx, p.Epsg, ErrBadParams)
	case p.MaxIterations < 0:
		return fmt.Errorf("max iterations %v must be >= 0: %w", p.MaxIterations, ErrBadParams)
	}
	return nil
}
