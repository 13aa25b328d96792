package ralgo

import "gonum.org/v1/gonum/floats"

// Penalty weights.  P1 scales boundary and pairwise overlap violations, P2
// scales violations of the enclosing radius itself.
const (
	P1 = 2000.0
	P2 = 1000.0
)

// DefaultPenaltyEps is the slack added to every constraint before it is
// tested.  It is expressed in squared length units.
const DefaultPenaltyEps = 0.05

type Objectiver interface {
	// Objective evaluates the configuration vector x, writes the
	// subgradient into grad (which has the same length as x) and returns the
	// objective value.  Lower is better.
	Objective(x, grad []float64) float64
}

// Penalty is the exact penalty function for packing circles of the given
// radii in the smallest enclosing circle.  The configuration vector holds
// all x coordinates, then all y coordinates, then the enclosing radius R.
// Its value is R when every constraint holds with Eps to spare.
type Penalty struct {
	Radii []float64
	Eps   float64
	rmin  float64
}

func NewPenalty(radii []float64, eps float64) *Penalty {
	if len(radii) == 0 {
		panic("penalty needs at least one circle")
	}
	return &Penalty{Radii: radii, Eps: eps, rmin: floats.Min(radii)}
}

func (p *Penalty) Objective(x, grad []float64) float64 {
	n := len(p.Radii)
	if len(x) != 2*n+1 || len(grad) != len(x) {
		panic("configuration vector and gradient must have length 2n+1")
	}

	cx, cy := x[:n], x[n:2*n]
	R := x[2*n]
	gx, gy := grad[:n], grad[n:2*n]
	for i := range grad {
		grad[i] = 0
	}
	gr := 1.0

	f := R
	for i := 0; i < n; i++ {
		ri := p.Radii[i]

		// circle i must stay inside the enclosing circle
		temp := cx[i]*cx[i] + cy[i]*cy[i] - (R-ri)*(R-ri) + p.Eps
		if temp > 0 {
			f += P1 * temp
			gx[i] += P1 * cx[i]
			gy[i] += P1 * cy[i]
			gr -= P2
		}

		for j := i + 1; j < n; j++ {
			dx := cx[i] - cx[j]
			dy := cy[i] - cy[j]
			sum := ri + p.Radii[j]
			temp = -dx*dx - dy*dy + sum*sum + p.Eps
			if temp > 0 {
				f += P1 * temp
				gx[i] -= P1 * dx
				gy[i] -= P1 * dy
				gx[j] += P1 * dx
				gy[j] += P1 * dy
			}
		}
	}

	// no circle fits once R drops below the smallest radius
	if temp := p.rmin - R; temp > 0 {
		f += P2 * temp
		gr -= P2
	}

	grad[2*n] = gr
	return f
}

// ObjectiveCounter wraps an Objectiver and counts evaluations.
type ObjectiveCounter struct {
	Objectiver
	Count int
}

func NewObjectiveCounter(obj Objectiver) *ObjectiveCounter {
	return &ObjectiveCounter{Objectiver: obj}
}

func (oc *ObjectiveCounter) Objective(x, grad []float64) float64 {
	oc.Count++
	return oc.Objectiver.Objective(x, grad)
}
