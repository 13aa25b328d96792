package circpack

import "fmt"

// ToVector flattens an arrangement into the configuration vector
//
//    [x0 ... xn-1, y0 ... yn-1, R]
//
// used by the optimizer.  Every circle must be placed.
func ToVector(R float64, circles []Circle) ([]float64, error) {
	n := len(circles)
	if n == 0 {
		return nil, ErrNoCircles
	}

	x := make([]float64, 2*n+1)
	for i, c := range circles {
		if !(c.Radius > 0) {
			return nil, fmt.Errorf("circle %v: %w", i, ErrBadRadius)
		}
		p, ok := c.Center()
		if !ok {
			return nil, fmt.Errorf("circle %v: %w", i, ErrUnplaced)
		}
		x[i] = p.X
		x[n+i] = p.Y
	}
	x[2*n] = R
	return x, nil
}

// FromVector is the inverse of ToVector.  radii gives the radius of each
// circle in the same order the centers appear in x.
func FromVector(x, radii []float64) (R float64, circles []Circle, err error) {
	n := len(radii)
	if n == 0 {
		return 0, nil, ErrNoCircles
	} else if len(x) != 2*n+1 {
		return 0, nil, fmt.Errorf("got %v values for %v circles: %w", len(x), n, ErrVectorLength)
	}

	circles = make([]Circle, n)
	for i, r := range radii {
		circles[i] = At(r, Point{X: x[i], Y: x[n+i]})
	}
	return x[2*n], circles, nil
}
