// Package pop generates random starting arrangements for the optimizer.
// Circles are scattered uniformly over a disk with no regard for overlap;
// the penalty function is left to push them apart.
package pop

import (
	"math"
	"math/rand"

	"github.com/petar/GoLLRB/llrb"
	"github.com/rwcarlsen/circpack"
	"gonum.org/v1/gonum/floats"
)

// GenRadius returns the radius of the disk random arrangements are drawn
// from: a little larger than a circle with the total area of all circles.
func GenRadius(radii []float64) float64 {
	return 1.2 * math.Sqrt(floats.Dot(radii, radii))
}

// Random places one circle per radius at a center drawn uniformly from the
// disk of radius Rg centered at the origin.
func Random(rng *rand.Rand, radii []float64, Rg float64) []circpack.Circle {
	circles := make([]circpack.Circle, len(radii))
	for i, r := range radii {
		circles[i] = circpack.At(r, point(rng, Rg))
	}
	return circles
}

// point draws from the disk of radius Rg by rejection from its bounding
// square.
func point(rng *rand.Rand, Rg float64) circpack.Point {
	for {
		p := circpack.Point{
			X: Rg * (2*rng.Float64() - 1),
			Y: Rg * (2*rng.Float64() - 1),
		}
		if p.Norm() <= Rg {
			return p
		}
	}
}

// Enclosing returns the radius of the smallest origin-centered circle that
// contains every placed circle.
func Enclosing(circles []circpack.Circle) float64 {
	R := 0.0
	for _, c := range circles {
		if p, ok := c.Center(); ok {
			R = math.Max(R, p.Norm()+c.Radius)
		}
	}
	return R
}

// Overlap returns the summed pairwise overlap depth of circles.  It is zero
// only if no two circles intersect.
func Overlap(circles []circpack.Circle) float64 {
	tot := 0.0
	for i, a := range circles {
		pa, _ := a.Center()
		for _, b := range circles[i+1:] {
			pb, _ := b.Center()
			if d := a.Radius + b.Radius - circpack.Dist(pa, pb); d > 0 {
				tot += d
			}
		}
	}
	return tot
}

type item struct {
	circles []circpack.Circle
	howbad  float64
	seq     int
}

func (a item) Less(than llrb.Item) bool {
	b := than.(item)
	if a.howbad != b.howbad {
		return a.howbad < b.howbad
	}
	return a.seq < b.seq
}

// Sample generates up to maxiter random arrangements and returns the n with
// the least overlap, best first.  Overlap-free arrangements end the search
// early once n of them have been found.  nbad is the number of returned
// arrangements that still overlap.
func Sample(rng *rand.Rand, radii []float64, Rg float64, n, maxiter int) (arrangements [][]circpack.Circle, nbad, iter int) {
	if n <= 0 {
		return nil, 0, 0
	}

	violaters := llrb.New()
	arrangements = make([][]circpack.Circle, 0, n)
	for iter = 0; iter < maxiter; iter++ {
		circles := Random(rng, radii, Rg)
		howbad := Overlap(circles)
		if howbad == 0 {
			arrangements = append(arrangements, circles)
			if len(arrangements) == n {
				return arrangements, 0, iter + 1
			}
			continue
		}

		violaters.InsertNoReplace(item{circles: circles, howbad: howbad, seq: iter})
		for violaters.Len() > n-len(arrangements) {
			violaters.DeleteMax()
		}
	}

	nbad = violaters.Len()
	for violaters.Len() > 0 {
		arrangements = append(arrangements, violaters.DeleteMin().(item).circles)
	}
	return arrangements, nbad, maxiter
}
