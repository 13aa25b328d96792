// Package pack builds packings of circles in an enclosing circle
// constructively: a ring of circles tangent to the enclosing circle first,
// then circles seated in the gaps, then circles tangent to pairs of already
// placed ones.  A Searcher bisects on the enclosing radius and shuffles the
// placement order to find small enclosing circles.
package pack

import (
	"fmt"

	"github.com/rwcarlsen/circpack"
	"gonum.org/v1/gonum/floats"
)

// AngleTol is the precision, in degrees, of the angular bisection that
// seats ring circles against their predecessor.
const AngleTol = 1e-4

// maxPartners is the number of following front circles each front circle is
// paired with during the pair passes.
const maxPartners = 2

type packer struct {
	R       float64
	circles []circpack.Circle
	// placed holds the indices of placed circles in placement order.
	placed []int
}

func (pk *packer) fits(c circpack.Circle) bool {
	if !circpack.IsInside(c, pk.R) {
		return false
	}
	for _, i := range pk.placed {
		if circpack.Overlap(c, pk.circles[i]) {
			return false
		}
	}
	return true
}

func (pk *packer) place(i int, p circpack.Point) {
	pk.circles[i] = pk.circles[i].Place(p)
	pk.placed = append(pk.placed, i)
}

func (pk *packer) done() bool { return len(pk.placed) == len(pk.circles) }

// PackCircles tries to place circles of the given radii, in the given order,
// inside the enclosing circle of radius R centered at the origin.  It returns
// the placed circles (in input order) and true if every circle could be
// placed without overlap.  PackCircles panics if radii is empty or holds a
// non-positive radius.
func PackCircles(radii []float64, R float64) ([]circpack.Circle, bool) {
	if err := circpack.CheckRadii(radii); err != nil {
		panic(fmt.Sprintf("pack: %v", err))
	}
	if R < floats.Max(radii) {
		return nil, false
	}

	pk := &packer{R: R, circles: make([]circpack.Circle, len(radii))}
	for i, r := range radii {
		pk.circles[i] = circpack.Unplaced(r)
	}

	front := pk.ring()
	front = pk.gaps(front)
	pk.pairs(front)

	if !pk.done() {
		return nil, false
	}
	return pk.circles, true
}

// ring places circles clockwise along the enclosing circle, each one as
// close to its predecessor on the ring as possible, and returns the ring
// circles in placement order.  Circles that do not fit before the ring
// closes stay unplaced.
func (pk *packer) ring() []int {
	rg := pk.R - Gap
	r0 := pk.circles[0].Radius
	pk.place(0, RotatedPoint(max(0, rg-r0), 0))
	front := []int{0}

	prev, prevAngle := 0, 0.0
	for i := 1; i < len(pk.circles); i++ {
		r1, r2 := pk.circles[prev].Radius, pk.circles[i].Radius
		exact, ok := TangentAngle(r1, r2, rg)
		if !ok {
			continue
		}

		at := func(angle float64) circpack.Circle {
			return circpack.At(r2, RotatedPoint(rg-r2, angle))
		}

		hi := prevAngle + exact + AngleTol
		if hi >= 360 || !pk.fits(at(hi)) {
			continue
		}

		lo := prevAngle + ExtraAngle(r1, r2, rg)
		if lo >= hi {
			lo = prevAngle
		}
		angle := lo
		if !pk.fits(at(lo)) {
			for hi-lo > AngleTol {
				mid := (lo + hi) / 2
				if pk.fits(at(mid)) {
					hi = mid
				} else {
					lo = mid
				}
			}
			angle = hi
		}

		pk.place(i, RotatedPoint(rg-r2, angle))
		front = append(front, i)
		prev, prevAngle = i, angle
	}
	return front
}

// gaps seats at most one unplaced circle against each front circle so that
// it touches both the front circle and the enclosing circle.  The returned
// front includes the newly placed circles.
func (pk *packer) gaps(front []int) []int {
	var added []int
	for _, f := range front {
		for i := range pk.circles {
			if pk.circles[i].Placed() {
				continue
			}
			p, q, ok := TouchMain(pk.circles[f], pk.circles[i].Radius, pk.R)
			if !ok {
				continue
			}
			if pk.seat(i, p, q) {
				added = append(added, i)
				break
			}
		}
	}
	return append(front, added...)
}

// seat places circle i at the first candidate center where it fits.
func (pk *packer) seat(i int, candidates ...circpack.Point) bool {
	for _, p := range candidates {
		if pk.fits(circpack.At(pk.circles[i].Radius, p)) {
			pk.place(i, p)
			return true
		}
	}
	return false
}

// pairs repeatedly seats unplaced circles against pairs of front circles,
// each front circle paired with its next maxPartners successors.  Circles
// placed in a pass join the front for the next one.  It stops once a pass
// places nothing.
func (pk *packer) pairs(front []int) {
	for !pk.done() {
		var added []int
		for idx := range front {
			if i, ok := pk.pairOne(front, idx); ok {
				added = append(added, i)
			}
		}
		if len(added) == 0 {
			return
		}
		front = append(front, added...)
	}
}

// pairOne places at most one unplaced circle tangent to front[idx] and one
// of its successors in front.
func (pk *packer) pairOne(front []int, idx int) (int, bool) {
	nf := len(front)
	c1 := pk.circles[front[idx]]
	for j := 1; j <= maxPartners && j < nf; j++ {
		c2 := pk.circles[front[(idx+j)%nf]]
		for i := range pk.circles {
			if pk.circles[i].Placed() {
				continue
			}
			p, ok := ClosestCenter(c1, c2, pk.circles[i].Radius)
			if ok && pk.seat(i, p) {
				return i, true
			}
		}
	}
	return 0, false
}
