package pack

import (
	"math"

	"github.com/rwcarlsen/circpack"
)

const (
	// Gap is left between a newly seated circle and the circles it is
	// seated against so that floating point round-off does not turn a
	// tangency into an overlap.
	Gap = 1e-6
	// singular rejects tangency systems whose centers are (nearly)
	// coincident.
	singular = 1e-6
)

func deg(rad float64) float64 { return rad * 180 / math.Pi }

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// RotatedPoint returns the point at distance rho from the origin rotated
// clockwise by angle degrees from the positive y axis.
func RotatedPoint(rho, angle float64) circpack.Point {
	s, c := math.Sincos(rad(angle))
	return circpack.Point{X: rho * s, Y: rho * c}
}

// ExtraAngle approximates, in degrees, the angle between the centers of two
// circles of radii r1 and r2 that touch each other and the inside of an
// enclosing circle of radius R.
func ExtraAngle(r1, r2, R float64) float64 {
	return deg(math.Atan(r1/(R-r1)) + math.Atan(r2/(R-r2)))
}

// TangentAngle returns the exact angle, in degrees, between the centers of
// two circles of radii r1 and r2 that touch each other and the inside of an
// enclosing circle of radius R.  ok is false if both cannot touch the
// enclosing circle without overlapping.
func TangentAngle(r1, r2, R float64) (angle float64, ok bool) {
	a, b := R-r1, R-r2
	if a <= 0 || b <= 0 {
		return 0, false
	}
	d := r1 + r2
	cos := (a*a + b*b - d*d) / (2 * a * b)
	if cos < -1 {
		return 0, false
	}
	return deg(math.Acos(math.Min(cos, 1))), true
}

// intersect returns the intersection points of the circle of radius rho1
// around c1 and the circle of radius rho2 around c2.
func intersect(c1 circpack.Point, rho1 float64, c2 circpack.Point, rho2 float64) (p, q circpack.Point, ok bool) {
	dx, dy := c2.X-c1.X, c2.Y-c1.Y
	d2 := dx*dx + dy*dy
	if d2 < singular {
		return p, q, false
	}

	// The chord through both intersections is the line
	//    2*dx*x + 2*dy*y = e
	// in coordinates relative to c1; a is its distance from c1 along c1->c2.
	e := rho1*rho1 - rho2*rho2 + d2
	a := e / (2 * math.Sqrt(d2))
	disc := rho1*rho1 - a*a
	if disc <= 0 {
		return p, q, false
	}

	d := math.Sqrt(d2)
	h := math.Sqrt(disc)
	ux, uy := dx/d, dy/d
	mx, my := c1.X+a*ux, c1.Y+a*uy
	p = circpack.Point{X: mx - h*uy, Y: my + h*ux}
	q = circpack.Point{X: mx + h*uy, Y: my - h*ux}
	return p, q, true
}

// TouchMain returns the (up to two) centers at which a circle of radius r
// touches both the inside of the enclosing circle of radius R and the placed
// circle prev.
func TouchMain(prev circpack.Circle, r, R float64) (p, q circpack.Point, ok bool) {
	center, placed := prev.Center()
	if !placed {
		return p, q, false
	}
	return intersect(circpack.Point{}, R-r-Gap, center, prev.Radius+r+Gap)
}

// ClosestCenter returns the center closest to the origin at which a circle
// of radius r touches both placed circles c1 and c2.
func ClosestCenter(c1, c2 circpack.Circle, r float64) (circpack.Point, bool) {
	p1, ok1 := c1.Center()
	p2, ok2 := c2.Center()
	if !ok1 || !ok2 {
		return circpack.Point{}, false
	}

	// too far apart for a circle of radius r to touch both
	reach := 2*r + c1.Radius + c2.Radius
	if dx, dy := p1.X-p2.X, p1.Y-p2.Y; dx*dx+dy*dy > reach*reach {
		return circpack.Point{}, false
	}

	p, q, ok := intersect(p1, c1.Radius+r+Gap, p2, c2.Radius+r+Gap)
	if !ok {
		return circpack.Point{}, false
	}
	if q.Norm() < p.Norm() {
		return q, true
	}
	return p, true
}
