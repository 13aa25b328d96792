// Package circpack provides the geometry shared by the packing heuristic and
// the nonsmooth optimizer: points, circles that may or may not be placed yet,
// overlap and containment predicates, and conversions between circle lists
// and the flat configuration vectors the optimizer works on.
package circpack

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrNoCircles    = errors.New("circpack: no circles")
	ErrUnplaced     = errors.New("circpack: circle has no center")
	ErrBadRadius    = errors.New("circpack: radius must be positive")
	ErrVectorLength = errors.New("circpack: configuration vector length mismatch")
)

type Point struct {
	X, Y float64
}

func (p Point) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Norm returns the distance from p to the origin.
func (p Point) Norm() float64 { return r2.Norm(p.vec()) }

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 { return r2.Norm(r2.Sub(p.vec(), q.vec())) }

// Circle is a circle of fixed radius that is either placed at a center or
// still waiting to be placed.  The zero value is an unplaced circle of radius
// zero.
type Circle struct {
	Radius float64
	center Point
	placed bool
}

// Unplaced returns a circle of radius r without a center.
func Unplaced(r float64) Circle { return Circle{Radius: r} }

// At returns a circle of radius r centered at p.
func At(r float64, p Point) Circle { return Circle{Radius: r, center: p, placed: true} }

// Center returns c's center and whether c has been placed.
func (c Circle) Center() (Point, bool) { return c.center, c.placed }

func (c Circle) Placed() bool { return c.placed }

// Place returns a copy of c centered at p.
func (c Circle) Place(p Point) Circle { return At(c.Radius, p) }

func (c Circle) String() string {
	if !c.placed {
		return fmt.Sprintf("{r=%v unplaced}", c.Radius)
	}
	return fmt.Sprintf("{r=%v (%v, %v)}", c.Radius, c.center.X, c.center.Y)
}

// Overlap reports whether a and b are both placed and their centers are no
// farther apart than the sum of their radii.  Touching circles overlap.
func Overlap(a, b Circle) bool {
	if !a.placed || !b.placed {
		return false
	}
	return Dist(a.center, b.center) <= a.Radius+b.Radius
}

// IsOverlap reports whether c overlaps any circle in circles.
func IsOverlap(c Circle, circles []Circle) bool {
	for _, other := range circles {
		if Overlap(c, other) {
			return true
		}
	}
	return false
}

// IsInside reports whether c is placed and lies within the enclosing circle
// of radius R centered at the origin.  A circle touching the enclosing circle
// from inside is inside.
func IsInside(c Circle, R float64) bool {
	if !c.placed {
		return false
	}
	return c.center.Norm() <= R-c.Radius
}

// IsValidPack reports whether every circle lies inside the enclosing circle
// of radius R and no two circles overlap.  It does not care how the
// arrangement was produced.
func IsValidPack(R float64, circles []Circle) bool {
	for _, c := range circles {
		if !IsInside(c, R) {
			return false
		}
	}
	for i := range circles {
		for j := i + 1; j < len(circles); j++ {
			if Overlap(circles[i], circles[j]) {
				return false
			}
		}
	}
	return true
}

// Radii returns the radius of each circle in order.
func Radii(circles []Circle) []float64 {
	radii := make([]float64, len(circles))
	for i, c := range circles {
		radii[i] = c.Radius
	}
	return radii
}

// CheckRadii returns an error if radii is empty or holds a non-positive
// value.
func CheckRadii(radii []float64) error {
	if len(radii) == 0 {
		return ErrNoCircles
	}
	for i, r := range radii {
		if !(r > 0) {
			return fmt.Errorf("radius %v (index %v): %w", r, i, ErrBadRadius)
		}
	}
	return nil
}
