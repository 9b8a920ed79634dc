// Package geom provides the planar geometry primitives for track paths:
// points, closed polyline paths, uniform arc-length resampling, corner-cut
// smoothing and discrete curvature estimation.
package geom

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate in a track-local planar unit. The unit is
// distance-neutral; callers convert to metres with a scale factor.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add returns p translated by the vector v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vec {
	return Vec{X: p.X - o.X, Y: p.Y - o.Y}
}

// Lerp linearly interpolates between p and o at parameter t in [0, 1].
func (p Point) Lerp(o Point, t float64) Point {
	return Point{
		X: p.X + (o.X-p.X)*t,
		Y: p.Y + (o.Y-p.Y)*t,
	}
}

// Midpoint returns the point halfway between p and o.
func (p Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (p.X + o.X),
		Y: 0.5 * (p.Y + o.Y),
	}
}

// Distance returns the euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Vec is a 2-D displacement.
type Vec struct {
	X float64
	Y float64
}

// Norm returns the euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Add returns the component-wise sum of v and o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the scalar cross product of v and o. Positive when o lies
// counter-clockwise of v.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v is shorter than eps.
func (v Vec) Normalize() Vec {
	n := v.Norm()
	if n < Eps {
		return Vec{}
	}
	return Vec{X: v.X / n, Y: v.Y / n}
}

// Rot90 returns v rotated 90 degrees counter-clockwise. Applied to a unit
// tangent it yields the local left-hand normal.
func (v Vec) Rot90() Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Eps is the length floor below which segments are treated as degenerate.
const Eps = 1e-9
