// Package geom holds the screen-space primitives shared by the chart engine:
// points and axis-aligned rectangles (backed by golang/geo's r2 package),
// distance helpers used by hit testing, and a 2D affine matrix.
package geom

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Point is a 2D point in screen or data space.
type Point = r2.Point

// Rect is an axis-aligned rectangle. X spans left..right and Y spans
// top..bottom in screen space (Y grows downward).
type Rect = r2.Rect

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// RectLTRB builds a rectangle from its edges.
func RectLTRB(left, top, right, bottom float64) Rect {
	return Rect{
		X: r1.Interval{Lo: math.Min(left, right), Hi: math.Max(left, right)},
		Y: r1.Interval{Lo: math.Min(top, bottom), Hi: math.Max(top, bottom)},
	}
}

// RectXYWH builds a rectangle from its top-left corner and size.
func RectXYWH(x, y, width, height float64) Rect {
	return RectLTRB(x, y, x+width, y+height)
}

// RectAround returns the square of half-size radius centred on c.
func RectAround(c Point, radius float64) Rect {
	return RectLTRB(c.X-radius, c.Y-radius, c.X+radius, c.Y+radius)
}

// Empty returns a rectangle that contains nothing; Union with it is a no-op.
func Empty() Rect {
	return r2.EmptyRect()
}

// Width returns the horizontal extent of r (0 for an empty rect).
func Width(r Rect) float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.X.Length()
}

// Height returns the vertical extent of r (0 for an empty rect).
func Height(r Rect) float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Y.Length()
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// DistanceToRect returns 0 when p lies inside or on r, else the gap to the
// nearest edge. An empty rect is infinitely far away.
func DistanceToRect(p Point, r Rect) float64 {
	if r.IsEmpty() {
		return math.Inf(1)
	}
	dx := math.Max(0, math.Max(r.X.Lo-p.X, p.X-r.X.Hi))
	dy := math.Max(0, math.Max(r.Y.Lo-p.Y, p.Y-r.Y.Hi))
	if dx == 0 {
		return dy
	}
	if dy == 0 {
		return dx
	}
	return math.Hypot(dx, dy)
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(p, a.Add(ab.Mul(t)))
}

// BoundingRect returns the smallest rect containing every point.
func BoundingRect(points []Point) Rect {
	if len(points) == 0 {
		return Empty()
	}
	return r2.RectFromPoints(points...)
}

// NormalizeAngle maps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
