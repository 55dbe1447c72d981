package hittest

import (
	"math"

	"github.com/inamate/chartgeo/internal/geom"
)

// Kind tags the geometry carried by a Target.
type Kind uint8

const (
	KindCircle Kind = iota
	KindRect
	KindStroke
	KindSector
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindStroke:
		return "stroke"
	case KindSector:
		return "sector"
	default:
		return "unknown"
	}
}

// Target is an interactive region registered for one frame. Only the fields
// relevant to Kind are read.
type Target struct {
	Kind Kind
	Info DataPointInfo

	// Circle and sector.
	Center geom.Point
	Radius float64

	// Rect.
	Region geom.Rect

	// Stroke: a polyline of the given width.
	Path  []geom.Point
	Width float64

	// Sector: an annular wedge. Angles are radians in screen space, so
	// positive sweep runs clockwise on screen.
	InnerRadius float64
	OuterRadius float64
	StartAngle  float64
	SweepAngle  float64
}

// Circle builds a circular target.
func Circle(info DataPointInfo, center geom.Point, radius float64) Target {
	return Target{Kind: KindCircle, Info: info, Center: center, Radius: radius}
}

// Rect builds a rectangular target.
func Rect(info DataPointInfo, region geom.Rect) Target {
	return Target{Kind: KindRect, Info: info, Region: region}
}

// Stroke builds a polyline target.
func Stroke(info DataPointInfo, path []geom.Point, width float64) Target {
	return Target{Kind: KindStroke, Info: info, Path: path, Width: width}
}

// Sector builds an annular wedge target.
func Sector(info DataPointInfo, center geom.Point, inner, outer, start, sweep float64) Target {
	return Target{
		Kind:        KindSector,
		Info:        info,
		Center:      center,
		InnerRadius: inner,
		OuterRadius: outer,
		StartAngle:  start,
		SweepAngle:  sweep,
	}
}

// DistanceTo returns 0 when p is inside or on the target, the positive gap
// otherwise, and +Inf when the target has no geometry.
func (t Target) DistanceTo(p geom.Point) float64 {
	switch t.Kind {
	case KindCircle:
		return math.Max(0, geom.Distance(t.Center, p)-t.Radius)
	case KindRect:
		return geom.DistanceToRect(p, t.Region)
	case KindStroke:
		return t.strokeDistance(p)
	case KindSector:
		return t.sectorDistance(p)
	default:
		return math.Inf(1)
	}
}

// Bounds returns a rectangle enclosing the target. DistanceTo never
// undercuts the distance to this rectangle.
func (t Target) Bounds() geom.Rect {
	switch t.Kind {
	case KindCircle:
		return geom.RectAround(t.Center, t.Radius)
	case KindRect:
		return t.Region
	case KindStroke:
		if len(t.Path) == 0 {
			return geom.Empty()
		}
		return geom.BoundingRect(t.Path).ExpandedByMargin(t.Width / 2)
	case KindSector:
		// Inverted radii are swapped by sectorDistance, so cover both.
		return geom.RectAround(t.Center, math.Max(math.Abs(t.InnerRadius), math.Abs(t.OuterRadius)))
	default:
		return geom.Empty()
	}
}

func (t Target) strokeDistance(p geom.Point) float64 {
	switch len(t.Path) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Max(0, geom.Distance(p, t.Path[0])-t.Width/2)
	}
	best := math.Inf(1)
	for i := 1; i < len(t.Path); i++ {
		best = math.Min(best, geom.DistanceToSegment(p, t.Path[i-1], t.Path[i]))
	}
	return math.Max(0, best-t.Width/2)
}

func (t Target) sectorDistance(p geom.Point) float64 {
	inner, outer := t.InnerRadius, t.OuterRadius
	if inner > outer {
		inner, outer = outer, inner
	}
	d := geom.Distance(t.Center, p)
	radial := math.Max(0, math.Max(inner-d, d-outer))

	start, sweep := t.StartAngle, t.SweepAngle
	if sweep < 0 {
		start, sweep = start+sweep, -sweep
	}
	if sweep >= 2*math.Pi || d == 0 {
		return radial
	}
	angle := math.Atan2(p.Y-t.Center.Y, p.X-t.Center.X)
	if geom.NormalizeAngle(angle-start) <= sweep {
		return radial
	}
	// Outside the wedge the closest point lies on one of the radial edges.
	return math.Min(t.edgeDistance(p, start, inner, outer), t.edgeDistance(p, start+sweep, inner, outer))
}

func (t Target) edgeDistance(p geom.Point, angle, inner, outer float64) float64 {
	dir := geom.Pt(math.Cos(angle), math.Sin(angle))
	a := t.Center.Add(dir.Mul(inner))
	b := t.Center.Add(dir.Mul(outer))
	return geom.DistanceToSegment(p, a, b)
}
