// Package viewport models the interactive pan/zoom transform applied on top
// of a chart's data-to-screen mapping. Viewport is a value type: every
// operation returns a new Viewport and never mutates the receiver.
package viewport

import (
	"math"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/geom"
)

// Axis selects which axes an operation touches.
type Axis int

const (
	AxisBoth Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "both"
	}
}

// ParseAxis converts "x", "y" or anything else (both).
func ParseAxis(s string) Axis {
	switch s {
	case "x":
		return AxisX
	case "y":
		return AxisY
	default:
		return AxisBoth
	}
}

// Limits bounds the scale factors a viewport may reach.
type Limits struct {
	MinZoom float64 `json:"minZoom"`
	MaxZoom float64 `json:"maxZoom"`
}

// DefaultLimits returns the 0.1–10 zoom range.
func DefaultLimits() Limits {
	return Limits{MinZoom: 0.1, MaxZoom: 10}
}

// Clamp restricts s to the limits. Clamping an already-clamped value returns
// it unchanged.
func (l Limits) Clamp(s float64) float64 {
	lo, hi := l.MinZoom, l.MaxZoom
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, s))
}

// Viewport is the current pan/zoom state. A screen-space content point p is
// displayed at p*Scale + Translate. The optional pins override computed data
// bounds before the content transform is built.
type Viewport struct {
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`

	XMin bounds.Pin `json:"xMin"`
	XMax bounds.Pin `json:"xMax"`
	YMin bounds.Pin `json:"yMin"`
	YMax bounds.Pin `json:"yMax"`
}

// Identity returns the unscaled, untranslated viewport.
func Identity() Viewport {
	return Viewport{ScaleX: 1, ScaleY: 1}
}

// Equal reports whether every field matches.
func (v Viewport) Equal(other Viewport) bool {
	return v == other
}

// IsZoomed reports whether either scale differs from 1.
func (v Viewport) IsZoomed() bool {
	return v.ScaleX != 1 || v.ScaleY != 1
}

// IsPanned reports whether the viewport is translated.
func (v Viewport) IsPanned() bool {
	return v.TranslateX != 0 || v.TranslateY != 0
}

// Reset returns the identity scale and translation. Axis pins are kept.
func (v Viewport) Reset() Viewport {
	return Identity().WithPins(v.XMin, v.XMax, v.YMin, v.YMax)
}

// Pan adds (dx, dy) to the translation.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.TranslateX += dx
	v.TranslateY += dy
	return v
}

// PanAxis pans by delta restricted to axis.
func (v Viewport) PanAxis(delta geom.Point, axis Axis) Viewport {
	switch axis {
	case AxisX:
		return v.Pan(delta.X, 0)
	case AxisY:
		return v.Pan(0, delta.Y)
	default:
		return v.Pan(delta.X, delta.Y)
	}
}

// Zoom multiplies both scales by factor, clamped to lim, keeping the screen
// point focal visually fixed. Non-positive or NaN factors are ignored.
func (v Viewport) Zoom(factor float64, focal geom.Point, lim Limits) Viewport {
	return v.ZoomAxis(factor, focal, lim, AxisBoth)
}

// ZoomX zooms the horizontal axis only.
func (v Viewport) ZoomX(factor, focalX float64, lim Limits) Viewport {
	return v.ZoomAxis(factor, geom.Pt(focalX, 0), lim, AxisX)
}

// ZoomY zooms the vertical axis only.
func (v Viewport) ZoomY(factor, focalY float64, lim Limits) Viewport {
	return v.ZoomAxis(factor, geom.Pt(0, focalY), lim, AxisY)
}

// ZoomAxis applies Zoom to the selected axes.
func (v Viewport) ZoomAxis(factor float64, focal geom.Point, lim Limits, axis Axis) Viewport {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v
	}
	if axis != AxisY {
		v.ScaleX, v.TranslateX = zoomOne(v.ScaleX, v.TranslateX, factor, focal.X, lim)
	}
	if axis != AxisX {
		v.ScaleY, v.TranslateY = zoomOne(v.ScaleY, v.TranslateY, factor, focal.Y, lim)
	}
	return v
}

func zoomOne(scale, translate, factor, focal float64, lim Limits) (float64, float64) {
	next := lim.Clamp(scale * factor)
	if next == scale || scale == 0 {
		return next, translate
	}
	return next, focal - (focal-translate)*(next/scale)
}

// WithPins returns v with the given axis pins.
func (v Viewport) WithPins(xMin, xMax, yMin, yMax bounds.Pin) Viewport {
	v.XMin, v.XMax, v.YMin, v.YMax = xMin, xMax, yMin, yMax
	return v
}

// ApplyPins overrides computed data bounds with the viewport's pins.
func (v Viewport) ApplyPins(x, y bounds.Bounds) (bounds.Bounds, bounds.Bounds) {
	return x.WithOverrides(v.XMin, v.XMax), y.WithOverrides(v.YMin, v.YMax)
}

// Matrix returns the content-to-display matrix.
func (v Viewport) Matrix() geom.Matrix2D {
	return geom.Translate(v.TranslateX, v.TranslateY).Multiply(geom.Scale(v.ScaleX, v.ScaleY))
}

// Apply maps a content point to where it is displayed.
func (v Viewport) Apply(p geom.Point) geom.Point {
	return geom.Pt(p.X*v.ScaleX+v.TranslateX, p.Y*v.ScaleY+v.TranslateY)
}

// Invert maps a displayed point back to content coordinates.
func (v Viewport) Invert(p geom.Point) geom.Point {
	x, y := p.X, p.Y
	if v.ScaleX != 0 {
		x = (p.X - v.TranslateX) / v.ScaleX
	}
	if v.ScaleY != 0 {
		y = (p.Y - v.TranslateY) / v.ScaleY
	}
	return geom.Pt(x, y)
}

// VisibleContent returns the content rectangle shown inside the display
// region.
func (v Viewport) VisibleContent(region geom.Rect) geom.Rect {
	lo := v.Invert(geom.Pt(region.X.Lo, region.Y.Lo))
	hi := v.Invert(geom.Pt(region.X.Hi, region.Y.Hi))
	return geom.RectLTRB(lo.X, lo.Y, hi.X, hi.Y)
}

// VisibleData returns the data extents currently on screen for a content
// transform t.
func (v Viewport) VisibleData(t bounds.Transform) (x, y bounds.Bounds) {
	return t.VisibleData(v.VisibleContent(t.Region))
}
