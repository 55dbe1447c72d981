package engine

import (
	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/cache"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/viewport"
)

// Layout is the retained, render-ready state of the chart for one
// combination of data, options, viewport and visible series. It is rebuilt
// wholesale when any of those change.
type Layout struct {
	Region    geom.Rect
	Transform bounds.Transform
	Viewport  viewport.Viewport

	// XBounds and YBounds are the full axis bounds after overrides.
	XBounds bounds.Bounds
	YBounds bounds.Bounds
	// VisibleX and VisibleY are the data extents on screen.
	VisibleX bounds.Bounds
	VisibleY bounds.Bounds

	XTicks []float64
	YTicks []float64

	Series []SeriesLayout
}

// SeriesLayout holds the decimated points of one visible series.
type SeriesLayout struct {
	Index int
	Name  string
	// Indices are positions in the source series, ascending.
	Indices []int
	// Screen holds the display position of each kept point.
	Screen []geom.Point
	Total  int
}

// layoutKey captures everything a layout depends on besides the series
// content version and option version, which the engine tracks with a dirty
// flag.
type layoutKey struct {
	viewport viewport.Viewport
	hidden   cache.Signature
}
