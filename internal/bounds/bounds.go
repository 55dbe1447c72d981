// Package bounds computes data-space extents and maps data coordinates onto
// a screen rectangle.
package bounds

import (
	"math"

	"github.com/inamate/chartgeo/internal/dataset"
)

// Bounds is the [Min, Max] extent of one axis in data space.
// Max >= Min always holds for values produced by this package; Max == Min is
// a legal degenerate range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Pin is an optional axis edge supplied by the caller.
type Pin struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// PinAt returns a set pin.
func PinAt(v float64) Pin {
	return Pin{Value: v, Valid: true}
}

// Unit returns the default {0, 1} bounds used for empty input.
func Unit() Bounds {
	return Bounds{Min: 0, Max: 1}
}

// Range returns Max - Min.
func (b Bounds) Range() float64 {
	return b.Max - b.Min
}

// Center returns the midpoint of the range.
func (b Bounds) Center() float64 {
	return b.Min + b.Range()/2
}

// IsDegenerate reports whether the range has zero width.
func (b Bounds) IsDegenerate() bool {
	return b.Range() == 0
}

// Contains reports whether v lies within the closed range.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Include returns bounds widened to contain v.
func (b Bounds) Include(v float64) Bounds {
	return Bounds{Min: math.Min(b.Min, v), Max: math.Max(b.Max, v)}
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{Min: math.Min(b.Min, other.Min), Max: math.Max(b.Max, other.Max)}
}

// Expand widens both edges by fraction of the range.
func (b Bounds) Expand(fraction float64) Bounds {
	pad := b.Range() * fraction
	return Bounds{Min: b.Min - pad, Max: b.Max + pad}
}

// WithOverrides replaces either edge with a pinned value without touching the
// other. If the pins invert the range, Max collapses onto Min.
func (b Bounds) WithOverrides(min, max Pin) Bounds {
	out := b
	if min.Valid {
		out.Min = min.Value
	}
	if max.Valid {
		out.Max = max.Value
	}
	if out.Max < out.Min {
		out.Max = out.Min
	}
	return out
}

// Calculate scans points once and returns the X and Y extents. Empty input
// yields Unit bounds on both axes.
func Calculate(points []dataset.DataPoint) (x, y Bounds) {
	if len(points) == 0 {
		return Unit(), Unit()
	}

	x = Bounds{Min: points[0].X, Max: points[0].X}
	y = Bounds{Min: points[0].Y, Max: points[0].Y}
	for _, p := range points[1:] {
		if p.X < x.Min {
			x.Min = p.X
		}
		if p.X > x.Max {
			x.Max = p.X
		}
		if p.Y < y.Min {
			y.Min = p.Y
		}
		if p.Y > y.Max {
			y.Max = p.Y
		}
	}
	return x, y
}

// CalculateSeries unions the extents of every series for which visible
// returns true (all series when visible is nil).
func CalculateSeries(series []dataset.Series, visible func(int) bool) (x, y Bounds) {
	found := false
	for i, s := range series {
		if len(s.Points) == 0 || (visible != nil && !visible(i)) {
			continue
		}
		sx, sy := Calculate(s.Points)
		if !found {
			x, y = sx, sy
			found = true
			continue
		}
		x = x.Union(sx)
		y = y.Union(sy)
	}
	if !found {
		return Unit(), Unit()
	}
	return x, y
}

// YOptions controls how natural Y extents become axis bounds.
type YOptions struct {
	// Headroom pads the upper edge by this fraction of the range.
	Headroom float64 `json:"headroom"`
	// IncludeZero pulls the range to contain the zero baseline. A pinned
	// minimum wins over the pull.
	IncludeZero bool `json:"includeZero"`
	Min         Pin  `json:"min"`
	Max         Pin  `json:"max"`
}

// DefaultYOptions returns 5% headroom with the zero baseline included.
func DefaultYOptions() YOptions {
	return YOptions{Headroom: 0.05, IncludeZero: true}
}

// ApplyY turns natural Y extents into axis bounds.
func ApplyY(natural Bounds, opts YOptions) Bounds {
	b := natural
	if opts.IncludeZero {
		if b.Min > 0 && !opts.Min.Valid {
			b.Min = 0
		}
		if b.Max < 0 && !opts.Max.Valid {
			b.Max = 0
		}
	}
	if opts.Headroom > 0 {
		b.Max += b.Range() * opts.Headroom
	}
	return b.WithOverrides(opts.Min, opts.Max)
}
