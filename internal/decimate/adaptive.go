package decimate

import (
	"sort"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/dataset"
)

const (
	DefaultMarginFactor   = 0.10
	DefaultPointsPerPixel = 2.0
	MinPixelBudget        = 100
	MaxPixelBudget        = 10000
)

// Window returns the index range [lo, hi) of the points whose X falls within
// the visible range widened by margin of its width on each side, plus one
// neighbour on each end so segments crossing the edge still render.
// Points must be sorted by X.
func Window(points []dataset.DataPoint, visible bounds.Bounds, margin float64) (lo, hi int) {
	n := len(points)
	if margin < 0 {
		margin = 0
	}
	wide := visible.Expand(margin)
	lo = sort.Search(n, func(i int) bool { return points[i].X >= wide.Min })
	hi = sort.Search(n, func(i int) bool { return points[i].X > wide.Max })
	if lo > 0 {
		lo--
	}
	if hi < n {
		hi++
	}
	return lo, hi
}

// Adaptive slices the points to the visible x range (see Window) and runs
// LTTB on the slice when it still exceeds budget.
func Adaptive(points []dataset.DataPoint, visible bounds.Bounds, margin float64, budget int) []int {
	lo, hi := Window(points, visible, margin)
	return lttbRange(points, lo, hi, budget)
}

// PixelBudget converts a horizontal pixel count into a point budget,
// clamped to [MinPixelBudget, MaxPixelBudget].
func PixelBudget(pixels, pointsPerPixel float64) int {
	if pointsPerPixel <= 0 {
		pointsPerPixel = DefaultPointsPerPixel
	}
	budget := pixels * pointsPerPixel
	switch {
	case !(budget >= MinPixelBudget):
		return MinPixelBudget
	case budget > MaxPixelBudget:
		return MaxPixelBudget
	}
	return int(budget)
}

// PixelAware runs Adaptive with a budget derived from the pixel width.
func PixelAware(points []dataset.DataPoint, visible bounds.Bounds, pixels, pointsPerPixel, margin float64) []int {
	return Adaptive(points, visible, margin, PixelBudget(pixels, pointsPerPixel))
}
