package decimate

import (
	"math"

	"github.com/inamate/chartgeo/internal/dataset"
)

// LTTB downsamples points to target indices with Largest-Triangle-Three-
// Buckets. The first and last points are always kept and the remaining
// points are split into target-2 buckets; from each bucket the point forming
// the largest triangle with the previous pick and the next bucket's
// centroid wins.
//
// Inputs at or below target, and non-positive targets, return every index.
func LTTB(points []dataset.DataPoint, target int) []int {
	return lttbRange(points, 0, len(points), target)
}

// LTTBPoints is LTTB returning the selected points.
func LTTBPoints(points []dataset.DataPoint, target int) []dataset.DataPoint {
	return dataset.Select(points, LTTB(points, target))
}

// lttbRange runs LTTB over points[lo:hi] and returns absolute indices.
func lttbRange(points []dataset.DataPoint, lo, hi, target int) []int {
	n := hi - lo
	if n <= 0 {
		return nil
	}
	if target <= 0 || n <= target {
		return indexRange(lo, hi)
	}
	switch target {
	case 1:
		return []int{lo}
	case 2:
		return []int{lo, hi - 1}
	}

	out := make([]int, 0, target)
	out = append(out, lo)

	// Bucket size, leaving room for the first and last points.
	every := float64(n-2) / float64(target-2)
	a := lo
	for i := 0; i < target-2; i++ {
		// Centroid of the next bucket.
		nextStart := lo + int(float64(i+1)*every) + 1
		nextEnd := min(lo+int(float64(i+2)*every)+1, hi)
		var avgX, avgY float64
		for j := nextStart; j < nextEnd; j++ {
			avgX += points[j].X
			avgY += points[j].Y
		}
		count := float64(nextEnd - nextStart)
		avgX /= count
		avgY /= count

		start := lo + int(float64(i)*every) + 1
		end := lo + int(float64(i+1)*every) + 1
		ax, ay := points[a].X, points[a].Y

		maxArea, pick := -1.0, start
		for j := start; j < end; j++ {
			area := math.Abs((ax-avgX)*(points[j].Y-ay) - (ax-points[j].X)*(avgY-ay))
			if area > maxArea {
				maxArea, pick = area, j
			}
		}
		out = append(out, pick)
		a = pick
	}
	return append(out, hi-1)
}

func indexRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
