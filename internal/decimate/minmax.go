package decimate

import (
	"slices"

	"github.com/inamate/chartgeo/internal/dataset"
)

// MinMax splits the x range into bucketCount equal-width buckets and keeps,
// per bucket, its first, minimum, maximum and last points in index order.
// Extremes are never dropped, so the output size is not fixed.
//
// Points are expected sorted by X; unsorted input still yields valid,
// order-preserving output but with more, smaller buckets.
func MinMax(points []dataset.DataPoint, bucketCount int) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if bucketCount <= 0 {
		return indexRange(0, n)
	}

	x0, x1 := points[0].X, points[n-1].X
	width := (x1 - x0) / float64(bucketCount)
	bucketOf := func(x float64) int {
		if width <= 0 {
			return 0
		}
		return min(max(int((x-x0)/width), 0), bucketCount-1)
	}

	out := make([]int, 0, 4*bucketCount)
	flush := func(first, last int) {
		lo, hi := first, first
		for i := first + 1; i <= last; i++ {
			if points[i].Y < points[lo].Y {
				lo = i
			}
			if points[i].Y > points[hi].Y {
				hi = i
			}
		}
		picks := []int{first, lo, hi, last}
		slices.Sort(picks)
		for _, p := range picks {
			if len(out) == 0 || out[len(out)-1] != p {
				out = append(out, p)
			}
		}
	}

	start, bucket := 0, bucketOf(points[0].X)
	for i := 1; i < n; i++ {
		if b := bucketOf(points[i].X); b != bucket {
			flush(start, i-1)
			start, bucket = i, b
		}
	}
	flush(start, n-1)
	return out
}

// MinMaxPoints is MinMax returning the selected points.
func MinMaxPoints(points []dataset.DataPoint, bucketCount int) []dataset.DataPoint {
	return dataset.Select(points, MinMax(points, bucketCount))
}
