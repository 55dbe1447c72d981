package decimate

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/inamate/chartgeo/internal/dataset"
)

// Area returns the signed trapezoidal area under the polyline. Points must
// be sorted by X; fewer than two points have no area.
func Area(points []dataset.DataPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	xs, ys := dataset.XY(points)
	return integrate.Trapezoidal(xs, ys)
}

// AreaDeviation measures how far a decimated polyline drifts from the
// original: the difference of their areas relative to the original's
// absolute area. 0 means identical area.
func AreaDeviation(original, reduced []dataset.DataPoint) float64 {
	diff := math.Abs(Area(original) - Area(reduced))
	if len(original) < 2 {
		return diff
	}
	xs, ys := dataset.XY(original)
	for i := range ys {
		ys[i] = math.Abs(ys[i])
	}
	total := integrate.Trapezoidal(xs, ys)
	if total == 0 {
		return diff
	}
	return diff / total
}
