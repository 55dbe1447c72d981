package bounds

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Ticks returns at most maxTicks evenly spaced positions inside b whose step
// is 1, 2 or 5 times a power of ten. A degenerate range yields one tick; a range too
// narrow to hold a nice step may yield none.
func Ticks(b Bounds, maxTicks int) []float64 {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if b.IsDegenerate() {
		return []float64{b.Min}
	}

	step := NiceStep(b.Range() / float64(maxTicks-1))
	first := math.Ceil(b.Min/step) * step
	last := math.Floor(b.Max/step) * step
	n := int(math.Round((last-first)/step)) + 1
	switch {
	case n < 1:
		return nil
	case n == 1:
		return []float64{first}
	}
	return floats.Span(make([]float64, n), first, last)
}

// NiceStep rounds raw up to the nearest 1, 2 or 5 × 10^k.
func NiceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	f := raw / base
	switch {
	case f <= 1:
		return base
	case f <= 2:
		return 2 * base
	case f <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}
