// Package dataset is the chart data model: points, series and the datasets
// that group them.
package dataset

// DataPoint is one (x, y) sample in data space. Points are immutable once they
// belong to a Series.
type DataPoint struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Label    string         `json:"label,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Series is an ordered list of points. Range slicing (adaptive decimation)
// assumes Points is sorted by X ascending. NaN and infinite values must be
// filtered by the caller before points reach the engine.
type Series struct {
	Name   string      `json:"name"`
	Points []DataPoint `json:"points"`
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Points)
}

// Dataset groups the series drawn on one chart.
type Dataset struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"ownerId,omitempty"`
	Series    []Series `json:"series"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// PointCount returns the total number of points across all series.
func (d *Dataset) PointCount() int {
	n := 0
	for _, s := range d.Series {
		n += len(s.Points)
	}
	return n
}

// XY returns the coordinates of the points as two parallel slices.
func XY(points []DataPoint) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// Select returns the points at the given indices, in index order.
func Select(points []DataPoint, indices []int) []DataPoint {
	out := make([]DataPoint, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out
}
