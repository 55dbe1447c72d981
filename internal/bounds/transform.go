package bounds

import (
	"github.com/inamate/chartgeo/internal/geom"
)

// Transform maps data coordinates into a screen rectangle. X runs left to
// right; Y is flipped so larger data values sit nearer the top.
// A degenerate axis (zero data range or zero region extent) maps every value
// to the region's centre on that axis.
type Transform struct {
	X      Bounds    `json:"x"`
	Y      Bounds    `json:"y"`
	Region geom.Rect `json:"-"`
}

// NewTransform builds a transform from axis bounds and a target region.
func NewTransform(x, y Bounds, region geom.Rect) Transform {
	return Transform{X: x, Y: y, Region: region}
}

func (t Transform) degenerateX() bool {
	return t.X.IsDegenerate() || geom.Width(t.Region) == 0
}

func (t Transform) degenerateY() bool {
	return t.Y.IsDegenerate() || geom.Height(t.Region) == 0
}

// DataToScreen maps a data point to screen coordinates.
func (t Transform) DataToScreen(x, y float64) geom.Point {
	return t.Matrix().Apply(geom.Pt(x, y))
}

// ScreenToData maps a screen point back into data space. On a degenerate
// axis the bounds' centre is returned.
func (t Transform) ScreenToData(p geom.Point) (x, y float64) {
	if t.degenerateX() {
		x = t.X.Center()
	} else {
		x = t.X.Min + (p.X-t.Region.X.Lo)/geom.Width(t.Region)*t.X.Range()
	}
	if t.degenerateY() {
		y = t.Y.Center()
	} else {
		y = t.Y.Min + (t.Region.Y.Hi-p.Y)/geom.Height(t.Region)*t.Y.Range()
	}
	return x, y
}

// Matrix returns the data-to-screen map as an affine matrix.
func (t Transform) Matrix() geom.Matrix2D {
	var m geom.Matrix2D
	if t.degenerateX() {
		m[4] = t.Region.X.Center()
	} else {
		m[0] = geom.Width(t.Region) / t.X.Range()
		m[4] = t.Region.X.Lo - t.X.Min*m[0]
	}
	if t.degenerateY() {
		m[5] = t.Region.Y.Center()
	} else {
		m[3] = -geom.Height(t.Region) / t.Y.Range()
		m[5] = t.Region.Y.Hi - t.Y.Min*m[3]
	}
	return m
}

// VisibleData returns the data extents covered by a screen rectangle.
func (t Transform) VisibleData(screen geom.Rect) (x, y Bounds) {
	x0, y0 := t.ScreenToData(geom.Pt(screen.X.Lo, screen.Y.Hi))
	x1, y1 := t.ScreenToData(geom.Pt(screen.X.Hi, screen.Y.Lo))
	return Bounds{Min: min(x0, x1), Max: max(x0, x1)}, Bounds{Min: min(y0, y1), Max: max(y0, y1)}
}
