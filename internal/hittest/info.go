package hittest

import (
	"fmt"

	"github.com/inamate/chartgeo/internal/geom"
)

// PointID identifies a rendered data point across frames.
type PointID struct {
	Series int `json:"series"`
	Point  int `json:"point"`
}

func (id PointID) String() string {
	return fmt.Sprintf("%d:%d", id.Series, id.Point)
}

// DataPointInfo describes the data point behind a hit target. Identity is
// (SeriesIndex, PointIndex); the screen position and payload may change
// between frames without changing which point it is.
type DataPointInfo struct {
	SeriesIndex int            `json:"seriesIndex"`
	PointIndex  int            `json:"pointIndex"`
	Screen      geom.Point     `json:"screen"`
	DataX       float64        `json:"dataX"`
	DataY       float64        `json:"dataY"`
	SeriesName  string         `json:"seriesName,omitempty"`
	Label       string         `json:"label,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ID returns the identity of the point.
func (i DataPointInfo) ID() PointID {
	return PointID{Series: i.SeriesIndex, Point: i.PointIndex}
}

// SameAs reports whether both infos refer to the same data point.
func (i DataPointInfo) SameAs(other DataPointInfo) bool {
	return i.ID() == other.ID()
}

// SamePoint compares two optional infos by identity. Two nils are equal.
func SamePoint(a, b *DataPointInfo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.SameAs(*b)
}
