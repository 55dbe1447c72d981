package session

import (
	"encoding/json"

	"github.com/inamate/chartgeo/internal/bounds"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"

	// Pointer input, in plot pixels
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeScroll       = "scroll"
	TypePinchStart   = "pinch.start"
	TypePinchUpdate  = "pinch.update"
	TypePinchEnd     = "pinch.end"

	// Selection
	TypeSelectNext  = "select.next"
	TypeSelectPrev  = "select.prev"
	TypeSelectPoint = "select.point"
	TypeSelectClear = "select.clear"

	// Series visibility
	TypeSeriesHide    = "series.hide"
	TypeSeriesShow    = "series.show"
	TypeSeriesToggle  = "series.toggle"
	TypeSeriesIsolate = "series.isolate"
	TypeSeriesShowAll = "series.showAll"

	// View and data
	TypeViewportReset = "viewport.reset"
	TypeViewportPins  = "viewport.pins"
	TypeLayoutResize  = "layout.resize"
	TypeDatasetLoad   = "dataset.load"
	TypeDecimationSet = "decimation.set"
)

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ScrollPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type PinchPayload struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type PointRefPayload struct {
	Series int `json:"series"`
	Point  int `json:"point"`
}

type SeriesPayload struct {
	Index int `json:"index"`
}

// PinsPayload fixes axis edges in data units. Omitted edges follow the data.
type PinsPayload struct {
	XMin *float64 `json:"xMin,omitempty"`
	XMax *float64 `json:"xMax,omitempty"`
	YMin *float64 `json:"yMin,omitempty"`
	YMax *float64 `json:"yMax,omitempty"`
}

func pinOf(v *float64) bounds.Pin {
	if v == nil {
		return bounds.Pin{}
	}
	return bounds.PinAt(*v)
}

type LayoutPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DatasetPayload loads a stored dataset, or the sample data when DatasetID
// is empty.
type DatasetPayload struct {
	DatasetID string `json:"datasetId,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Ref     string `json:"ref,omitempty"` // type of the rejected message
	Message string `json:"message"`
}
