package interact

import (
	"github.com/inamate/chartgeo/internal/viewport"
)

// Interactions enables gesture families and tunes them. The controller
// reads it and never mutates it. Programmatic calls (Pan, Zoom, SelectPoint,
// ...) are not gated; only decoded input events are.
type Interactions struct {
	EnablePan             bool `json:"enablePan"`
	EnableZoom            bool `json:"enableZoom"`
	EnablePinchZoom       bool `json:"enablePinchZoom"`
	EnableScrollWheelZoom bool `json:"enableScrollWheelZoom"`
	EnableSelection       bool `json:"enableSelection"`
	EnableHover           bool `json:"enableHover"`
	EnableMomentum        bool `json:"enableMomentum"`

	ZoomAxis viewport.Axis `json:"zoomAxis"`
	PanAxis  viewport.Axis `json:"panAxis"`

	MinZoom float64 `json:"minZoom"`
	MaxZoom float64 `json:"maxZoom"`

	// HitTestRadius is the pointer slack in pixels for hover and taps.
	HitTestRadius float64 `json:"hitTestRadius"`
	// ScrollZoomStep is the zoom factor for one 100px wheel notch.
	ScrollZoomStep float64 `json:"scrollZoomStep"`
	// TapSlop is how far the pointer may travel before a press becomes a drag.
	TapSlop float64 `json:"tapSlop"`
}

// DefaultInteractions enables every gesture with a 0.1–10 zoom range.
func DefaultInteractions() Interactions {
	return Interactions{
		EnablePan:             true,
		EnableZoom:            true,
		EnablePinchZoom:       true,
		EnableScrollWheelZoom: true,
		EnableSelection:       true,
		EnableHover:           true,
		EnableMomentum:        true,
		ZoomAxis:              viewport.AxisBoth,
		PanAxis:               viewport.AxisBoth,
		MinZoom:               0.1,
		MaxZoom:               10,
		HitTestRadius:         20,
		ScrollZoomStep:        1.1,
		TapSlop:               5,
	}
}

// Limits returns the zoom clamp range.
func (i Interactions) Limits() viewport.Limits {
	if i.MinZoom <= 0 && i.MaxZoom <= 0 {
		return viewport.DefaultLimits()
	}
	return viewport.Limits{MinZoom: i.MinZoom, MaxZoom: i.MaxZoom}
}
