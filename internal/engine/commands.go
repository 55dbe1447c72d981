package engine

import (
	"encoding/json"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/cache"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
	"github.com/inamate/chartgeo/internal/interact"
)

// DrawCommand is a single drawing operation for the frontend to execute on
// a Canvas2D context, in painter's order.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "save", "clip", "path", "marker", "restore"
	Series      int           `json:"series"`                // Series index for "path" and "marker"
	Point       int           `json:"point,omitempty"`       // Source point index for "marker"
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" and "clip"
	X           float64       `json:"x,omitempty"`           // Marker centre
	Y           float64       `json:"y,omitempty"`           // Marker centre
	Radius      float64       `json:"radius,omitempty"`      // Marker radius
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
}

// PathCommand is one path segment in Canvas2D form: ["M", x, y] or
// ["L", x, y].
type PathCommand []any

// Rect is the JSON form of a screen rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func toRect(r geom.Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	return Rect{X: r.X.Lo, Y: r.Y.Lo, Width: geom.Width(r), Height: geom.Height(r)}
}

// Tick is an axis label position.
type Tick struct {
	Value  float64 `json:"value"`
	Screen float64 `json:"screen"`
}

// FrameSeries summarises one drawn series.
type FrameSeries struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Total int    `json:"total"`
	Drawn int    `json:"drawn"`
}

// Frame is everything the frontend needs to paint one pass.
type Frame struct {
	Region   Rect                   `json:"region"`
	XBounds  bounds.Bounds          `json:"xBounds"`
	YBounds  bounds.Bounds          `json:"yBounds"`
	VisibleX bounds.Bounds          `json:"visibleX"`
	VisibleY bounds.Bounds          `json:"visibleY"`
	XTicks   []Tick                 `json:"xTicks"`
	YTicks   []Tick                 `json:"yTicks"`
	Series   []FrameSeries          `json:"series"`
	Commands []DrawCommand          `json:"commands"`
	State    interact.State         `json:"state"`
	Caches   map[string]cache.Stats `json:"caches,omitempty"`
}

var palette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1", "#ff9da7"}

// SeriesColor returns the palette color of a series.
func SeriesColor(index int) string {
	return palette[((index%len(palette))+len(palette))%len(palette)]
}

// CompileFrame turns a layout and controller state into a frame.
func CompileFrame(l *Layout, state interact.State, markerRadius float64) Frame {
	f := Frame{
		Region:   toRect(l.Region),
		XBounds:  l.XBounds,
		YBounds:  l.YBounds,
		VisibleX: l.VisibleX,
		VisibleY: l.VisibleY,
		State:    state,
	}

	for _, v := range l.XTicks {
		p := l.Viewport.Apply(l.Transform.DataToScreen(v, l.YBounds.Min))
		f.XTicks = append(f.XTicks, Tick{Value: v, Screen: p.X})
	}
	for _, v := range l.YTicks {
		p := l.Viewport.Apply(l.Transform.DataToScreen(l.XBounds.Min, v))
		f.YTicks = append(f.YTicks, Tick{Value: v, Screen: p.Y})
	}

	f.Commands = append(f.Commands,
		DrawCommand{Op: "save"},
		DrawCommand{Op: "clip", Path: rectPath(l.Region)},
	)
	for _, s := range l.Series {
		color := SeriesColor(s.Index)
		f.Series = append(f.Series, FrameSeries{
			Index: s.Index,
			Name:  s.Name,
			Color: color,
			Total: s.Total,
			Drawn: len(s.Indices),
		})
		if len(s.Screen) == 0 {
			continue
		}
		f.Commands = append(f.Commands, DrawCommand{
			Op:          "path",
			Series:      s.Index,
			Path:        polylinePath(s.Screen),
			Stroke:      color,
			StrokeWidth: 1.5,
		})
	}

	// Selected, hovered and tooltip points are drawn as markers on top.
	for _, m := range emphasised(l, state) {
		f.Commands = append(f.Commands, DrawCommand{
			Op:     "marker",
			Series: m.id.Series,
			Point:  m.id.Point,
			X:      m.at.X,
			Y:      m.at.Y,
			Radius: markerRadius * m.scale,
			Fill:   SeriesColor(m.id.Series),
			Stroke: "#ffffff",
		})
	}
	f.Commands = append(f.Commands, DrawCommand{Op: "restore"})
	return f
}

type marker struct {
	id    hittest.PointID
	at    geom.Point
	scale float64
}

// emphasised finds the screen position of every selected or hovered point
// that survived decimation.
func emphasised(l *Layout, state interact.State) []marker {
	want := make(map[hittest.PointID]float64, len(state.Selected)+2)
	for _, id := range state.Selected {
		want[id] = 1
	}
	for _, info := range []*hittest.DataPointInfo{state.Tooltip, state.Hovered} {
		if info != nil {
			want[info.ID()] = 1.5
		}
	}
	if len(want) == 0 {
		return nil
	}

	var out []marker
	for _, s := range l.Series {
		for k, idx := range s.Indices {
			id := hittest.PointID{Series: s.Index, Point: idx}
			if scale, ok := want[id]; ok {
				out = append(out, marker{id: id, at: s.Screen[k], scale: scale})
			}
		}
	}
	return out
}

func rectPath(r geom.Rect) []PathCommand {
	if r.IsEmpty() {
		return nil
	}
	return []PathCommand{
		{"M", r.X.Lo, r.Y.Lo},
		{"L", r.X.Hi, r.Y.Lo},
		{"L", r.X.Hi, r.Y.Hi},
		{"L", r.X.Lo, r.Y.Hi},
		{"Z"},
	}
}

func polylinePath(points []geom.Point) []PathCommand {
	out := make([]PathCommand, len(points))
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		out[i] = PathCommand{op, p.X, p.Y}
	}
	return out
}

// FrameToJSON serializes a frame.
func FrameToJSON(f Frame) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// HitTestResult is the JSON answer to a hit-test query.
type HitTestResult struct {
	Hit   bool                   `json:"hit"`
	Point *hittest.DataPointInfo `json:"point,omitempty"`
}
