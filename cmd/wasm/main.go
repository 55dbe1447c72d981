//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/engine"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/interact"
)

var eng *engine.Engine

// intervalScheduler runs momentum ticks from setInterval, which delivers
// them on the same event loop as every other engine call.
var intervalScheduler = interact.SchedulerFunc(func(interval time.Duration, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	id := js.Global().Call("setInterval", cb, interval.Milliseconds())
	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		js.Global().Call("clearInterval", id)
		cb.Release()
	}
})

func main() {
	opts := engine.DefaultOptions()
	opts.Scheduler = intervalScheduler
	eng = engine.NewEngine(opts)

	chart := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	chart.Set("setSeries", js.FuncOf(setSeries))
	chart.Set("loadSample", js.FuncOf(loadSample))
	chart.Set("setLayout", js.FuncOf(setLayout))
	chart.Set("setDecimation", js.FuncOf(setDecimation))
	chart.Set("setInteractions", js.FuncOf(setInteractions))
	chart.Set("setYOptions", js.FuncOf(setYOptions))
	chart.Set("pointerDown", js.FuncOf(pointerDown))
	chart.Set("pointerMove", js.FuncOf(pointerMove))
	chart.Set("pointerUp", js.FuncOf(pointerUp))
	chart.Set("pointerLeave", js.FuncOf(pointerLeave))
	chart.Set("scroll", js.FuncOf(scroll))
	chart.Set("pinchStart", js.FuncOf(pinchStart))
	chart.Set("pinchUpdate", js.FuncOf(pinchUpdate))
	chart.Set("pinchEnd", js.FuncOf(pinchEnd))
	chart.Set("selectNext", js.FuncOf(selectNext))
	chart.Set("selectPrevious", js.FuncOf(selectPrevious))
	chart.Set("togglePoint", js.FuncOf(togglePoint))
	chart.Set("clearSelection", js.FuncOf(clearSelection))
	chart.Set("hideSeries", js.FuncOf(seriesCommand((*interact.Controller).HideSeries)))
	chart.Set("showSeries", js.FuncOf(seriesCommand((*interact.Controller).ShowSeries)))
	chart.Set("toggleSeries", js.FuncOf(seriesCommand((*interact.Controller).ToggleSeriesVisibility)))
	chart.Set("isolateSeries", js.FuncOf(isolateSeries))
	chart.Set("showAllSeries", js.FuncOf(showAllSeries))
	chart.Set("resetViewport", js.FuncOf(resetViewport))
	chart.Set("setViewportPins", js.FuncOf(setViewportPins))
	chart.Set("onChange", js.FuncOf(onChange))

	// --- Queries (frontend ← backend) ---
	chart.Set("render", js.FuncOf(render))
	chart.Set("hitTest", js.FuncOf(hitTest))
	chart.Set("getState", js.FuncOf(getState))

	js.Global().Set("chartEngine", chart)
	js.Global().Set("chartWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func point(args []js.Value, at int) (geom.Point, bool) {
	if len(args) < at+2 {
		return geom.Point{}, false
	}
	return geom.Pt(args[at].Float(), args[at+1].Float()), true
}

// --- Command Handlers ---

func setSeries(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing series JSON")
	}
	var series []dataset.Series
	if err := json.Unmarshal([]byte(args[0].String()), &series); err != nil {
		return errorResult(err.Error())
	}
	// A second truthy argument keeps selection and viewport for appends.
	if len(args) > 1 && args[1].Truthy() {
		eng.UpdateSeries(series)
	} else {
		eng.SetSeries(series)
	}
	return okResult()
}

func loadSample(this js.Value, args []js.Value) any {
	var seed int64 = 1
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		seed = int64(args[0].Int())
	}
	eng.LoadSample(seed)
	return okResult()
}

func setLayout(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return errorResult("expected x, y, width, height")
	}
	eng.SetLayout(geom.RectXYWH(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float()))
	return okResult()
}

func setDecimation(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing decimation JSON")
	}
	cfg := eng.Decimation()
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return errorResult(err.Error())
	}
	eng.SetDecimation(cfg)
	return okResult()
}

func setInteractions(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing interactions JSON")
	}
	cfg := eng.Controller().Interactions()
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return errorResult(err.Error())
	}
	eng.SetInteractions(cfg)
	return okResult()
}

type yOptionsJSON struct {
	Headroom    float64  `json:"headroom"`
	IncludeZero bool     `json:"includeZero"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
}

func pin(v *float64) bounds.Pin {
	if v == nil {
		return bounds.Pin{}
	}
	return bounds.PinAt(*v)
}

func setYOptions(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing y options JSON")
	}
	var in yOptionsJSON
	if err := json.Unmarshal([]byte(args[0].String()), &in); err != nil {
		return errorResult(err.Error())
	}
	eng.SetYOptions(bounds.YOptions{Headroom: in.Headroom, IncludeZero: in.IncludeZero, Min: pin(in.Min), Max: pin(in.Max)})
	return okResult()
}

func pointerDown(this js.Value, args []js.Value) any {
	if p, ok := point(args, 0); ok {
		eng.Controller().PointerDown(p, time.Time{})
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) any {
	if p, ok := point(args, 0); ok {
		eng.Controller().PointerMove(p, time.Time{})
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) any {
	if p, ok := point(args, 0); ok {
		eng.Controller().PointerUp(p, time.Time{})
	}
	return nil
}

func pointerLeave(this js.Value, args []js.Value) any {
	eng.Controller().PointerLeave()
	return nil
}

func scroll(this js.Value, args []js.Value) any {
	p, ok := point(args, 0)
	if !ok || len(args) < 3 {
		return nil
	}
	eng.Controller().Scroll(p, args[2].Float())
	return nil
}

func pinchStart(this js.Value, args []js.Value) any {
	if p, ok := point(args, 0); ok {
		eng.Controller().PinchStart(p)
	}
	return nil
}

func pinchUpdate(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	p, _ := point(args, 1)
	eng.Controller().PinchUpdate(args[0].Float(), p)
	return nil
}

func pinchEnd(this js.Value, args []js.Value) any {
	eng.Controller().PinchEnd()
	return nil
}

func selectNext(this js.Value, args []js.Value) any {
	eng.SelectNext()
	return nil
}

func selectPrevious(this js.Value, args []js.Value) any {
	eng.SelectPrevious()
	return nil
}

func togglePoint(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.Controller().TogglePoint(args[0].Int(), args[1].Int())
	return nil
}

func clearSelection(this js.Value, args []js.Value) any {
	eng.Controller().ClearSelection()
	return nil
}

func seriesCommand(fn func(*interact.Controller, int)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		fn(eng.Controller(), args[0].Int())
		return nil
	}
}

func isolateSeries(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.Controller().IsolateSeries(args[0].Int(), len(eng.Series()))
	return nil
}

func showAllSeries(this js.Value, args []js.Value) any {
	eng.Controller().ShowAllSeries()
	return nil
}

func resetViewport(this js.Value, args []js.Value) any {
	eng.Controller().ResetViewport()
	return nil
}

type pinsJSON struct {
	XMin *float64 `json:"xMin,omitempty"`
	XMax *float64 `json:"xMax,omitempty"`
	YMin *float64 `json:"yMin,omitempty"`
	YMax *float64 `json:"yMax,omitempty"`
}

func setViewportPins(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing pins JSON")
	}
	var in pinsJSON
	if err := json.Unmarshal([]byte(args[0].String()), &in); err != nil {
		return errorResult(err.Error())
	}
	eng.Controller().SetPins(pin(in.XMin), pin(in.XMax), pin(in.YMin), pin(in.YMax))
	return okResult()
}

// onChange registers a JS callback; it returns a function that removes it.
func onChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	cb := args[0]
	remove := eng.OnChange(func() { cb.Invoke() })
	var release js.Func
	release = js.FuncOf(func(this js.Value, args []js.Value) any {
		remove()
		release.Release()
		return nil
	})
	return release
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) any {
	p, ok := point(args, 0)
	if !ok {
		return js.ValueOf(`{"hit":false}`)
	}
	return js.ValueOf(eng.HitTestJSON(p))
}

func getState(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.Controller().Snapshot())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}
