// Package engine ties the chart core together: it owns the series, the
// layout region and the render options, drives an interaction controller
// and a hit-test dispatcher, and compiles render-ready frames.
//
// An Engine is single-threaded like the controller it wraps.
package engine

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/cache"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/decimate"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
	"github.com/inamate/chartgeo/internal/interact"
)

// Options configures a new Engine.
type Options struct {
	Interactions interact.Interactions
	Decimation   decimate.Config
	YOptions     bounds.YOptions
	MarkerRadius float64
	MaxTicks     int
	CacheSize    int
	TickTTL      time.Duration
	HitStrategy  hittest.Strategy
	Scheduler    interact.Scheduler
	Logger       *slog.Logger
}

// DefaultOptions returns the options used when a host has no configuration.
func DefaultOptions() Options {
	return Options{
		Interactions: interact.DefaultInteractions(),
		Decimation:   decimate.DefaultConfig(),
		YOptions:     bounds.DefaultYOptions(),
		MarkerRadius: 4,
		MaxTicks:     8,
		CacheSize:    64,
		TickTTL:      time.Minute,
	}
}

// Engine is the chart engine for one chart.
type Engine struct {
	// Data state
	datasetID string
	series    []dataset.Series
	sigs      []cache.Signature

	// Render options
	region       geom.Rect
	decim        decimate.Config
	yOpts        bounds.YOptions
	xMin, xMax   bounds.Pin
	markerRadius float64
	maxTicks     int

	ctrl    *interact.Controller
	targets *hittest.Dispatcher

	boundsCache *cache.LRU[cache.Signature, axisBounds]
	decimations *cache.LRU[decimationKey, []int]
	tickCache   *cache.TTL[tickKey, []float64]

	// Retained layout; rebuilt when dirty or when the viewport or
	// visible series changed since it was built.
	layout    *Layout
	layoutKey layoutKey
	dirty     bool

	listeners      []func()
	removeListener func()
	log            *slog.Logger
}

// NewEngine creates an engine with no data and an 800x600 region.
func NewEngine(opts Options) *Engine {
	if opts.MarkerRadius <= 0 {
		opts.MarkerRadius = 4
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = 8
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Engine{
		region:       geom.RectXYWH(0, 0, 800, 600),
		decim:        opts.Decimation,
		yOpts:        opts.YOptions,
		markerRadius: opts.MarkerRadius,
		maxTicks:     opts.MaxTicks,
		targets:      hittest.NewDispatcher(hittest.WithStrategy(opts.HitStrategy)),
		boundsCache:  cache.NewLRU[cache.Signature, axisBounds](opts.CacheSize),
		decimations:  cache.NewLRU[decimationKey, []int](opts.CacheSize),
		tickCache:    cache.NewTTL[tickKey, []float64](opts.CacheSize, opts.TickTTL, nil),
		dirty:        true,
		log:          opts.Logger,
	}

	ctrlOpts := []interact.Option{
		interact.WithLogger(opts.Logger),
		interact.WithHitTester(layoutHitTester{e}),
	}
	if opts.Scheduler != nil {
		ctrlOpts = append(ctrlOpts, interact.WithScheduler(opts.Scheduler))
	}
	e.ctrl = interact.NewController(opts.Interactions, ctrlOpts...)
	e.removeListener = e.ctrl.AddListener(e.notify)
	return e
}

// layoutHitTester resolves pointer positions against the current layout,
// rebuilding it first if needed.
type layoutHitTester struct {
	e *Engine
}

func (h layoutHitTester) HitTest(p geom.Point, radius float64) (hittest.DataPointInfo, bool) {
	h.e.ensureLayout()
	return h.e.targets.HitTest(p, radius)
}

// --- Listeners ---

// OnChange registers fn to run after any change that alters the next frame.
func (e *Engine) OnChange(fn func()) (remove func()) {
	e.listeners = append(e.listeners, fn)
	idx := len(e.listeners) - 1
	return func() {
		if idx < len(e.listeners) {
			e.listeners[idx] = nil
		}
	}
}

func (e *Engine) notify() {
	for _, fn := range e.listeners {
		if fn != nil {
			fn()
		}
	}
}

func (e *Engine) invalidate() {
	e.dirty = true
	e.notify()
}

// --- Commands (host → engine) ---

// Controller exposes the interaction controller for input events.
func (e *Engine) Controller() *interact.Controller {
	return e.ctrl
}

// SetSeries replaces the data and resets selection, hover, tooltip and the
// viewport, pins included.
func (e *Engine) SetSeries(series []dataset.Series) {
	e.UpdateSeries(series)
	e.ctrl.ClearSelection()
	e.ctrl.ClearHover()
	e.ctrl.HideTooltip()
	e.ctrl.ShowAllSeries()
	e.ctrl.ResetViewport()
	e.ctrl.SetPins(bounds.Pin{}, bounds.Pin{}, bounds.Pin{}, bounds.Pin{})
}

// UpdateSeries replaces the data while keeping interaction state, for
// streaming appends where point indices stay stable.
func (e *Engine) UpdateSeries(series []dataset.Series) {
	e.series = series
	e.sigs = make([]cache.Signature, len(series))
	for i, s := range series {
		xs, ys := dataset.XY(s.Points)
		e.sigs[i] = seriesSignature(i, s.Name, xs, ys)
	}
	e.log.Debug("series loaded", "series", len(series))
	e.invalidate()
}

// LoadDataset loads every series of a dataset.
func (e *Engine) LoadDataset(ds *dataset.Dataset) {
	e.datasetID = ds.ID
	e.SetSeries(ds.Series)
}

// LoadSample loads the built-in deterministic sample dataset.
func (e *Engine) LoadSample(seed int64) {
	e.LoadDataset(dataset.NewSampleDataset("sample", dataset.SampleOptions{Seed: seed}))
}

// DatasetID returns the id of the last loaded dataset.
func (e *Engine) DatasetID() string {
	return e.datasetID
}

// Series returns the loaded series.
func (e *Engine) Series() []dataset.Series {
	return e.series
}

// SetLayout sets the plot region in screen pixels.
func (e *Engine) SetLayout(region geom.Rect) {
	if region == e.region {
		return
	}
	e.region = region
	e.invalidate()
}

// Region returns the plot region.
func (e *Engine) Region() geom.Rect {
	return e.region
}

// SetDecimation selects the decimation strategy.
func (e *Engine) SetDecimation(cfg decimate.Config) {
	if cfg == e.decim {
		return
	}
	e.decim = cfg
	e.invalidate()
}

// Decimation returns the active decimation config.
func (e *Engine) Decimation() decimate.Config {
	return e.decim
}

// SetXOverrides pins the x axis edges.
func (e *Engine) SetXOverrides(min, max bounds.Pin) {
	if min == e.xMin && max == e.xMax {
		return
	}
	e.xMin, e.xMax = min, max
	e.invalidate()
}

// SetYOptions sets headroom, zero baseline and y pins.
func (e *Engine) SetYOptions(opts bounds.YOptions) {
	if opts == e.yOpts {
		return
	}
	e.yOpts = opts
	e.invalidate()
}

// SetInteractions replaces the gesture configuration.
func (e *Engine) SetInteractions(cfg interact.Interactions) {
	e.ctrl.SetInteractions(cfg)
	e.invalidate()
}

// SelectNext steps the selection forward within the series of the last
// selected point, or series 0.
func (e *Engine) SelectNext() {
	e.ctrl.SelectNext(e.navigationCount())
}

// SelectPrevious steps the selection back.
func (e *Engine) SelectPrevious() {
	e.ctrl.SelectPrevious(e.navigationCount())
}

// SelectSeries selects every point of one series.
func (e *Engine) SelectSeries(index int) {
	if index < 0 || index >= len(e.series) {
		return
	}
	e.ctrl.SelectSeries(index, e.series[index].Len())
}

func (e *Engine) navigationCount() int {
	series := 0
	if id, ok := e.ctrl.LastSelected(); ok {
		series = id.Series
	}
	if series < 0 || series >= len(e.series) {
		return 0
	}
	return e.series[series].Len()
}

// Close stops momentum and detaches listeners.
func (e *Engine) Close() {
	e.removeListener()
	e.ctrl.Close()
	e.listeners = nil
}

// --- Queries (engine → host) ---

func (e *Engine) currentKey() layoutKey {
	s := cache.NewSigner()
	for _, i := range e.ctrl.HiddenSeries() {
		s.Int(i)
	}
	return layoutKey{viewport: e.ctrl.Viewport(), hidden: s.Sum()}
}

// ensureLayout rebuilds the layout when stale.
func (e *Engine) ensureLayout() *Layout {
	key := e.currentKey()
	if e.layout == nil || e.dirty || key != e.layoutKey {
		e.layout = e.buildLayout()
		e.layoutKey = key
		e.dirty = false
	}
	return e.layout
}

// Layout returns the current layout, rebuilding it if needed.
func (e *Engine) Layout() *Layout {
	return e.ensureLayout()
}

// Render compiles the current frame.
func (e *Engine) Render() Frame {
	l := e.ensureLayout()
	f := CompileFrame(l, e.ctrl.Snapshot(), e.markerRadius)
	f.Caches = e.CacheStats()
	return f
}

// RenderJSON compiles the current frame as JSON.
func (e *Engine) RenderJSON() string {
	result, err := FrameToJSON(e.Render())
	if err != nil {
		e.log.Warn("frame encode failed", "error", err)
	}
	return result
}

// HitTest returns the point under p within the configured hit radius.
func (e *Engine) HitTest(p geom.Point) (hittest.DataPointInfo, bool) {
	e.ensureLayout()
	return e.targets.HitTest(p, e.ctrl.Interactions().HitTestRadius)
}

// HitTestJSON is HitTest encoded as a HitTestResult.
func (e *Engine) HitTestJSON(p geom.Point) string {
	res := HitTestResult{}
	if info, ok := e.HitTest(p); ok {
		res.Hit = true
		res.Point = &info
	}
	data, _ := json.Marshal(res)
	return string(data)
}

// CacheStats reports traffic for each memo cache.
func (e *Engine) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"bounds":     e.boundsCache.Stats(),
		"decimation": e.decimations.Stats(),
		"ticks":      e.tickCache.Stats(),
	}
}
