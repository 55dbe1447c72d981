// Package interact holds the interaction controller: the stateful owner of
// the viewport, selection, hover, tooltip and series visibility for one
// chart. It turns decoded input events into state changes and tells its
// listeners after every change.
//
// A Controller is single-threaded. Every call, including momentum ticks
// delivered by the Scheduler, must come from the same goroutine.
package interact

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
	"github.com/inamate/chartgeo/internal/viewport"
)

// HitTester resolves a screen position to the data point under it.
type HitTester interface {
	HitTest(p geom.Point, radius float64) (hittest.DataPointInfo, bool)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the timer source for momentum. Without one, momentum
// is disabled.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithHitTester(h HitTester) Option {
	return func(c *Controller) { c.hit = h }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

type listener struct {
	id int
	fn func()
}

// Controller owns the interactive state of one chart.
type Controller struct {
	cfg Interactions
	vp  viewport.Viewport

	selected   map[hittest.PointID]struct{}
	lastSelect *hittest.PointID
	hovered    *hittest.DataPointInfo
	tooltip    *hittest.DataPointInfo
	hidden     map[int]struct{}

	interacting bool

	listeners []listener
	nextID    int

	hit   HitTester
	sched Scheduler
	log   *slog.Logger
	now   func() time.Time

	gesture  gesture
	momentum momentum
	closed   bool
}

// NewController creates a controller at the identity viewport.
func NewController(cfg Interactions, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		vp:       viewport.Identity(),
		selected: make(map[hittest.PointID]struct{}),
		hidden:   make(map[int]struct{}),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Listeners ---

// AddListener registers fn to run after every state change. The returned
// function unregisters it.
func (c *Controller) AddListener(fn func()) (remove func()) {
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		c.listeners = slices.DeleteFunc(c.listeners, func(l listener) bool { return l.id == id })
	}
}

func (c *Controller) notify() {
	if c.closed {
		return
	}
	// Listeners may add or remove listeners while running.
	for _, l := range slices.Clone(c.listeners) {
		l.fn()
	}
}

// Close stops momentum and drops every listener. The controller stays
// usable but never notifies again.
func (c *Controller) Close() {
	c.StopMomentum()
	c.listeners = nil
	c.closed = true
}

// --- Configuration ---

// Interactions returns the active gesture configuration.
func (c *Controller) Interactions() Interactions {
	return c.cfg
}

// SetInteractions replaces the gesture configuration and re-clamps the
// viewport to the new zoom limits.
func (c *Controller) SetInteractions(cfg Interactions) {
	c.cfg = cfg
	if !cfg.EnableMomentum {
		c.StopMomentum()
	}
	lim := cfg.Limits()
	next := c.vp
	next.ScaleX, next.ScaleY = lim.Clamp(next.ScaleX), lim.Clamp(next.ScaleY)
	c.setViewport(next)
}

// SetHitTester swaps the hit tester used by pointer events.
func (c *Controller) SetHitTester(h HitTester) {
	c.hit = h
}

// --- Viewport ---

// Viewport returns the current viewport.
func (c *Controller) Viewport() viewport.Viewport {
	return c.vp
}

// SetViewport replaces the viewport, notifying when it changed.
func (c *Controller) SetViewport(v viewport.Viewport) {
	c.setViewport(v)
}

func (c *Controller) setViewport(v viewport.Viewport) bool {
	if v.Equal(c.vp) {
		return false
	}
	c.vp = v
	c.notify()
	return true
}

// SetPins fixes data-space axis edges; unset pins follow the data.
func (c *Controller) SetPins(xMin, xMax, yMin, yMax bounds.Pin) {
	c.setViewport(c.vp.WithPins(xMin, xMax, yMin, yMax))
}

// Pan moves the viewport by delta along the configured pan axis.
func (c *Controller) Pan(delta geom.Point) {
	c.setViewport(c.vp.PanAxis(delta, c.cfg.PanAxis))
}

// Zoom scales about focal along the configured zoom axis.
func (c *Controller) Zoom(factor float64, focal geom.Point) {
	c.setViewport(c.vp.ZoomAxis(factor, focal, c.cfg.Limits(), c.cfg.ZoomAxis))
}

// ZoomX scales the horizontal axis only.
func (c *Controller) ZoomX(factor, focalX float64) {
	c.setViewport(c.vp.ZoomX(factor, focalX, c.cfg.Limits()))
}

// ZoomY scales the vertical axis only.
func (c *Controller) ZoomY(factor, focalY float64) {
	c.setViewport(c.vp.ZoomY(factor, focalY, c.cfg.Limits()))
}

// ResetViewport returns to the identity viewport, keeping axis pins.
func (c *Controller) ResetViewport() {
	c.StopMomentum()
	c.setViewport(c.vp.Reset())
}

// --- Selection ---

// IsSelected reports whether the point is selected.
func (c *Controller) IsSelected(series, point int) bool {
	_, ok := c.selected[hittest.PointID{Series: series, Point: point}]
	return ok
}

// Selection returns the selected points ordered by series then point.
func (c *Controller) Selection() []hittest.PointID {
	out := make([]hittest.PointID, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b hittest.PointID) int {
		if a.Series != b.Series {
			return a.Series - b.Series
		}
		return a.Point - b.Point
	})
	return out
}

func (c *Controller) add(id hittest.PointID) bool {
	if _, ok := c.selected[id]; ok {
		return false
	}
	c.selected[id] = struct{}{}
	c.lastSelect = &id
	return true
}

func (c *Controller) remove(id hittest.PointID) bool {
	if _, ok := c.selected[id]; !ok {
		return false
	}
	delete(c.selected, id)
	if c.lastSelect != nil && *c.lastSelect == id {
		c.lastSelect = nil
	}
	return true
}

// SelectPoint adds a point to the selection.
func (c *Controller) SelectPoint(series, point int) {
	if c.add(hittest.PointID{Series: series, Point: point}) {
		c.notify()
	}
}

// DeselectPoint removes a point from the selection.
func (c *Controller) DeselectPoint(series, point int) {
	if c.remove(hittest.PointID{Series: series, Point: point}) {
		c.notify()
	}
}

// TogglePoint flips the selection state of a point.
func (c *Controller) TogglePoint(series, point int) {
	id := hittest.PointID{Series: series, Point: point}
	if !c.remove(id) {
		c.add(id)
	}
	c.notify()
}

// SelectSeries adds points 0..count-1 of a series to the selection.
func (c *Controller) SelectSeries(series, count int) {
	changed := false
	for i := 0; i < count; i++ {
		if c.add(hittest.PointID{Series: series, Point: i}) {
			changed = true
		}
	}
	if changed {
		c.notify()
	}
}

// ClearSelection empties the selection, notifying only if it was non-empty.
func (c *Controller) ClearSelection() {
	if len(c.selected) == 0 {
		return
	}
	clear(c.selected)
	c.lastSelect = nil
	c.notify()
}

// LastSelected returns the most recently selected point.
func (c *Controller) LastSelected() (hittest.PointID, bool) {
	if c.lastSelect == nil {
		return hittest.PointID{}, false
	}
	return *c.lastSelect, true
}

// SelectNext moves the selection one point forward within the series of the
// most recent selection, wrapping at count. With nothing selected it picks
// point 0 of series 0.
func (c *Controller) SelectNext(count int) {
	c.step(count, 1)
}

// SelectPrevious moves the selection one point back, wrapping at 0. With
// nothing selected it picks the last point of series 0.
func (c *Controller) SelectPrevious(count int) {
	c.step(count, -1)
}

// stepOrigin is the point keyboard navigation moves from: the most recent
// selection, or after that was deselected the highest (forward) or lowest
// (backward) remaining one.
func (c *Controller) stepOrigin(dir int) (hittest.PointID, bool) {
	if c.lastSelect != nil {
		return *c.lastSelect, true
	}
	sel := c.Selection()
	if len(sel) == 0 {
		return hittest.PointID{}, false
	}
	if dir > 0 {
		return sel[len(sel)-1], true
	}
	return sel[0], true
}

func (c *Controller) step(count, dir int) {
	if count <= 0 {
		return
	}
	var next hittest.PointID
	from, ok := c.stepOrigin(dir)
	switch {
	case ok:
		next = from
		next.Point = ((next.Point+dir)%count + count) % count
	case dir > 0:
		next = hittest.PointID{Point: 0}
	default:
		next = hittest.PointID{Point: count - 1}
	}
	if _, held := c.selected[next]; held && len(c.selected) == 1 {
		return
	}
	clear(c.selected)
	c.selected[next] = struct{}{}
	c.lastSelect = &next
	c.notify()
}

// --- Hover and tooltip ---

// Hovered returns the hovered point, if any.
func (c *Controller) Hovered() (hittest.DataPointInfo, bool) {
	if c.hovered == nil {
		return hittest.DataPointInfo{}, false
	}
	return *c.hovered, true
}

// SetHoveredPoint sets or (with nil) clears the hovered point. Setting the
// same data point again is a no-op even if its screen position moved.
func (c *Controller) SetHoveredPoint(info *hittest.DataPointInfo) {
	if hittest.SamePoint(c.hovered, info) {
		return
	}
	if info != nil {
		v := *info
		info = &v
	}
	c.hovered = info
	c.notify()
}

// ClearHover clears the hovered point.
func (c *Controller) ClearHover() {
	c.SetHoveredPoint(nil)
}

// Tooltip returns the tooltip target, if any.
func (c *Controller) Tooltip() (hittest.DataPointInfo, bool) {
	if c.tooltip == nil {
		return hittest.DataPointInfo{}, false
	}
	return *c.tooltip, true
}

// ShowTooltip points the tooltip at info. It is independent of hover.
func (c *Controller) ShowTooltip(info hittest.DataPointInfo) {
	if c.tooltip != nil && c.tooltip.SameAs(info) {
		return
	}
	c.tooltip = &info
	c.notify()
}

// HideTooltip removes the tooltip.
func (c *Controller) HideTooltip() {
	if c.tooltip == nil {
		return
	}
	c.tooltip = nil
	c.notify()
}

// --- Interaction flag ---

// Interacting reports whether a gesture is in progress.
func (c *Controller) Interacting() bool {
	return c.interacting
}

// StartInteraction marks a gesture as started. Repeated calls are no-ops.
func (c *Controller) StartInteraction() {
	if c.interacting {
		return
	}
	c.interacting = true
	c.notify()
}

// EndInteraction marks the gesture as finished. Repeated calls are no-ops.
func (c *Controller) EndInteraction() {
	if !c.interacting {
		return
	}
	c.interacting = false
	c.notify()
}

// --- Series visibility ---

// IsSeriesVisible reports whether a series is shown.
func (c *Controller) IsSeriesVisible(index int) bool {
	_, hidden := c.hidden[index]
	return !hidden
}

// HiddenSeries returns the hidden series indices in ascending order.
func (c *Controller) HiddenSeries() []int {
	out := make([]int, 0, len(c.hidden))
	for i := range c.hidden {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (c *Controller) HideSeries(index int) {
	if _, ok := c.hidden[index]; ok {
		return
	}
	c.hidden[index] = struct{}{}
	c.notify()
}

func (c *Controller) ShowSeries(index int) {
	if _, ok := c.hidden[index]; !ok {
		return
	}
	delete(c.hidden, index)
	c.notify()
}

func (c *Controller) ToggleSeriesVisibility(index int) {
	if _, ok := c.hidden[index]; ok {
		delete(c.hidden, index)
	} else {
		c.hidden[index] = struct{}{}
	}
	c.notify()
}

// IsolateSeries hides every series in [0, total) except index.
func (c *Controller) IsolateSeries(index, total int) {
	next := make(map[int]struct{}, total)
	for i := 0; i < total; i++ {
		if i != index {
			next[i] = struct{}{}
		}
	}
	if maps.Equal(c.hidden, next) {
		return
	}
	c.hidden = next
	c.notify()
}

// ShowAllSeries clears every hidden flag.
func (c *Controller) ShowAllSeries() {
	if len(c.hidden) == 0 {
		return
	}
	clear(c.hidden)
	c.notify()
}

// VisibleSeriesIndices lists the visible series among [0, total).
func (c *Controller) VisibleSeriesIndices(total int) []int {
	out := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if c.IsSeriesVisible(i) {
			out = append(out, i)
		}
	}
	return out
}

// --- Snapshot ---

// State is a copy of the controller's state for rendering.
type State struct {
	Viewport    viewport.Viewport      `json:"viewport"`
	Selected    []hittest.PointID      `json:"selected"`
	Hovered     *hittest.DataPointInfo `json:"hovered,omitempty"`
	Tooltip     *hittest.DataPointInfo `json:"tooltip,omitempty"`
	Hidden      []int                  `json:"hidden"`
	Interacting bool                   `json:"interacting"`
	Momentum    bool                   `json:"momentum"`
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	s := State{
		Viewport:    c.vp,
		Selected:    c.Selection(),
		Hidden:      c.HiddenSeries(),
		Interacting: c.interacting,
		Momentum:    c.momentum.active,
	}
	if c.hovered != nil {
		h := *c.hovered
		s.Hovered = &h
	}
	if c.tooltip != nil {
		t := *c.tooltip
		s.Tooltip = &t
	}
	return s
}
