package interact

import (
	"testing"
	"time"

	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
)

// manualScheduler fires its callback only when the test calls tick.
type manualScheduler struct {
	fn      func()
	stopped bool
	started int
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) func() {
	m.fn = fn
	m.stopped = false
	m.started++
	return func() { m.stopped = true }
}

func (m *manualScheduler) tick() bool {
	if m.fn == nil || m.stopped {
		return false
	}
	m.fn()
	return true
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Millisecond)
}

func targets() *hittest.Dispatcher {
	d := hittest.NewDispatcher()
	d.AddCircle(hittest.DataPointInfo{SeriesIndex: 0, PointIndex: 3}, geom.Pt(50, 50), 5)
	d.AddCircle(hittest.DataPointInfo{SeriesIndex: 1, PointIndex: 8}, geom.Pt(200, 50), 5)
	return d
}

func TestDragPans(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.PointerDown(geom.Pt(100, 100), ms(0))
	c.PointerMove(geom.Pt(102, 100), ms(5))
	if c.Interacting() || c.Viewport().IsPanned() {
		t.Fatal("movement inside tap slop started a drag")
	}
	c.PointerMove(geom.Pt(150, 120), ms(10))
	if !c.Interacting() {
		t.Fatal("drag did not start interaction")
	}
	if v := c.Viewport(); v.TranslateX != 50 || v.TranslateY != 20 {
		t.Fatalf("translate = (%v,%v), want (50,20)", v.TranslateX, v.TranslateY)
	}
	c.PointerMove(geom.Pt(160, 120), ms(20))
	c.PointerUp(geom.Pt(160, 120), ms(500))
	if c.Interacting() {
		t.Error("interaction still active after release")
	}
	if v := c.Viewport(); v.TranslateX != 60 {
		t.Errorf("TranslateX = %v, want 60", v.TranslateX)
	}
}

func TestPanDisabled(t *testing.T) {
	cfg := DefaultInteractions()
	cfg.EnablePan = false
	c := NewController(cfg)
	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(100, 0), ms(10))
	c.PointerUp(geom.Pt(100, 0), ms(20))
	if c.Viewport().IsPanned() {
		t.Error("pan gesture applied while disabled")
	}
}

func TestTapSelectsAndShowsTooltip(t *testing.T) {
	c := NewController(DefaultInteractions(), WithHitTester(targets()))
	c.PointerDown(geom.Pt(52, 50), ms(0))
	c.PointerUp(geom.Pt(52, 50), ms(50))
	if !c.IsSelected(0, 3) {
		t.Fatalf("tap did not select: %v", c.Selection())
	}
	if tip, ok := c.Tooltip(); !ok || tip.PointIndex != 3 {
		t.Fatalf("tooltip = %v,%v", tip, ok)
	}

	c.PointerDown(geom.Pt(500, 500), ms(100))
	c.PointerUp(geom.Pt(500, 500), ms(150))
	if len(c.Selection()) != 0 {
		t.Error("tap on empty space kept selection")
	}
	if _, ok := c.Tooltip(); ok {
		t.Error("tap on empty space kept tooltip")
	}
}

func TestTapDeselectHidesTooltip(t *testing.T) {
	c := NewController(DefaultInteractions(), WithHitTester(targets()))
	c.PointerDown(geom.Pt(50, 50), ms(0))
	c.PointerUp(geom.Pt(50, 50), ms(30))
	if _, ok := c.Tooltip(); !ok {
		t.Fatal("first tap showed no tooltip")
	}
	c.PointerDown(geom.Pt(50, 50), ms(100))
	c.PointerUp(geom.Pt(50, 50), ms(130))
	if c.IsSelected(0, 3) {
		t.Fatal("second tap did not deselect")
	}
	if tip, ok := c.Tooltip(); ok {
		t.Errorf("tooltip still on deselected point %v", tip.ID())
	}
}

func TestHoverFollowsPointer(t *testing.T) {
	c, n := newCounted(t, WithHitTester(targets()))
	c.PointerMove(geom.Pt(48, 52), time.Time{})
	c.PointerMove(geom.Pt(51, 49), time.Time{})
	if h, ok := c.Hovered(); !ok || h.PointIndex != 3 {
		t.Fatalf("hovered = %v,%v", h, ok)
	}
	expectNotified(t, n, 1, "hover within one target")

	c.PointerMove(geom.Pt(205, 50), time.Time{})
	if h, _ := c.Hovered(); h.SeriesIndex != 1 {
		t.Errorf("hover did not move to second target: %v", h)
	}
	c.PointerLeave()
	if _, ok := c.Hovered(); ok {
		t.Error("hover survived pointer leave")
	}
}

func TestScrollZoom(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.Scroll(geom.Pt(0, 0), -100)
	if s := c.Viewport().ScaleX; s < 1.0999 || s > 1.1001 {
		t.Fatalf("ScaleX after one notch = %v, want 1.1", s)
	}
	c.Scroll(geom.Pt(0, 0), 100)
	if s := c.Viewport().ScaleX; s < 0.9999 || s > 1.0001 {
		t.Errorf("ScaleX after zoom out = %v, want 1", s)
	}

	cfg := DefaultInteractions()
	cfg.EnableScrollWheelZoom = false
	off := NewController(cfg)
	off.Scroll(geom.Pt(0, 0), -100)
	if off.Viewport().IsZoomed() {
		t.Error("scroll zoom applied while disabled")
	}
}

func TestPinch(t *testing.T) {
	c := NewController(DefaultInteractions())
	focal := geom.Pt(100, 100)
	c.PinchStart(focal)
	if !c.Interacting() {
		t.Fatal("pinch did not start interaction")
	}
	c.PinchUpdate(1.5, focal)
	c.PinchUpdate(2, focal)
	v := c.Viewport()
	if v.ScaleX < 1.9999 || v.ScaleX > 2.0001 {
		t.Fatalf("ScaleX = %v, want 2", v.ScaleX)
	}
	// Focal point stays put.
	if p := v.Apply(focal); geom.Distance(p, focal) > 1e-9 {
		t.Errorf("focal moved to %v", p)
	}
	c.PinchUpdate(0, focal)
	c.PinchEnd()
	if c.Interacting() {
		t.Error("pinch end left interaction active")
	}
}

func TestMomentumDecaysAndStops(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(DefaultInteractions(), WithScheduler(sched))

	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(20, 0), ms(10))
	c.PointerUp(geom.Pt(20, 0), ms(20))
	if !c.MomentumActive() {
		t.Fatal("fast release did not start momentum")
	}
	released := c.Viewport().TranslateX

	ticks := 0
	for sched.tick() && c.MomentumActive() {
		ticks++
		if ticks > 1000 {
			t.Fatal("momentum never stopped")
		}
	}
	if c.MomentumActive() {
		t.Fatal("momentum still active")
	}
	if ticks == 0 || c.Viewport().TranslateX <= released {
		t.Errorf("momentum ran %d ticks, translate %v -> %v", ticks, released, c.Viewport().TranslateX)
	}
}

func TestMomentumDecayNotifies(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(DefaultInteractions(), WithScheduler(sched))
	var seen []bool
	c.AddListener(func() { seen = append(seen, c.Snapshot().Momentum) })

	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(20, 0), ms(10))
	c.PointerUp(geom.Pt(20, 0), ms(20))
	for i := 0; sched.tick() && c.MomentumActive(); i++ {
		if i > 1000 {
			t.Fatal("momentum never stopped")
		}
	}
	if len(seen) == 0 || seen[len(seen)-1] {
		t.Fatalf("last notified momentum state = %v, want false", seen)
	}
}

func TestMomentumCancelledByNewGesture(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(DefaultInteractions(), WithScheduler(sched))
	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(0, 30), ms(10))
	c.PointerUp(geom.Pt(0, 30), ms(15))
	if !c.MomentumActive() {
		t.Fatal("momentum not started")
	}
	sched.tick()

	c.PointerDown(geom.Pt(5, 5), ms(40))
	if c.MomentumActive() || !sched.stopped {
		t.Fatal("pointer down did not stop momentum")
	}
	before := c.Viewport()
	// A tick already queued before the stop must be ignored.
	sched.fn()
	if !c.Viewport().Equal(before) {
		t.Error("stale tick moved the viewport")
	}
}

func TestSlowReleaseHasNoMomentum(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(DefaultInteractions(), WithScheduler(sched))
	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(40, 0), ms(10))
	c.PointerUp(geom.Pt(40, 0), ms(400))
	if c.MomentumActive() || sched.started != 0 {
		t.Error("momentum started after the pointer rested")
	}
}

func TestCloseStopsMomentum(t *testing.T) {
	sched := &manualScheduler{}
	c := NewController(DefaultInteractions(), WithScheduler(sched))
	c.PointerDown(geom.Pt(0, 0), ms(0))
	c.PointerMove(geom.Pt(30, 0), ms(10))
	c.PointerUp(geom.Pt(30, 0), ms(12))
	c.Close()
	if c.MomentumActive() || !sched.stopped {
		t.Error("Close left momentum running")
	}
}
