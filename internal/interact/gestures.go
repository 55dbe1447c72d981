package interact

import (
	"math"
	"time"

	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
)

const (
	// MomentumInterval is the momentum tick period (about 60 Hz).
	MomentumInterval = 16 * time.Millisecond
	// MomentumFriction scales the velocity after every tick.
	MomentumFriction = 0.92
	// MomentumMinSpeed is the release speed in px/s below which no
	// momentum starts.
	MomentumMinSpeed = 50.0
	// MomentumStopDistance ends momentum once a tick moves less than this
	// many pixels.
	MomentumStopDistance = 0.5
	// releaseIdle discards velocity when the pointer rested this long
	// before release.
	releaseIdle = 100 * time.Millisecond
)

type gesture struct {
	down     bool
	dragging bool
	pinching bool
	origin   geom.Point
	last     geom.Point
	lastAt   time.Time
	velocity geom.Point // px/s

	pinchScale float64
	pinchFocal geom.Point
}

type momentum struct {
	active   bool
	gen      int
	velocity geom.Point
	stop     func()
}

func (c *Controller) at(t time.Time) time.Time {
	if t.IsZero() {
		return c.now()
	}
	return t
}

func (c *Controller) hitAt(p geom.Point) (hittest.DataPointInfo, bool) {
	if c.hit == nil {
		return hittest.DataPointInfo{}, false
	}
	return c.hit.HitTest(p, c.cfg.HitTestRadius)
}

// PointerDown starts a press at p. A zero time uses the controller clock.
func (c *Controller) PointerDown(p geom.Point, at time.Time) {
	c.StopMomentum()
	c.gesture.down = true
	c.gesture.dragging = false
	c.gesture.origin = p
	c.gesture.last = p
	c.gesture.lastAt = c.at(at)
	c.gesture.velocity = geom.Point{}
}

// PointerMove either drags the viewport (while pressed) or updates hover.
func (c *Controller) PointerMove(p geom.Point, at time.Time) {
	if !c.gesture.down {
		if !c.cfg.EnableHover || c.gesture.pinching {
			return
		}
		if info, ok := c.hitAt(p); ok {
			c.SetHoveredPoint(&info)
		} else {
			c.ClearHover()
		}
		return
	}

	if !c.gesture.dragging {
		if !c.cfg.EnablePan || geom.Distance(p, c.gesture.origin) <= c.cfg.TapSlop {
			return
		}
		c.gesture.dragging = true
		c.log.Debug("pan started", "x", p.X, "y", p.Y)
		c.StartInteraction()
	}

	now := c.at(at)
	delta := p.Sub(c.gesture.last)
	if dt := now.Sub(c.gesture.lastAt).Seconds(); dt > 0 {
		inst := delta.Mul(1 / dt)
		c.gesture.velocity = c.gesture.velocity.Mul(0.2).Add(inst.Mul(0.8))
	}
	c.gesture.last = p
	c.gesture.lastAt = now
	c.Pan(delta)
}

// PointerUp ends a press. A press that never became a drag is a tap: it
// toggles the point under the pointer, showing its tooltip when the point
// ends up selected, or clears both when nothing is there. A drag released fast enough starts momentum.
func (c *Controller) PointerUp(p geom.Point, at time.Time) {
	if !c.gesture.down {
		return
	}
	g := c.gesture
	c.gesture.down = false
	c.gesture.dragging = false

	if g.dragging {
		c.EndInteraction()
		velocity := g.velocity
		if c.at(at).Sub(g.lastAt) > releaseIdle {
			velocity = geom.Point{}
		}
		c.log.Debug("pan ended", "vx", velocity.X, "vy", velocity.Y)
		if c.cfg.EnableMomentum && velocity.Norm() >= MomentumMinSpeed {
			c.startMomentum(velocity)
		}
		return
	}

	if !c.cfg.EnableSelection {
		return
	}
	if info, ok := c.hitAt(p); ok {
		c.TogglePoint(info.SeriesIndex, info.PointIndex)
		if c.IsSelected(info.SeriesIndex, info.PointIndex) {
			c.ShowTooltip(info)
		} else {
			c.HideTooltip()
		}
		return
	}
	c.ClearSelection()
	c.HideTooltip()
}

// PointerLeave cancels any press and clears hover.
func (c *Controller) PointerLeave() {
	if c.gesture.dragging {
		c.EndInteraction()
	}
	c.gesture.down = false
	c.gesture.dragging = false
	c.ClearHover()
}

// Scroll zooms about p. deltaY is in pixels; 100px (one wheel notch) zooms
// by ScrollZoomStep, negative deltas zoom in.
func (c *Controller) Scroll(p geom.Point, deltaY float64) {
	if !c.cfg.EnableZoom || !c.cfg.EnableScrollWheelZoom || deltaY == 0 {
		return
	}
	step := c.cfg.ScrollZoomStep
	if step <= 1 {
		step = DefaultInteractions().ScrollZoomStep
	}
	c.StopMomentum()
	c.Zoom(math.Pow(step, -deltaY/100), p)
}

// PinchStart begins a two-finger gesture centred on focal.
func (c *Controller) PinchStart(focal geom.Point) {
	c.StopMomentum()
	c.gesture.down = false
	c.gesture.dragging = false
	c.gesture.pinching = true
	c.gesture.pinchScale = 1
	c.gesture.pinchFocal = focal
	c.StartInteraction()
}

// PinchUpdate applies the cumulative pinch scale since PinchStart. Moving
// the focal point pans when panning is enabled.
func (c *Controller) PinchUpdate(scale float64, focal geom.Point) {
	if !c.gesture.pinching || !(scale > 0) || math.IsInf(scale, 0) {
		return
	}
	factor := scale / c.gesture.pinchScale
	c.gesture.pinchScale = scale

	next := c.vp
	if c.cfg.EnablePan {
		next = next.PanAxis(focal.Sub(c.gesture.pinchFocal), c.cfg.PanAxis)
	}
	c.gesture.pinchFocal = focal
	if c.cfg.EnableZoom && c.cfg.EnablePinchZoom {
		next = next.ZoomAxis(factor, focal, c.cfg.Limits(), c.cfg.ZoomAxis)
	}
	c.setViewport(next)
}

// PinchEnd finishes the pinch.
func (c *Controller) PinchEnd() {
	if !c.gesture.pinching {
		return
	}
	c.gesture.pinching = false
	c.EndInteraction()
}

// --- Momentum ---

// MomentumActive reports whether a momentum animation is running.
func (c *Controller) MomentumActive() bool {
	return c.momentum.active
}

func (c *Controller) startMomentum(velocity geom.Point) {
	if c.sched == nil || c.closed {
		return
	}
	c.StopMomentum()
	c.momentum.gen++
	gen := c.momentum.gen
	c.momentum.active = true
	c.momentum.velocity = velocity
	c.log.Debug("momentum started", "speed", velocity.Norm())
	c.momentum.stop = c.sched.Every(MomentumInterval, func() { c.momentumTick(gen) })
	c.notify()
}

func (c *Controller) momentumTick(gen int) {
	// Ticks posted before a stop can still arrive; drop them.
	if !c.momentum.active || gen != c.momentum.gen {
		return
	}
	step := c.momentum.velocity.Mul(MomentumInterval.Seconds())
	if step.Norm() < MomentumStopDistance {
		c.StopMomentum()
		c.notify()
		return
	}
	c.momentum.velocity = c.momentum.velocity.Mul(MomentumFriction)
	before := c.vp
	c.Pan(step)
	if c.vp.Equal(before) {
		// Pan axis excludes the motion entirely.
		c.StopMomentum()
		c.notify()
	}
}

// StopMomentum cancels a running momentum animation.
func (c *Controller) StopMomentum() {
	if !c.momentum.active {
		return
	}
	c.momentum.active = false
	c.momentum.gen++
	if c.momentum.stop != nil {
		c.momentum.stop()
		c.momentum.stop = nil
	}
	c.log.Debug("momentum stopped")
}
