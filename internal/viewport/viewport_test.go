package viewport

import (
	"math"
	"math/rand"
	"testing"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/geom"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPanThenZoom(t *testing.T) {
	v := Identity().Pan(10, 0)
	if v.TranslateX != 10 {
		t.Fatalf("TranslateX = %v, want 10", v.TranslateX)
	}

	v = v.Zoom(2.0, geom.Pt(100, 100), DefaultLimits())
	if v.ScaleX != 2 || v.ScaleY != 2 {
		t.Fatalf("scale = (%v,%v), want (2,2)", v.ScaleX, v.ScaleY)
	}
	if !v.IsZoomed() {
		t.Error("IsZoomed() = false after zoom")
	}
	// focal - (focal - old) * ratio = 100 - (100-10)*2
	if v.TranslateX != -80 || v.TranslateY != -100 {
		t.Errorf("translate = (%v,%v), want (-80,-100)", v.TranslateX, v.TranslateY)
	}
}

func TestZoomKeepsFocalPointFixed(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	v := Identity()
	lim := Limits{MinZoom: 0.01, MaxZoom: 100}
	for i := 0; i < 100; i++ {
		focal := geom.Pt(rng.Float64()*800, rng.Float64()*600)
		content := v.Invert(focal)
		v = v.Zoom(0.5+rng.Float64()*1.5, focal, lim)
		if got := v.Apply(content); geom.Distance(got, focal) > 1e-6 {
			t.Fatalf("step %d: focal content moved from %v to %v", i, focal, got)
		}
	}
}

func TestZoomClampIdempotent(t *testing.T) {
	lim := DefaultLimits()
	focal := geom.Pt(123.4, 56.7)

	v := Identity().Pan(3.3, -7.1).Zoom(1000, focal, lim)
	if v.ScaleX != lim.MaxZoom || v.ScaleY != lim.MaxZoom {
		t.Fatalf("scale = (%v,%v), want clamped to %v", v.ScaleX, v.ScaleY, lim.MaxZoom)
	}

	again := v.Zoom(1000, focal, lim)
	if !again.Equal(v) {
		t.Errorf("zooming a clamped viewport changed it: %+v -> %+v", v, again)
	}
	for i := 0; i < 10; i++ {
		again = again.Zoom(1000, focal, lim)
	}
	if !again.Equal(v) {
		t.Errorf("repeated clamped zooms drifted: %+v", again)
	}

	low := Identity().Zoom(1e-6, focal, lim)
	if low.ScaleX != lim.MinZoom {
		t.Errorf("min clamp = %v, want %v", low.ScaleX, lim.MinZoom)
	}
	if lim.Clamp(lim.Clamp(42)) != lim.Clamp(42) {
		t.Error("Clamp is not idempotent")
	}
}

func TestZoomSingleAxis(t *testing.T) {
	lim := DefaultLimits()
	v := Identity().Pan(5, 5)

	x := v.ZoomX(3, 50, lim)
	if x.ScaleX != 3 || x.ScaleY != 1 || x.TranslateY != 5 {
		t.Errorf("ZoomX touched Y: %+v", x)
	}
	if !almost(x.TranslateX, 50-(50-5)*3) {
		t.Errorf("ZoomX translate = %v", x.TranslateX)
	}

	y := v.ZoomY(0.5, 20, lim)
	if y.ScaleY != 0.5 || y.ScaleX != 1 || y.TranslateX != 5 {
		t.Errorf("ZoomY touched X: %+v", y)
	}
}

func TestZoomIgnoresInvalidFactor(t *testing.T) {
	v := Identity().Pan(1, 2)
	for _, f := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if got := v.Zoom(f, geom.Pt(0, 0), DefaultLimits()); !got.Equal(v) {
			t.Errorf("Zoom(%v) changed viewport to %+v", f, got)
		}
	}
}

func TestPanAssociative(t *testing.T) {
	a := Identity().Pan(1.5, 2).Pan(-3, 4.25).Pan(10, -1)
	b := Identity().Pan(1.5-3+10, 2+4.25-1)
	if !almost(a.TranslateX, b.TranslateX) || !almost(a.TranslateY, b.TranslateY) {
		t.Errorf("pans not associative: %+v vs %+v", a, b)
	}

	x := Identity().PanAxis(geom.Pt(4, 9), AxisX)
	if x.TranslateX != 4 || x.TranslateY != 0 {
		t.Errorf("PanAxis(X) = %+v", x)
	}
	y := Identity().PanAxis(geom.Pt(4, 9), AxisY)
	if y.TranslateX != 0 || y.TranslateY != 9 {
		t.Errorf("PanAxis(Y) = %+v", y)
	}
}

func TestImmutability(t *testing.T) {
	v := Identity()
	_ = v.Pan(10, 10)
	_ = v.Zoom(2, geom.Pt(1, 1), DefaultLimits())
	if !v.Equal(Identity()) {
		t.Errorf("operations mutated receiver: %+v", v)
	}
	if !v.Pan(1, 1).Zoom(3, geom.Pt(0, 0), DefaultLimits()).Reset().Equal(Identity()) {
		t.Error("Reset did not return identity")
	}
}

func TestMatrixMatchesApply(t *testing.T) {
	v := Identity().Pan(12, -4).Zoom(2.5, geom.Pt(30, 40), DefaultLimits())
	m := v.Matrix()
	p := geom.Pt(17, 23)
	if geom.Distance(m.Apply(p), v.Apply(p)) > 1e-9 {
		t.Errorf("Matrix().Apply = %v, Apply = %v", m.Apply(p), v.Apply(p))
	}
	if geom.Distance(v.Invert(v.Apply(p)), p) > 1e-9 {
		t.Errorf("Invert(Apply(p)) != p")
	}
}

func TestVisibleData(t *testing.T) {
	region := geom.RectXYWH(0, 0, 100, 100)
	tr := bounds.NewTransform(bounds.Bounds{Min: 0, Max: 1000}, bounds.Bounds{Min: 0, Max: 10}, region)

	x, _ := Identity().VisibleData(tr)
	if !almost(x.Min, 0) || !almost(x.Max, 1000) {
		t.Errorf("identity visible x = %v", x)
	}

	zoomed := Identity().ZoomX(2, 0, DefaultLimits())
	x, _ = zoomed.VisibleData(tr)
	if !almost(x.Min, 0) || !almost(x.Max, 500) {
		t.Errorf("2x zoom at left edge visible x = %v, want {0 500}", x)
	}

	panned := zoomed.Pan(-100, 0)
	x, _ = panned.VisibleData(tr)
	if !almost(x.Min, 500) || !almost(x.Max, 1000) {
		t.Errorf("panned visible x = %v, want {500 1000}", x)
	}
}

func TestResetKeepsPins(t *testing.T) {
	v := Identity().WithPins(bounds.PinAt(2), bounds.Pin{}, bounds.Pin{}, bounds.PinAt(8))
	got := v.Pan(5, 5).Zoom(2, geom.Pt(0, 0), DefaultLimits()).Reset()
	if got.IsZoomed() || got.IsPanned() {
		t.Fatalf("Reset left transform %+v", got)
	}
	if got.XMin != bounds.PinAt(2) || got.YMax != bounds.PinAt(8) || got.XMax.Valid {
		t.Errorf("Reset pins = %+v", got)
	}
}

func TestApplyPins(t *testing.T) {
	v := Identity().WithPins(bounds.PinAt(-1), bounds.Pin{}, bounds.Pin{}, bounds.PinAt(99))
	x, y := v.ApplyPins(bounds.Bounds{Min: 0, Max: 10}, bounds.Bounds{Min: 0, Max: 5})
	if x != (bounds.Bounds{Min: -1, Max: 10}) || y != (bounds.Bounds{Min: 0, Max: 99}) {
		t.Errorf("ApplyPins = %v %v", x, y)
	}
	if v.Equal(Identity()) {
		t.Error("pinned viewport compares equal to identity")
	}
}
