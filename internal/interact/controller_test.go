package interact

import (
	"slices"
	"testing"

	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
	"github.com/inamate/chartgeo/internal/viewport"
)

func newCounted(t *testing.T, opts ...Option) (*Controller, *int) {
	t.Helper()
	c := NewController(DefaultInteractions(), opts...)
	n := new(int)
	c.AddListener(func() { *n++ })
	return c, n
}

func expectNotified(t *testing.T, n *int, want int, what string) {
	t.Helper()
	if *n != want {
		t.Fatalf("%s: %d notifications, want %d", what, *n, want)
	}
}

func TestPanThenZoom(t *testing.T) {
	c, n := newCounted(t)

	c.Pan(geom.Pt(10, 0))
	expectNotified(t, n, 1, "pan")
	if v := c.Viewport(); v.TranslateX != 10 {
		t.Fatalf("TranslateX = %v, want 10", v.TranslateX)
	}

	c.Zoom(2, geom.Pt(100, 100))
	expectNotified(t, n, 2, "zoom")
	v := c.Viewport()
	if v.ScaleX != 2 || v.ScaleY != 2 || !v.IsZoomed() {
		t.Fatalf("viewport after zoom = %+v", v)
	}

	c.Pan(geom.Pt(0, 0))
	c.Zoom(1, geom.Pt(5, 5))
	expectNotified(t, n, 2, "no-op pan and zoom")

	c.ResetViewport()
	c.ResetViewport()
	expectNotified(t, n, 3, "reset twice")
	if c.Viewport().IsZoomed() {
		t.Error("still zoomed after reset")
	}
}

func TestZoomClampNotifiesOnce(t *testing.T) {
	c, n := newCounted(t)
	c.Zoom(1000, geom.Pt(0, 0))
	c.Zoom(1000, geom.Pt(0, 0))
	expectNotified(t, n, 1, "clamped zoom")
	if s := c.Viewport().ScaleX; s != 10 {
		t.Errorf("ScaleX = %v, want 10", s)
	}
}

func TestSingleAxisZoomAndPanAxis(t *testing.T) {
	cfg := DefaultInteractions()
	cfg.PanAxis = viewport.AxisX
	c := NewController(cfg)
	c.Pan(geom.Pt(5, 7))
	if v := c.Viewport(); v.TranslateX != 5 || v.TranslateY != 0 {
		t.Errorf("x-only pan gave %+v", v)
	}
	c.ZoomX(2, 0)
	if v := c.Viewport(); v.ScaleX != 2 || v.ScaleY != 1 {
		t.Errorf("ZoomX gave %+v", v)
	}
	c.ZoomY(3, 0)
	if v := c.Viewport(); v.ScaleX != 2 || v.ScaleY != 3 {
		t.Errorf("ZoomY gave %+v", v)
	}
}

func TestSelection(t *testing.T) {
	c, n := newCounted(t)

	c.SelectPoint(0, 1)
	c.SelectPoint(0, 1)
	expectNotified(t, n, 1, "select twice")

	c.DeselectPoint(0, 2)
	expectNotified(t, n, 1, "deselect unselected")

	c.TogglePoint(0, 2)
	c.TogglePoint(0, 1)
	expectNotified(t, n, 3, "toggles")
	if !c.IsSelected(0, 2) || c.IsSelected(0, 1) {
		t.Fatalf("selection = %v", c.Selection())
	}

	c.SelectSeries(1, 4)
	expectNotified(t, n, 4, "select series")
	c.SelectSeries(1, 4)
	expectNotified(t, n, 4, "select series again")
	want := []hittest.PointID{{Series: 0, Point: 2}, {Series: 1, Point: 0}, {Series: 1, Point: 1}, {Series: 1, Point: 2}, {Series: 1, Point: 3}}
	if got := c.Selection(); !slices.Equal(got, want) {
		t.Fatalf("Selection = %v, want %v", got, want)
	}

	c.ClearSelection()
	c.ClearSelection()
	expectNotified(t, n, 5, "clear twice")

	// Indices are stored opaquely.
	c.SelectPoint(-3, 1<<30)
	if !c.IsSelected(-3, 1<<30) {
		t.Error("out-of-range point not stored")
	}
}

func TestSelectNextWraps(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.SelectNext(10)
	if got := c.Selection(); !slices.Equal(got, []hittest.PointID{{Point: 0}}) {
		t.Fatalf("first SelectNext = %v, want point 0", got)
	}
	for i := 1; i <= 9; i++ {
		c.SelectNext(10)
	}
	if !c.IsSelected(0, 9) || len(c.Selection()) != 1 {
		t.Fatalf("after 10 calls selection = %v, want point 9", c.Selection())
	}
	c.SelectNext(10)
	if !c.IsSelected(0, 0) || len(c.Selection()) != 1 {
		t.Fatalf("after wrap selection = %v, want point 0", c.Selection())
	}

	c.SelectPrevious(10)
	if !c.IsSelected(0, 9) {
		t.Fatalf("SelectPrevious from 0 = %v, want 9", c.Selection())
	}
}

func TestSelectPreviousWithoutSelection(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.SelectPrevious(5)
	if !c.IsSelected(0, 4) {
		t.Fatalf("selection = %v, want last point", c.Selection())
	}
	c.SelectPoint(2, 3)
	c.SelectNext(5)
	if got := c.Selection(); !slices.Equal(got, []hittest.PointID{{Series: 2, Point: 4}}) {
		t.Errorf("SelectNext follows last selected series: %v", got)
	}
	c.SelectNext(0)
	if len(c.Selection()) != 1 {
		t.Error("SelectNext(0) changed selection")
	}
}

func TestSelectNextAfterDeselectingLast(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.SelectPoint(0, 3)
	c.SelectPoint(0, 5)
	c.DeselectPoint(0, 5)
	c.SelectNext(10)
	if got := c.Selection(); !slices.Equal(got, []hittest.PointID{{Point: 4}}) {
		t.Fatalf("SelectNext = %v, want 0:4", got)
	}

	c.ClearSelection()
	c.SelectPoint(1, 2)
	c.SelectPoint(1, 6)
	c.TogglePoint(1, 6)
	c.SelectPrevious(10)
	if got := c.Selection(); !slices.Equal(got, []hittest.PointID{{Series: 1, Point: 1}}) {
		t.Fatalf("SelectPrevious = %v, want 1:1", got)
	}
}

func TestHoverIdentity(t *testing.T) {
	c, n := newCounted(t)
	a := hittest.DataPointInfo{SeriesIndex: 1, PointIndex: 2, Screen: geom.Pt(10, 10)}
	moved := a
	moved.Screen = geom.Pt(40, 40)

	c.SetHoveredPoint(&a)
	c.SetHoveredPoint(&moved)
	expectNotified(t, n, 1, "hover same point twice")

	c.ClearHover()
	c.ClearHover()
	expectNotified(t, n, 2, "clear hover twice")
	if _, ok := c.Hovered(); ok {
		t.Error("hover still set")
	}
}

func TestTooltipIndependentOfHover(t *testing.T) {
	c, n := newCounted(t)
	info := hittest.DataPointInfo{SeriesIndex: 0, PointIndex: 5}
	c.ShowTooltip(info)
	c.ShowTooltip(info)
	expectNotified(t, n, 1, "show tooltip twice")
	if _, ok := c.Hovered(); ok {
		t.Error("tooltip set hover")
	}
	c.SetHoveredPoint(&hittest.DataPointInfo{SeriesIndex: 3})
	c.ClearHover()
	if got, ok := c.Tooltip(); !ok || got.PointIndex != 5 {
		t.Error("clearing hover removed tooltip")
	}
	c.HideTooltip()
	c.HideTooltip()
	expectNotified(t, n, 4, "hide tooltip twice")
}

func TestInteractionFlagIdempotent(t *testing.T) {
	c, n := newCounted(t)
	c.EndInteraction()
	c.StartInteraction()
	c.StartInteraction()
	c.EndInteraction()
	c.EndInteraction()
	expectNotified(t, n, 2, "start/end")
}

func TestSeriesVisibility(t *testing.T) {
	c, n := newCounted(t)
	c.HideSeries(1)
	c.HideSeries(1)
	expectNotified(t, n, 1, "hide twice")
	if got := c.VisibleSeriesIndices(4); !slices.Equal(got, []int{0, 2, 3}) {
		t.Errorf("visible = %v", got)
	}

	c.IsolateSeries(2, 4)
	c.IsolateSeries(2, 4)
	expectNotified(t, n, 2, "isolate twice")
	if got := c.VisibleSeriesIndices(4); !slices.Equal(got, []int{2}) {
		t.Errorf("visible after isolate = %v", got)
	}

	c.ToggleSeriesVisibility(0)
	if !c.IsSeriesVisible(0) {
		t.Error("toggle did not show series 0")
	}
	c.ShowSeries(3)
	if got := c.HiddenSeries(); !slices.Equal(got, []int{1}) {
		t.Errorf("hidden = %v, want [1]", got)
	}

	c.ShowAllSeries()
	before := *n
	c.ShowAllSeries()
	expectNotified(t, n, before, "show all when nothing hidden")
	if got := c.VisibleSeriesIndices(3); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("visible after show all = %v", got)
	}
}

func TestListenerRemovalAndClose(t *testing.T) {
	c := NewController(DefaultInteractions())
	a, b := 0, 0
	removeA := c.AddListener(func() { a++ })
	c.AddListener(func() { b++ })

	c.SelectPoint(0, 0)
	removeA()
	c.SelectPoint(0, 1)
	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d, want 1 and 2", a, b)
	}

	c.Close()
	c.SelectPoint(0, 2)
	if b != 2 {
		t.Error("listener ran after Close")
	}
	if !c.IsSelected(0, 2) {
		t.Error("closed controller stopped tracking state")
	}
}

func TestSnapshot(t *testing.T) {
	c := NewController(DefaultInteractions())
	c.SelectPoint(1, 1)
	c.HideSeries(2)
	c.ShowTooltip(hittest.DataPointInfo{SeriesIndex: 1, PointIndex: 1})
	s := c.Snapshot()
	if len(s.Selected) != 1 || !slices.Equal(s.Hidden, []int{2}) || s.Tooltip == nil || s.Hovered != nil {
		t.Errorf("Snapshot = %+v", s)
	}
	s.Tooltip.PointIndex = 99
	if got, _ := c.Tooltip(); got.PointIndex != 1 {
		t.Error("Snapshot shares tooltip with controller")
	}
}
