package engine

import (
	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/cache"
	"github.com/inamate/chartgeo/internal/decimate"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/hittest"
)

type axisBounds struct {
	x, y bounds.Bounds
}

type decimationKey struct {
	series  cache.Signature
	cfg     decimate.Config
	visible bounds.Bounds
	pixels  float64
}

type tickKey struct {
	b bounds.Bounds
	n int
}

// buildLayout computes bounds, decimates every visible series and registers
// a hit target for each kept point that lands near the plot region.
func (e *Engine) buildLayout() *Layout {
	vp := e.ctrl.Viewport()
	visible := e.ctrl.VisibleSeriesIndices(len(e.series))

	natural := e.naturalBounds(visible)
	xb := natural.x.WithOverrides(e.xMin, e.xMax)
	yb := bounds.ApplyY(natural.y, e.yOpts)
	xb, yb = vp.ApplyPins(xb, yb)

	t := bounds.NewTransform(xb, yb, e.region)
	visX, visY := vp.VisibleData(t)

	layout := &Layout{
		Region:    e.region,
		Transform: t,
		Viewport:  vp,
		XBounds:   xb,
		YBounds:   yb,
		VisibleX:  visX,
		VisibleY:  visY,
		XTicks:    e.ticks(visX),
		YTicks:    e.ticks(visY),
	}

	e.targets.Clear()
	hitArea := e.region.ExpandedByMargin(e.markerRadius + e.ctrl.Interactions().HitTestRadius)
	view := decimate.View{X: visX, Pixels: geom.Width(e.region)}

	for _, si := range visible {
		s := e.series[si]
		key := decimationKey{series: e.sigs[si], cfg: e.decim, visible: visX, pixels: view.Pixels}
		indices := e.decimations.GetOrCompute(key, func() []int {
			return decimate.Apply(s.Points, e.decim, view)
		})

		sl := SeriesLayout{
			Index:   si,
			Name:    s.Name,
			Indices: indices,
			Screen:  make([]geom.Point, len(indices)),
			Total:   len(s.Points),
		}
		for k, idx := range indices {
			p := s.Points[idx]
			screen := vp.Apply(t.DataToScreen(p.X, p.Y))
			sl.Screen[k] = screen
			if !hitArea.ContainsPoint(screen) {
				continue
			}
			e.targets.AddCircle(hittest.DataPointInfo{
				SeriesIndex: si,
				PointIndex:  idx,
				Screen:      screen,
				DataX:       p.X,
				DataY:       p.Y,
				SeriesName:  s.Name,
				Label:       p.Label,
				Metadata:    p.Metadata,
			}, screen, e.markerRadius)
		}
		layout.Series = append(layout.Series, sl)
	}

	e.log.Debug("layout rebuilt",
		"series", len(layout.Series),
		"targets", e.targets.Len(),
		"indexed", e.targets.Indexed(),
		"visibleX", visX,
	)
	return layout
}

// naturalBounds returns the data extents of the visible series, memoised
// by the combined content signature.
func (e *Engine) naturalBounds(visible []int) axisBounds {
	sigs := make([]cache.Signature, 0, len(visible)+1)
	for _, i := range visible {
		sigs = append(sigs, e.sigs[i])
	}
	return e.boundsCache.GetOrCompute(cache.Combine(sigs...), func() axisBounds {
		shown := make(map[int]bool, len(visible))
		for _, i := range visible {
			shown[i] = true
		}
		x, y := bounds.CalculateSeries(e.series, func(i int) bool { return shown[i] })
		return axisBounds{x: x, y: y}
	})
}

func (e *Engine) ticks(b bounds.Bounds) []float64 {
	key := tickKey{b: b, n: e.maxTicks}
	return e.tickCache.GetOrCompute(key, func() []float64 {
		return bounds.Ticks(b, e.maxTicks)
	})
}

// seriesSignature digests a series' name and coordinates.
func seriesSignature(index int, name string, xs, ys []float64) cache.Signature {
	s := cache.NewSigner().Int(index).Text(name).Int(len(xs))
	for i := range xs {
		s.Float64(xs[i]).Float64(ys[i])
	}
	return s.Sum()
}
