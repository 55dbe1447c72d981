// Package hittest resolves pointer positions to the data points rendered
// under them. A Dispatcher holds the targets of a single frame and switches
// from a linear scan to a spatial index once enough targets are registered.
package hittest

import (
	"math"

	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/spatial"
)

// IndexThreshold is the target count at which lookups go through the
// spatial index instead of scanning every target.
const IndexThreshold = 20

// Strategy selects the spatial index used above the threshold.
type Strategy int

const (
	StrategyQuadtree Strategy = iota
	StrategyGrid
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStrategy selects the spatial index implementation.
func WithStrategy(s Strategy) Option {
	return func(d *Dispatcher) { d.strategy = s }
}

// WithThreshold overrides IndexThreshold. Values below 1 disable indexing.
func WithThreshold(n int) Option {
	return func(d *Dispatcher) {
		if n < 1 {
			n = math.MaxInt
		}
		d.threshold = n
	}
}

// WithIndexOptions passes tuning options through to the spatial index.
func WithIndexOptions(opts ...spatial.Option) Option {
	return func(d *Dispatcher) { d.indexOpts = append(d.indexOpts, opts...) }
}

// Dispatcher owns the hit targets of the current frame.
type Dispatcher struct {
	targets   []Target
	strategy  Strategy
	threshold int
	indexOpts []spatial.Option

	index   spatial.Index[int]
	indexed int // number of targets already inserted into index
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{threshold: IndexThreshold}
	for _, opt := range opts {
		opt(d)
	}
	distance := func(i int, p geom.Point) float64 { return d.targets[i].DistanceTo(p) }
	switch d.strategy {
	case StrategyGrid:
		d.index = spatial.NewGrid(distance, d.indexOpts...)
	default:
		d.index = spatial.NewQuadtree(distance, d.indexOpts...)
	}
	return d
}

// Add registers a target. Registration order breaks distance ties.
func (d *Dispatcher) Add(t Target) {
	d.targets = append(d.targets, t)
}

func (d *Dispatcher) AddCircle(info DataPointInfo, center geom.Point, radius float64) {
	d.Add(Circle(info, center, radius))
}

func (d *Dispatcher) AddRect(info DataPointInfo, region geom.Rect) {
	d.Add(Rect(info, region))
}

func (d *Dispatcher) AddStroke(info DataPointInfo, path []geom.Point, width float64) {
	d.Add(Stroke(info, path, width))
}

func (d *Dispatcher) AddSector(info DataPointInfo, center geom.Point, inner, outer, start, sweep float64) {
	d.Add(Sector(info, center, inner, outer, start, sweep))
}

// Clear discards every target.
func (d *Dispatcher) Clear() {
	d.targets = nil
	d.index.Clear()
	d.indexed = 0
}

// Len returns the number of registered targets.
func (d *Dispatcher) Len() int {
	return len(d.targets)
}

// Targets returns the registered targets in registration order.
func (d *Dispatcher) Targets() []Target {
	return d.targets
}

// Indexed reports whether lookups currently go through the spatial index.
func (d *Dispatcher) Indexed() bool {
	return len(d.targets) >= d.threshold
}

func (d *Dispatcher) syncIndex() {
	for ; d.indexed < len(d.targets); d.indexed++ {
		d.index.Insert(d.indexed, d.targets[d.indexed].Bounds())
	}
}

// HitTest returns the nearest target within radius of p. Equal distances
// resolve to the first registered target.
func (d *Dispatcher) HitTest(p geom.Point, radius float64) (DataPointInfo, bool) {
	if !(radius >= 0) || len(d.targets) == 0 {
		return DataPointInfo{}, false
	}
	if d.Indexed() {
		d.syncIndex()
		i, ok := d.index.FindNearest(p, radius)
		if !ok {
			return DataPointInfo{}, false
		}
		return d.targets[i].Info, true
	}

	best, bestDist := -1, math.Inf(1)
	for i := range d.targets {
		dist := d.targets[i].DistanceTo(p)
		if dist <= radius && !math.IsInf(dist, 1) && (best < 0 || dist < bestDist) {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return DataPointInfo{}, false
	}
	return d.targets[best].Info, true
}

// HitTestAll returns every target within radius of p, in registration order.
func (d *Dispatcher) HitTestAll(p geom.Point, radius float64) []DataPointInfo {
	if !(radius >= 0) || len(d.targets) == 0 {
		return nil
	}
	var out []DataPointInfo
	if d.Indexed() {
		d.syncIndex()
		for _, i := range d.index.QueryRect(geom.RectAround(p, radius)) {
			if d.targets[i].DistanceTo(p) <= radius {
				out = append(out, d.targets[i].Info)
			}
		}
		return out
	}
	for i := range d.targets {
		if dist := d.targets[i].DistanceTo(p); dist <= radius && !math.IsInf(dist, 1) {
			out = append(out, d.targets[i].Info)
		}
	}
	return out
}
