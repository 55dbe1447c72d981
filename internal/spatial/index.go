// Package spatial provides screen-space indexes over bounding rectangles:
// a quadtree, a uniform grid and a linear reference implementation.
//
// Indexes are disposable. Insert and Clear only mark the index dirty; the
// next query rebuilds the structure wholesale. Queries against an empty
// index return no results.
package spatial

import (
	"math"
	"sort"

	"github.com/inamate/chartgeo/internal/geom"
)

// Index answers point, rectangle and nearest-neighbour queries over items
// registered with a bounding rectangle.
type Index[T any] interface {
	Insert(item T, rect geom.Rect)
	QueryPoint(p geom.Point) []T
	QueryRect(r geom.Rect) []T
	// FindNearest returns the item closest to p whose distance is at most
	// maxDistance. Equal distances resolve to the earliest inserted item.
	FindNearest(p geom.Point, maxDistance float64) (T, bool)
	Clear()
	Len() int
}

// DistanceFunc measures the gap between an item and p. It must never be
// smaller than the distance from p to the item's bounding rectangle, which
// is what the indexes use to prune. A nil DistanceFunc means "distance to
// the bounding rectangle".
type DistanceFunc[T any] func(item T, p geom.Point) float64

const (
	DefaultMaxItems = 10
	DefaultMaxDepth = 8
	DefaultCellSize = 50.0

	// maxGridCells caps bucket allocation for sparse, very wide layouts.
	maxGridCells = 1 << 18
)

type options struct {
	maxItems int
	maxDepth int
	cellSize float64
}

// Option configures an index.
type Option func(*options)

// WithMaxItems sets how many entries a quadtree node holds before splitting.
func WithMaxItems(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxItems = n
		}
	}
}

// WithMaxDepth sets the quadtree depth ceiling.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithCellSize sets the grid cell edge length in pixels.
func WithCellSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.cellSize = size
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		maxItems: DefaultMaxItems,
		maxDepth: DefaultMaxDepth,
		cellSize: DefaultCellSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type entry[T any] struct {
	item T
	rect geom.Rect
	seq  int
}

type entries[T any] []entry[T]

func (es entries[T]) distance(fn DistanceFunc[T], i int, p geom.Point) float64 {
	if fn == nil {
		return geom.DistanceToRect(p, es[i].rect)
	}
	return fn(es[i].item, p)
}

// nearest tracks the best candidate during a nearest-neighbour search.
type nearest struct {
	seq   int
	dist  float64
	found bool
	limit float64
}

func newNearest(maxDistance float64) nearest {
	return nearest{limit: maxDistance, dist: math.Inf(1)}
}

func (n *nearest) offer(seq int, d float64) {
	if math.IsNaN(d) || d > n.limit {
		return
	}
	if !n.found || d < n.dist || (d == n.dist && seq < n.seq) {
		n.seq, n.dist, n.found = seq, d, true
	}
}

// prune reports whether nothing at lower bound lb can beat the current best.
func (n *nearest) prune(lb float64) bool {
	return lb > n.limit || (n.found && lb > n.dist)
}

func collect[T any](es entries[T], seqs []int) []T {
	if len(seqs) == 0 {
		return nil
	}
	sort.Ints(seqs)
	out := make([]T, len(seqs))
	for i, s := range seqs {
		out[i] = es[s].item
	}
	return out
}

// Linear is the brute-force reference index.
type Linear[T any] struct {
	distance DistanceFunc[T]
	entries  entries[T]
}

// NewLinear creates a linear-scan index.
func NewLinear[T any](distance DistanceFunc[T]) *Linear[T] {
	return &Linear[T]{distance: distance}
}

func (l *Linear[T]) Insert(item T, rect geom.Rect) {
	l.entries = append(l.entries, entry[T]{item: item, rect: rect, seq: len(l.entries)})
}

func (l *Linear[T]) QueryPoint(p geom.Point) []T {
	var seqs []int
	for i := range l.entries {
		if l.entries[i].rect.ContainsPoint(p) {
			seqs = append(seqs, i)
		}
	}
	return collect(l.entries, seqs)
}

func (l *Linear[T]) QueryRect(r geom.Rect) []T {
	var seqs []int
	for i := range l.entries {
		if l.entries[i].rect.Intersects(r) {
			seqs = append(seqs, i)
		}
	}
	return collect(l.entries, seqs)
}

func (l *Linear[T]) FindNearest(p geom.Point, maxDistance float64) (T, bool) {
	best := newNearest(maxDistance)
	for i := range l.entries {
		if l.entries[i].rect.IsEmpty() {
			continue
		}
		best.offer(i, l.entries.distance(l.distance, i, p))
	}
	if !best.found {
		var zero T
		return zero, false
	}
	return l.entries[best.seq].item, true
}

func (l *Linear[T]) Clear() {
	l.entries = nil
}

func (l *Linear[T]) Len() int {
	return len(l.entries)
}
