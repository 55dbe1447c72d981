package spatial

import (
	"math"

	"github.com/inamate/chartgeo/internal/geom"
)

// Grid buckets items into uniform square cells covering the union of all
// entries. An item is registered in every cell its rectangle overlaps, so
// queries deduplicate by insertion order.
type Grid[T any] struct {
	opts     options
	distance DistanceFunc[T]
	entries  entries[T]
	dirty    bool

	origin     geom.Point
	cell       float64
	cols, rows int
	cells      [][]int

	// stamp marks entries already visited by the current query.
	stamp []uint32
	gen   uint32
}

// NewGrid creates an empty grid index.
func NewGrid[T any](distance DistanceFunc[T], opts ...Option) *Grid[T] {
	return &Grid[T]{opts: buildOptions(opts), distance: distance}
}

func (g *Grid[T]) Insert(item T, rect geom.Rect) {
	g.entries = append(g.entries, entry[T]{item: item, rect: rect, seq: len(g.entries)})
	g.dirty = true
}

func (g *Grid[T]) Clear() {
	g.entries = nil
	g.cells = nil
	g.stamp = nil
	g.cols, g.rows = 0, 0
	g.dirty = false
}

func (g *Grid[T]) Len() int {
	return len(g.entries)
}

// CellSize returns the effective cell edge after the last rebuild. It grows
// past the configured size when the layout would need too many cells.
func (g *Grid[T]) CellSize() float64 {
	g.ensureBuilt()
	return g.cell
}

func (g *Grid[T]) ensureBuilt() {
	if !g.dirty {
		return
	}
	g.dirty = false
	g.cells = nil
	g.cols, g.rows = 0, 0
	g.stamp = make([]uint32, len(g.entries))
	g.gen = 0

	bounds := geom.Empty()
	for i := range g.entries {
		if !g.entries[i].rect.IsEmpty() {
			bounds = bounds.Union(g.entries[i].rect)
		}
	}
	if bounds.IsEmpty() {
		return
	}

	w, h := geom.Width(bounds), geom.Height(bounds)
	g.cell = g.opts.cellSize
	if area := w * h; area/(g.cell*g.cell) > maxGridCells {
		g.cell = math.Sqrt(area / maxGridCells)
	}
	g.origin = bounds.Lo()
	g.cols = max(1, int(math.Ceil(w/g.cell)))
	g.rows = max(1, int(math.Ceil(h/g.cell)))
	// Long thin layouts can still overflow one dimension.
	for g.cols*g.rows > maxGridCells {
		g.cell *= 2
		g.cols = max(1, int(math.Ceil(w/g.cell)))
		g.rows = max(1, int(math.Ceil(h/g.cell)))
	}
	g.cells = make([][]int, g.cols*g.rows)

	for i := range g.entries {
		r := g.entries[i].rect
		if r.IsEmpty() {
			continue
		}
		c0, r0 := g.clampedCell(r.Lo())
		c1, r1 := g.clampedCell(r.Hi())
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				idx := row*g.cols + col
				g.cells[idx] = append(g.cells[idx], i)
			}
		}
	}
}

// cellOf returns the unclamped cell coordinates of p.
func (g *Grid[T]) cellOf(p geom.Point) (int, int) {
	return int(math.Floor((p.X - g.origin.X) / g.cell)),
		int(math.Floor((p.Y - g.origin.Y) / g.cell))
}

func (g *Grid[T]) clampedCell(p geom.Point) (int, int) {
	col, row := g.cellOf(p)
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.rows-1)
}

func (g *Grid[T]) nextGen() uint32 {
	g.gen++
	if g.gen == 0 {
		clear(g.stamp)
		g.gen = 1
	}
	return g.gen
}

func (g *Grid[T]) QueryPoint(p geom.Point) []T {
	g.ensureBuilt()
	if g.cells == nil {
		return nil
	}
	// Registration clamps to the grid, so clamping here keeps far-edge points
	// in the cell their rects were stored in.
	col, row := g.clampedCell(p)
	// Cell lookup is monotone in p, so any rect containing p is registered in
	// this cell exactly once.
	var seqs []int
	for _, s := range g.cells[row*g.cols+col] {
		if g.entries[s].rect.ContainsPoint(p) {
			seqs = append(seqs, s)
		}
	}
	return collect(g.entries, seqs)
}

func (g *Grid[T]) QueryRect(r geom.Rect) []T {
	g.ensureBuilt()
	if g.cells == nil || r.IsEmpty() {
		return nil
	}
	lo, hi := r.Lo(), r.Hi()
	c0, r0 := g.cellOf(lo)
	c1, r1 := g.cellOf(hi)
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, g.cols-1), min(r1, g.rows-1)
	if c0 > c1 || r0 > r1 {
		return nil
	}

	gen := g.nextGen()
	var seqs []int
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, s := range g.cells[row*g.cols+col] {
				if g.stamp[s] == gen {
					continue
				}
				g.stamp[s] = gen
				if g.entries[s].rect.Intersects(r) {
					seqs = append(seqs, s)
				}
			}
		}
	}
	return collect(g.entries, seqs)
}

// FindNearest scans square rings of cells outward from p. Every cell in
// ring k is at least (k-1)*cell away, which bounds the search.
func (g *Grid[T]) FindNearest(p geom.Point, maxDistance float64) (T, bool) {
	var zero T
	g.ensureBuilt()
	if g.cells == nil || maxDistance < 0 {
		return zero, false
	}

	cx, cy := g.cellOf(p)
	maxRing := max(abs(cx), abs(cx-(g.cols-1)), abs(cy), abs(cy-(g.rows-1)))

	gen := g.nextGen()
	best := newNearest(maxDistance)
	visit := func(col, row int) {
		if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
			return
		}
		for _, s := range g.cells[row*g.cols+col] {
			if g.stamp[s] == gen {
				continue
			}
			g.stamp[s] = gen
			best.offer(s, g.entries.distance(g.distance, s, p))
		}
	}

	for k := 0; k <= maxRing; k++ {
		if best.prune(float64(max(0, k-1)) * g.cell) {
			break
		}
		// Skip rings that lie wholly outside the grid.
		if cx+k < 0 || cx-k >= g.cols || cy+k < 0 || cy-k >= g.rows {
			continue
		}
		if k == 0 {
			visit(cx, cy)
			continue
		}
		for col := cx - k; col <= cx+k; col++ {
			visit(col, cy-k)
			visit(col, cy+k)
		}
		for row := cy - k + 1; row <= cy+k-1; row++ {
			visit(cx-k, row)
			visit(cx+k, row)
		}
	}

	if !best.found {
		return zero, false
	}
	return g.entries[best.seq].item, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
