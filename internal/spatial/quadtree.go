package spatial

import (
	"sort"

	"github.com/inamate/chartgeo/internal/geom"
)

// Quadtree is a region quadtree over item bounding rectangles. The root
// covers the union of all entries. Entries that straddle a split line stay
// on the parent node.
type Quadtree[T any] struct {
	opts     options
	distance DistanceFunc[T]
	entries  entries[T]
	root     *quadNode
	dirty    bool
}

type quadNode struct {
	bounds   geom.Rect
	depth    int
	seqs     []int
	children *[4]*quadNode
}

// NewQuadtree creates an empty quadtree. Pass a nil distance to rank
// nearest candidates by bounding-rectangle distance.
func NewQuadtree[T any](distance DistanceFunc[T], opts ...Option) *Quadtree[T] {
	return &Quadtree[T]{opts: buildOptions(opts), distance: distance}
}

func (q *Quadtree[T]) Insert(item T, rect geom.Rect) {
	q.entries = append(q.entries, entry[T]{item: item, rect: rect, seq: len(q.entries)})
	q.dirty = true
}

func (q *Quadtree[T]) Clear() {
	q.entries = nil
	q.root = nil
	q.dirty = false
}

func (q *Quadtree[T]) Len() int {
	return len(q.entries)
}

// Depth reports the deepest node level after a rebuild, for diagnostics.
func (q *Quadtree[T]) Depth() int {
	q.ensureBuilt()
	if q.root == nil {
		return 0
	}
	depth := 0
	var walk func(n *quadNode)
	walk = func(n *quadNode) {
		if n.depth > depth {
			depth = n.depth
		}
		if n.children != nil {
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(q.root)
	return depth
}

func (q *Quadtree[T]) ensureBuilt() {
	if !q.dirty {
		return
	}
	q.dirty = false
	q.root = nil

	bounds := geom.Empty()
	for i := range q.entries {
		if !q.entries[i].rect.IsEmpty() {
			bounds = bounds.Union(q.entries[i].rect)
		}
	}
	if bounds.IsEmpty() {
		return
	}
	q.root = &quadNode{bounds: bounds}
	for i := range q.entries {
		if q.entries[i].rect.IsEmpty() {
			continue
		}
		q.insert(q.root, i)
	}
}

func (q *Quadtree[T]) insert(n *quadNode, seq int) {
	if n.children != nil {
		if c := n.childFor(q.entries[seq].rect); c != nil {
			q.insert(c, seq)
			return
		}
		n.seqs = append(n.seqs, seq)
		return
	}
	n.seqs = append(n.seqs, seq)
	if len(n.seqs) > q.opts.maxItems && n.depth < q.opts.maxDepth {
		q.split(n)
	}
}

func (q *Quadtree[T]) split(n *quadNode) {
	lo, hi, c := n.bounds.Lo(), n.bounds.Hi(), n.bounds.Center()
	d := n.depth + 1
	n.children = &[4]*quadNode{
		{bounds: geom.RectLTRB(lo.X, lo.Y, c.X, c.Y), depth: d},
		{bounds: geom.RectLTRB(c.X, lo.Y, hi.X, c.Y), depth: d},
		{bounds: geom.RectLTRB(lo.X, c.Y, c.X, hi.Y), depth: d},
		{bounds: geom.RectLTRB(c.X, c.Y, hi.X, hi.Y), depth: d},
	}
	seqs := n.seqs
	n.seqs = nil
	for _, seq := range seqs {
		if child := n.childFor(q.entries[seq].rect); child != nil {
			q.insert(child, seq)
		} else {
			n.seqs = append(n.seqs, seq)
		}
	}
}

func (n *quadNode) childFor(r geom.Rect) *quadNode {
	for _, c := range n.children {
		if c.bounds.Contains(r) {
			return c
		}
	}
	return nil
}

func (q *Quadtree[T]) QueryPoint(p geom.Point) []T {
	q.ensureBuilt()
	if q.root == nil {
		return nil
	}
	var seqs []int
	var walk func(n *quadNode)
	walk = func(n *quadNode) {
		if !n.bounds.ContainsPoint(p) {
			return
		}
		for _, s := range n.seqs {
			if q.entries[s].rect.ContainsPoint(p) {
				seqs = append(seqs, s)
			}
		}
		if n.children != nil {
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(q.root)
	return collect(q.entries, seqs)
}

func (q *Quadtree[T]) QueryRect(r geom.Rect) []T {
	q.ensureBuilt()
	if q.root == nil || r.IsEmpty() {
		return nil
	}
	var seqs []int
	var walk func(n *quadNode)
	walk = func(n *quadNode) {
		if !n.bounds.Intersects(r) {
			return
		}
		for _, s := range n.seqs {
			if q.entries[s].rect.Intersects(r) {
				seqs = append(seqs, s)
			}
		}
		if n.children != nil {
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(q.root)
	return collect(q.entries, seqs)
}

// FindNearest visits nodes best-first by their distance to p and stops
// descending once a node cannot hold anything closer than the current best.
func (q *Quadtree[T]) FindNearest(p geom.Point, maxDistance float64) (T, bool) {
	var zero T
	q.ensureBuilt()
	if q.root == nil || maxDistance < 0 {
		return zero, false
	}

	best := newNearest(maxDistance)
	var visit func(n *quadNode)
	visit = func(n *quadNode) {
		for _, s := range n.seqs {
			best.offer(s, q.entries.distance(q.distance, s, p))
		}
		if n.children == nil {
			return
		}
		type candidate struct {
			node *quadNode
			lb   float64
		}
		order := make([]candidate, 0, 4)
		for _, c := range n.children {
			order = append(order, candidate{c, geom.DistanceToRect(p, c.bounds)})
		}
		sort.SliceStable(order, func(i, j int) bool { return order[i].lb < order[j].lb })
		for _, c := range order {
			if best.prune(c.lb) {
				break
			}
			visit(c.node)
		}
	}
	if best.prune(geom.DistanceToRect(p, q.root.bounds)) {
		return zero, false
	}
	visit(q.root)

	if !best.found {
		return zero, false
	}
	return q.entries[best.seq].item, true
}
