// Package rtree is a static R-tree over points, bulk loaded in one pass.
//
// Points are ordered along a space-filling curve, packed into leaf groups and
// then packed level by level into parents until a single root remains. The
// finished tree is immutable and safe for concurrent queries.
package rtree

import (
	"context"
	"fmt"
	"time"
)

// Tree is a bulk-loaded R-tree. Its zero value is not usable; call Build.
type Tree struct {
	nodes  []node
	root   int // -1 when the tree is empty
	dim    int
	size   int
	height int

	pointDist PointDistance
	boxDist   BoxDistance
	logger    *Logger
	metrics   MetricsCollector
}

// Build bulk loads a tree from points. The payload of each leaf is the index
// of its point in points.
func Build(points PointSource, opts ...Option) (*Tree, error) {
	start := time.Now()
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t, err := build(points, o)
	n, levels, nodes, dim := 0, 0, 0, 0
	if points != nil {
		n = points.Len()
	}
	if t != nil {
		levels, nodes, dim = t.height, len(t.nodes), t.dim
	}
	d := time.Since(start)
	o.metrics.RecordBuild(n, levels, d, err)
	o.logger.LogBuild(context.Background(), n, dim, levels, nodes, d, err)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func build(points PointSource, o options) (*Tree, error) {
	if points == nil {
		return nil, fmt.Errorf("%w: nil point source", ErrInvalidArgument)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := o.leafBounds.Validate(); err != nil {
		return nil, fmt.Errorf("leaf bounds: %w", err)
	}
	if err := o.nodeBounds.Validate(); err != nil {
		return nil, fmt.Errorf("node bounds: %w", err)
	}
	if o.nodeBounds.Max < 2 {
		return nil, fmt.Errorf("node bounds: %w: max fan-out must be at least 2", ErrInvalidBounds)
	}
	dim, err := sourceDim(points)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		root:      -1,
		dim:       dim,
		size:      points.Len(),
		pointDist: o.pointDist,
		boxDist:   o.boxDist,
		logger:    o.logger,
		metrics:   o.metrics,
	}
	n := t.size
	if n == 0 {
		return t, nil
	}

	view := newIndexView(points)
	o.sorter.Sort(points, view.idx)
	if err := checkPermutation(view.idx); err != nil {
		return nil, err
	}

	a := &arena{nodes: make([]node, 0, estimateNodes(n, o.leafBounds, o.nodeBounds))}
	for i := 0; i < n; i++ {
		a.leaf(view.idx[i], view.Point(i))
	}
	t.height = 1
	if n == 1 {
		t.nodes, t.root = a.nodes, 0
		return t, nil
	}

	lo, hi := 0, n
	bounds := o.leafBounds
	for {
		boxes := a.boxes(lo, hi)
		sizes, err := o.packer.Pack(boxes, bounds)
		if err != nil {
			return nil, err
		}
		checkGroups(sizes, len(boxes))
		if lo > 0 && len(sizes) == len(boxes) {
			o.logger.Warn("packing did not shrink level, repacking with fixed groups",
				"level", t.height,
				"nodes", len(boxes),
			)
			sizes, err = FixedPacker{}.Pack(boxes, bounds)
			if err != nil {
				return nil, err
			}
			checkGroups(sizes, len(boxes))
		}

		pos := lo
		for _, size := range sizes {
			if _, err := a.internal(pos, size); err != nil {
				return nil, err
			}
			pos += size
		}
		t.height++
		lo, hi = hi, len(a.nodes)
		if hi-lo == 1 {
			break
		}
		bounds = o.nodeBounds
	}

	t.nodes, t.root = a.nodes, lo
	return t, nil
}

// checkGroups panics unless sizes are positive and sum to n. A packer that
// breaks this would silently drop or duplicate points.
func checkGroups(sizes []int, n int) {
	sum := 0
	for _, s := range sizes {
		if s < 1 {
			invariantPanic("packer returned group of size %d", s)
		}
		sum += s
	}
	if sum != n {
		invariantPanic("packer group sizes sum to %d, want %d", sum, n)
	}
}

func checkPermutation(perm []int) error {
	seen := make([]bool, len(perm))
	for _, i := range perm {
		if i < 0 || i >= len(perm) || seen[i] {
			return fmt.Errorf("%w: sorter did not return a permutation", ErrInvalidArgument)
		}
		seen[i] = true
	}
	return nil
}

// estimateNodes sizes the arena for fixed packing at the max fan-out.
func estimateNodes(n int, leaf, internal Bounds) int {
	total := n
	n = (n + leaf.Max - 1) / leaf.Max
	total += n
	for n > 1 {
		n = (n + internal.Max - 1) / internal.Max
		total += n
	}
	return total
}

// Len returns the number of points in the tree.
func (t *Tree) Len() int { return t.size }

// Dim returns the dimension of the indexed points, or 0 for an empty tree.
func (t *Tree) Dim() int { return t.dim }

// Height returns the number of levels, counting the leaves. An empty tree has
// height 0 and a single-point tree height 1.
func (t *Tree) Height() int { return t.height }

// Root returns the root node. ok is false for an empty tree.
func (t *Tree) Root() (root Node, ok bool) {
	if t.root < 0 {
		return Node{}, false
	}
	return Node{t: t, i: t.root}, true
}

// Bounds returns the box covering every point. ok is false for an empty tree.
func (t *Tree) Bounds() (box Aabb, ok bool) {
	if t.root < 0 {
		return Aabb{}, false
	}
	return t.nodes[t.root].box, true
}

// Walk visits nodes depth-first, parents before children. If fn returns
// false the children of that node are skipped.
func (t *Tree) Walk(fn func(n Node, depth int) bool) {
	if t.root < 0 {
		return
	}
	type entry struct{ i, depth int }
	stack := []entry{{t.root, 0}}
	for len(stack) != 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(Node{t: t, i: e.i}, e.depth) {
			continue
		}
		nd := &t.nodes[e.i]
		switch nd.kind {
		case Leaf:
		case Internal:
			// push in reverse so children are visited in order
			for c := nd.first + nd.count - 1; c >= nd.first; c-- {
				stack = append(stack, entry{c, e.depth + 1})
			}
		default:
			invariantPanic("node %d has unknown kind %v", e.i, nd.kind)
		}
	}
}

// LeafGroups returns the payloads under each bottom-level internal node, in
// tree order. A single-point tree has one group.
func (t *Tree) LeafGroups() [][]int {
	if t.root < 0 {
		return nil
	}
	if t.nodes[t.root].kind == Leaf {
		return [][]int{{t.nodes[t.root].payload}}
	}
	var groups [][]int
	for _, nd := range t.nodes[t.size:] {
		if nd.kind != Internal || t.nodes[nd.first].kind != Leaf {
			continue
		}
		g := make([]int, nd.count)
		for i := range g {
			g[i] = t.nodes[nd.first+i].payload
		}
		groups = append(groups, g)
	}
	return groups
}
