package rtree

import "fmt"

// Kind distinguishes the two node variants.
type Kind uint8

const (
	// Leaf nodes hold one point and a degenerate box.
	Leaf Kind = iota + 1
	// Internal nodes hold a non-empty run of children and their joined box.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// node is one arena entry. Children of an internal node are always stored
// contiguously, so a (first, count) pair addresses them without pointers and
// no node refers back to its parent.
type node struct {
	kind Kind
	box  Aabb

	// payload is the source index of a leaf's point.
	payload int

	// first and count locate an internal node's children in the arena.
	first int
	count int
}

// arena is the flat node store filled bottom-up by Build.
type arena struct {
	nodes []node
}

// leaf appends a leaf for point and returns its index.
func (a *arena) leaf(payload int, point []float64) int {
	a.nodes = append(a.nodes, node{kind: Leaf, box: Wrap(point), payload: payload})
	return len(a.nodes) - 1
}

// internal appends a parent of the count nodes starting at first and returns
// its index. The parent's box is the join of its children's boxes.
func (a *arena) internal(first, count int) (int, error) {
	if count < 1 {
		return -1, ErrEmptyNode
	}
	if first < 0 || first+count > len(a.nodes) {
		return -1, fmt.Errorf("%w: children [%d, %d) outside arena of %d nodes", ErrInvalidArgument, first, first+count, len(a.nodes))
	}
	box := invertedAabb(a.nodes[first].box.Dim())
	for i := first; i < first+count; i++ {
		box.extend(a.nodes[i].box)
	}
	a.nodes = append(a.nodes, node{kind: Internal, box: box, first: first, count: count})
	return len(a.nodes) - 1, nil
}

func (a *arena) boxes(lo, hi int) []Aabb {
	out := make([]Aabb, hi-lo)
	for i := range out {
		out[i] = a.nodes[lo+i].box
	}
	return out
}

// Node is a read-only handle to one node of a Tree.
type Node struct {
	t *Tree
	i int
}

func (n Node) at() *node { return &n.t.nodes[n.i] }

// Kind reports whether n is a leaf or an internal node.
func (n Node) Kind() Kind { return n.at().kind }

// Box returns the node's bounding box.
func (n Node) Box() Aabb { return n.at().box }

// Payload returns the source index of a leaf's point. ok is false for
// internal nodes.
func (n Node) Payload() (payload int, ok bool) {
	nd := n.at()
	if nd.kind != Leaf {
		return 0, false
	}
	return nd.payload, true
}

// NumChildren returns the number of children; zero for leaves.
func (n Node) NumChildren() int {
	nd := n.at()
	if nd.kind != Internal {
		return 0
	}
	return nd.count
}

// Child returns the i-th child of an internal node.
func (n Node) Child(i int) Node {
	nd := n.at()
	if nd.kind != Internal || i < 0 || i >= nd.count {
		panic(fmt.Sprintf("rtree: child %d out of range for %s node with %d children", i, nd.kind, n.NumChildren()))
	}
	return Node{t: n.t, i: nd.first + i}
}
