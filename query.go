package rtree

import (
	"context"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/tidwall/tinyqueue"
)

// Neighbor is one nearest-neighbor result.
type Neighbor struct {
	Payload  int
	Distance float64
}

func (t *Tree) checkQuery(q []float64) error {
	if t.root >= 0 && len(q) != t.dim {
		return &DimensionMismatchError{Expected: t.dim, Actual: len(q)}
	}
	return nil
}

// QueryRange returns the payloads of every point within distance r of q, in
// no particular order.
func (t *Tree) QueryRange(q []float64, r float64) ([]int, error) {
	return t.QueryRangeContext(context.Background(), q, r)
}

// QueryRangeContext is QueryRange with cancellation, checked before each node
// is expanded.
func (t *Tree) QueryRangeContext(ctx context.Context, q []float64, r float64) ([]int, error) {
	start := time.Now()
	var results []int
	err := t.searchRange(ctx, q, r, func(payload int) {
		results = append(results, payload)
	})
	t.metrics.RecordSearch(SearchRange, len(results), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// QueryRangeSet is QueryRange collecting payloads into a bitmap. Payloads must
// fit in uint32, which holds for any tree of fewer than 2^32 points.
func (t *Tree) QueryRangeSet(q []float64, r float64) (*roaring.Bitmap, error) {
	start := time.Now()
	bm := roaring.New()
	err := t.searchRange(context.Background(), q, r, func(payload int) {
		bm.Add(uint32(payload))
	})
	t.metrics.RecordSearch(SearchRange, int(bm.GetCardinality()), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// searchRange is a depth-first traversal with an explicit stack. Children
// whose box lies farther than r are never visited.
func (t *Tree) searchRange(ctx context.Context, q []float64, r float64, emit func(payload int)) error {
	if r < 0 || math.IsNaN(r) {
		return ErrNegativeRadius
	}
	if err := t.checkQuery(q); err != nil {
		return err
	}
	if t.root < 0 {
		return nil
	}

	stack := make([]int, 0, 32)
	stack = append(stack, t.root)
	for len(stack) != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &t.nodes[i]
		switch nd.kind {
		case Leaf:
			if t.pointDist(q, nd.box.min) <= r {
				emit(nd.payload)
			}
		case Internal:
			for c := nd.first; c < nd.first+nd.count; c++ {
				if t.boxDist(q, t.nodes[c].box) <= r {
					stack = append(stack, c)
				}
			}
		default:
			invariantPanic("node %d has unknown kind %v", i, nd.kind)
		}
	}
	return nil
}

// candidate is a pending subtree, ordered by the lower bound of its distance.
type candidate struct {
	node  int
	bound float64
}

func (c *candidate) Less(b tinyqueue.Item) bool {
	return c.bound < b.(*candidate).bound
}

// kept is an accepted result. The kept heap is a max-heap so that the worst
// of the current k results is at the top, ready to be evicted.
type kept struct {
	Neighbor
}

func (k *kept) Less(b tinyqueue.Item) bool {
	o := b.(*kept)
	if k.Distance != o.Distance {
		return k.Distance > o.Distance
	}
	return k.Payload > o.Payload
}

// QueryKNN returns the payloads of the k points nearest to q, nearest first.
// Fewer than k payloads are returned only when the tree holds fewer points.
func (t *Tree) QueryKNN(q []float64, k int) ([]int, error) {
	neighbors, err := t.QueryKNNContext(context.Background(), q, k)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(neighbors))
	for i, n := range neighbors {
		out[i] = n.Payload
	}
	return out, nil
}

// QueryKNNNeighbors is QueryKNN returning exact distances alongside the
// payloads. Equal distances are ordered by payload.
func (t *Tree) QueryKNNNeighbors(q []float64, k int) ([]Neighbor, error) {
	return t.QueryKNNContext(context.Background(), q, k)
}

// QueryKNNContext is QueryKNNNeighbors with cancellation, checked before each
// queue entry is expanded.
func (t *Tree) QueryKNNContext(ctx context.Context, q []float64, k int) ([]Neighbor, error) {
	start := time.Now()
	res, err := t.searchKNN(ctx, q, k)
	t.metrics.RecordSearch(SearchKNN, len(res), time.Since(start), err)
	return res, err
}

// searchKNN is a best-first branch-and-bound search. Subtrees come off the
// queue in order of their distance lower bound, so once k results are held
// and the next bound exceeds the worst of them, nothing left can improve the
// answer.
func (t *Tree) searchKNN(ctx context.Context, q []float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if err := t.checkQuery(q); err != nil {
		return nil, err
	}
	if t.root < 0 {
		return nil, nil
	}

	queue := tinyqueue.New(nil)
	best := tinyqueue.New(nil)
	queue.Push(&candidate{node: t.root, bound: 0})

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := queue.Pop().(*candidate)
		if best.Len() == k && c.bound > best.Peek().(*kept).Distance {
			break
		}

		nd := &t.nodes[c.node]
		switch nd.kind {
		case Leaf:
			offer(best, k, &kept{Neighbor{Payload: nd.payload, Distance: t.pointDist(q, nd.box.min)}})
		case Internal:
			for i := nd.first; i < nd.first+nd.count; i++ {
				queue.Push(&candidate{node: i, bound: t.boxDist(q, t.nodes[i].box)})
			}
		default:
			invariantPanic("node %d has unknown kind %v", c.node, nd.kind)
		}
	}

	out := make([]Neighbor, best.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = best.Pop().(*kept).Neighbor
	}
	return out, nil
}

// offer adds cand to best, evicting the current worst when best already
// holds k results and cand is closer.
func offer(best *tinyqueue.Queue, k int, cand *kept) {
	if best.Len() < k {
		best.Push(cand)
		return
	}
	if worst := best.Peek().(*kept); cand.Less(worst) {
		return
	}
	best.Pop()
	best.Push(cand)
}
