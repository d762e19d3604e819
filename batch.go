package rtree

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// QueryKNNBatch runs QueryKNNContext for every query in parallel. Result i
// belongs to queries[i]. The first failing query cancels the rest.
func (t *Tree) QueryKNNBatch(ctx context.Context, queries [][]float64, k int) ([][]Neighbor, error) {
	out := make([][]Neighbor, len(queries))
	err := t.runBatch(ctx, len(queries), func(ctx context.Context, i int) error {
		res, err := t.QueryKNNContext(ctx, queries[i], k)
		out[i] = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryRangeBatch runs QueryRangeContext for every query in parallel with a
// shared radius.
func (t *Tree) QueryRangeBatch(ctx context.Context, queries [][]float64, r float64) ([][]int, error) {
	out := make([][]int, len(queries))
	err := t.runBatch(ctx, len(queries), func(ctx context.Context, i int) error {
		res, err := t.QueryRangeContext(ctx, queries[i], r)
		out[i] = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runBatch needs no locking: the tree is read-only and each query owns its
// own stack, queue and result slot.
func (t *Tree) runBatch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(ctx, i)
		})
	}
	return g.Wait()
}
