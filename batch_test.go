package rtree

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchMatchesSingleQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	pts := randomPoints(rng, 2000, 2, 100)
	tree, err := Build(pts)
	require.NoError(t, err)

	queries := randomPoints(rng, 64, 2, 100)

	knn, err := tree.QueryKNNBatch(context.Background(), queries, 7)
	require.NoError(t, err)
	require.Len(t, knn, len(queries))
	for i, q := range queries {
		want, err := tree.QueryKNNNeighbors(q, 7)
		require.NoError(t, err)
		require.Equal(t, want, knn[i])
	}

	ranges, err := tree.QueryRangeBatch(context.Background(), queries, 4)
	require.NoError(t, err)
	require.Len(t, ranges, len(queries))
	for i, q := range queries {
		want, err := tree.QueryRange(q, 4)
		require.NoError(t, err)
		require.ElementsMatch(t, want, ranges[i])
	}
}

func TestBatchErrors(t *testing.T) {
	tree, err := Build(gridPoints(10))
	require.NoError(t, err)

	queries := [][]float64{{1, 1}, {2, 2, 2}, {3, 3}}
	_, err = tree.QueryKNNBatch(context.Background(), queries, 2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = tree.QueryRangeBatch(context.Background(), queries[:1], -2)
	require.ErrorIs(t, err, ErrNegativeRadius)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tree.QueryKNNBatch(ctx, [][]float64{{1, 1}}, 2)
	require.ErrorIs(t, err, context.Canceled)

	res, err := tree.QueryKNNBatch(context.Background(), nil, 2)
	require.NoError(t, err)
	require.Empty(t, res)
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	pts := randomPoints(rng, 100000, 2, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(pts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildAdaptive(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	pts := randomPoints(rng, 100000, 2, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(pts, WithAdaptivePacking(SeededRandom(int64(i)))); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQueryKNN(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	pts := randomPoints(rng, 100000, 2, 1000)
	tree, err := Build(pts)
	if err != nil {
		b.Fatal(err)
	}
	queries := randomPoints(rng, 1024, 2, 1000)
	b.ResetTimer()
	nresults := 0
	for i := 0; i < b.N; i++ {
		res, _ := tree.QueryKNN(queries[i%len(queries)], 10)
		nresults += len(res)
	}
	b.ReportMetric(float64(nresults)/float64(b.N), "results/op")
}

func BenchmarkQueryRange(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	pts := randomPoints(rng, 100000, 2, 1000)
	tree, err := Build(pts)
	if err != nil {
		b.Fatal(err)
	}
	queries := randomPoints(rng, 1024, 2, 1000)
	b.ResetTimer()
	nresults := 0
	for i := 0; i < b.N; i++ {
		res, _ := tree.QueryRange(queries[i%len(queries)], 5)
		nresults += len(res)
	}
	b.ReportMetric(float64(nresults)/float64(b.N), "results/op")
}
