package rtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func gridPoints(side int) Points {
	pts := make(Points, 0, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			pts = append(pts, []float64{float64(x), float64(y)})
		}
	}
	return pts
}

func sortedPerm(s Sorter, src PointSource) []int {
	perm := newIndexView(src).idx
	s.Sort(src, perm)
	return perm
}

func requirePermutation(t *testing.T, perm []int) {
	t.Helper()
	require.NoError(t, checkPermutation(perm))
}

func TestCurveTablesValid(t *testing.T) {
	require.NoError(t, ZOrder().Validate())
	require.NoError(t, Hilbert().Validate())

	bad := ZOrder()
	bad.Tables[0].Rank = [numQuadrants]uint8{0, 1, 1, 3}
	require.ErrorIs(t, bad.Validate(), ErrInvalidArgument)

	bad = Hilbert()
	bad.Tables[2].Next[1] = 7
	require.ErrorIs(t, bad.Validate(), ErrInvalidArgument)

	require.ErrorIs(t, Curve{Name: "none"}.Validate(), ErrInvalidArgument)
}

func TestHilbertConsecutiveCellsAreAdjacent(t *testing.T) {
	for _, side := range []int{4, 8, 16} {
		pts := gridPoints(side)
		perm := sortedPerm(CurveSorter{Curve: Hilbert()}, pts)
		requirePermutation(t, perm)
		for i := 1; i < len(perm); i++ {
			require.Equal(t, 1.0, Manhattan(pts[perm[i-1]], pts[perm[i]]), "side %d step %d", side, i)
		}
	}
}

func TestZOrderSmallGrid(t *testing.T) {
	pts := gridPoints(3)
	perm := sortedPerm(CurveSorter{Curve: ZOrder()}, pts)
	requirePermutation(t, perm)

	want := [][]float64{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {2, 0}, {1, 1}, {1, 2}, {2, 1}, {2, 2}}
	for i, p := range want {
		require.Equal(t, p, pts[perm[i]], "position %d", i)
	}

	near := 0
	for i := 1; i < len(perm); i++ {
		if Chebyshev(pts[perm[i-1]], pts[perm[i]]) <= 1 {
			near++
		}
	}
	require.GreaterOrEqual(t, near, 6)
}

func TestCurveSortPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	for _, curve := range []Curve{ZOrder(), Hilbert()} {
		for _, n := range []int{0, 1, 2, 3, 17, 1000} {
			pts := make(Points, n)
			for i := range pts {
				pts[i] = []float64{rng.Float64(), rng.Float64()}
			}
			perm := sortedPerm(CurveSorter{Curve: curve}, pts)
			require.Len(t, perm, n)
			requirePermutation(t, perm)
		}
	}
}

func TestCurveSortDuplicates(t *testing.T) {
	pts := make(Points, 0, 100)
	for i := 0; i < 50; i++ {
		pts = append(pts, []float64{1, 1}, []float64{2, 2})
	}
	perm := sortedPerm(CurveSorter{Curve: Hilbert()}, pts)
	requirePermutation(t, perm)
	for i, p := range perm {
		want := 1.0
		if i >= 50 {
			want = 2.0
		}
		require.Equal(t, want, pts[p][0])
	}

	same := make(Points, 64)
	for i := range same {
		same[i] = []float64{3, 3, 3}
	}
	requirePermutation(t, sortedPerm(CurveSorter{Curve: ZOrder(), MaxDepth: 5}, same))
}

func TestCurveSortOneDimension(t *testing.T) {
	pts := make(Points, 10)
	for i := range pts {
		pts[i] = []float64{float64(len(pts) - i)}
	}
	perm := sortedPerm(CurveSorter{Curve: Hilbert()}, pts)
	require.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, perm)
}

func TestCurveSortThreeDimensions(t *testing.T) {
	var pts Points
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				pts = append(pts, []float64{float64(x), float64(y), float64(z)})
			}
		}
	}
	perm := sortedPerm(CurveSorter{Curve: Hilbert()}, pts)
	requirePermutation(t, perm)

	// Runs of eight along the curve stay compact: their box spans at most
	// four grid steps summed over the axes.
	for i := 0; i < len(perm); i += 8 {
		box := invertedAabb(3)
		for _, p := range perm[i : i+8] {
			box.extend(Wrap(pts[p]))
		}
		span := 0.0
		for a := 0; a < 3; a++ {
			span += box.Max(a) - box.Min(a)
		}
		require.LessOrEqual(t, span, 4.0)
	}
}

func TestHilbertKeySorterAdjacency(t *testing.T) {
	for _, side := range []int{4, 8} {
		pts := gridPoints(side)
		perm := sortedPerm(HilbertKeySorter{}, pts)
		requirePermutation(t, perm)
		for i := 1; i < len(perm); i++ {
			require.Equal(t, 1.0, Manhattan(pts[perm[i-1]], pts[perm[i]]), "side %d step %d", side, i)
		}
	}
}

func TestHilbertIndexUnique(t *testing.T) {
	seen := map[uint32]bool{}
	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			h := hilbertXYToIndex(4, x, y)
			require.Less(t, h, uint32(256))
			require.False(t, seen[h])
			seen[h] = true
		}
	}
}

func TestInputOrder(t *testing.T) {
	pts := gridPoints(3)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, sortedPerm(InputOrder, pts))
}

func TestSorterFuncReverse(t *testing.T) {
	reverse := SorterFunc(func(_ PointSource, perm []int) {
		for i, j := 0, len(perm)-1; i < j; i, j = i+1, j-1 {
			perm[i], perm[j] = perm[j], perm[i]
		}
	})
	require.Equal(t, []int{2, 1, 0}, sortedPerm(reverse, Points{{0}, {1}, {2}}))
}
