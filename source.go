package rtree

// PointSource supplies the points an index is built from. It is owned by the
// caller; the index only reads from it during Build.
type PointSource interface {
	// Len returns the number of points.
	Len() int
	// Point returns the coordinates of point i. The index copies what it keeps.
	Point(i int) []float64
}

// Points adapts an in-memory slice of coordinate vectors to PointSource.
type Points [][]float64

func (p Points) Len() int              { return len(p) }
func (p Points) Point(i int) []float64 { return p[i] }

// indexView is a zero-copy reordering of a PointSource: position i of the view
// is point idx[i] of the source.
type indexView struct {
	src PointSource
	idx []int
}

func newIndexView(src PointSource) *indexView {
	idx := make([]int, src.Len())
	for i := range idx {
		idx[i] = i
	}
	return &indexView{src: src, idx: idx}
}

func (v *indexView) Len() int              { return len(v.idx) }
func (v *indexView) Point(i int) []float64 { return v.src.Point(v.idx[i]) }

// sourceDim returns the shared dimension of every point in src, or a
// DimensionMismatchError naming the first point that disagrees.
func sourceDim(src PointSource) (int, error) {
	n := src.Len()
	if n == 0 {
		return 0, nil
	}
	dim := len(src.Point(0))
	if dim == 0 {
		return 0, &DimensionMismatchError{Expected: 1, Actual: 0}
	}
	for i := 1; i < n; i++ {
		if d := len(src.Point(i)); d != dim {
			return 0, &DimensionMismatchError{Expected: dim, Actual: d}
		}
	}
	return dim, nil
}
