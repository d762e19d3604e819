package rtree

// Sorter computes a locality-preserving order of points. Sort permutes perm,
// which holds indices into src, so that points close in space end up close in
// perm. Sorters must not keep state between calls.
type Sorter interface {
	Sort(src PointSource, perm []int)
}

// SorterFunc adapts an ordinary function to Sorter.
type SorterFunc func(src PointSource, perm []int)

func (f SorterFunc) Sort(src PointSource, perm []int) { f(src, perm) }

// InputOrder keeps points in the order the source yields them.
var InputOrder Sorter = SorterFunc(func(PointSource, []int) {})

// CurveSorter orders points along a space-filling curve by recursive
// quadrant partitioning. Each level splits two axes at the midpoint of the
// current cell; in more than two dimensions the axis pair rotates with depth.
type CurveSorter struct {
	Curve Curve
	// MaxDepth caps the recursion, which is what stops it on duplicate
	// points. Zero means 32 levels per dimension.
	MaxDepth int
}

func (s CurveSorter) Sort(src PointSource, perm []int) {
	n := len(perm)
	if n <= 1 {
		return
	}
	dim := len(src.Point(perm[0]))
	cell := invertedAabb(dim)
	for _, i := range perm {
		p := src.Point(i)
		for j := 0; j < dim; j++ {
			cell.min[j] = min(cell.min[j], p[j])
			cell.max[j] = max(cell.max[j], p[j])
		}
	}

	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 32 * dim
	}
	cs := &curveSort{
		src:      src,
		perm:     perm,
		scratch:  make([]int, n),
		tables:   s.Curve.Tables,
		dim:      dim,
		maxDepth: maxDepth,
		lo:       cell.min,
		hi:       cell.max,
	}
	cs.sort(0, n, s.Curve.Start, 0)
}

// curveSort is the state of one Sort call. The scratch buffer spans the whole
// input and is shared by every recursion level.
type curveSort struct {
	src      PointSource
	perm     []int
	scratch  []int
	tables   []CurveTable
	dim      int
	maxDepth int

	// lo and hi are the current cell, narrowed on the way down and restored
	// on the way back up.
	lo, hi []float64
}

func (cs *curveSort) axes(depth int) (int, int) {
	if cs.dim == 1 {
		return 0, -1
	}
	a := (2 * depth) % cs.dim
	return a, (a + 1) % cs.dim
}

func (cs *curveSort) sort(start, end, table, depth int) {
	if end-start <= 1 || depth >= cs.maxDepth {
		return
	}
	t := &cs.tables[table]
	a, b := cs.axes(depth)
	midA := cs.lo[a] + (cs.hi[a]-cs.lo[a])/2
	midB := 0.0
	if b >= 0 {
		midB = cs.lo[b] + (cs.hi[b]-cs.lo[b])/2
	}

	sizes := cs.partition(start, end, t, a, b, midA, midB)
	if sizes[0]+sizes[1]+sizes[2]+sizes[3] != end-start {
		invariantPanic("curve partition sizes %v do not sum to %d", sizes, end-start)
	}

	loA, hiA := cs.lo[a], cs.hi[a]
	var loB, hiB float64
	if b >= 0 {
		loB, hiB = cs.lo[b], cs.hi[b]
	}
	pos := start
	for r := 0; r < numQuadrants; r++ {
		q := t.quadrantAt(r)
		if sizes[r] > 1 {
			if q&2 == 0 {
				cs.hi[a] = midA
			} else {
				cs.lo[a] = midA
			}
			if b >= 0 {
				if q&1 == 0 {
					cs.hi[b] = midB
				} else {
					cs.lo[b] = midB
				}
			}
			cs.sort(pos, pos+sizes[r], t.Next[q], depth+1)
			cs.lo[a], cs.hi[a] = loA, hiA
			if b >= 0 {
				cs.lo[b], cs.hi[b] = loB, hiB
			}
		}
		pos += sizes[r]
	}
}

func (cs *curveSort) rank(t *CurveTable, i, a, b int, midA, midB float64) int {
	p := cs.src.Point(i)
	q := 0
	if p[a] >= midA {
		q |= 2
	}
	if b >= 0 && p[b] >= midB {
		q |= 1
	}
	return int(t.Rank[q])
}

// partition regroups perm[start:end] by visiting rank and returns the size of
// each rank's run. Ranks 0 and 3 move by direct placement within perm; ranks 1
// and 2 are staged at the two ends of the matching scratch window and copied
// back into the gap between them.
func (cs *curveSort) partition(start, end int, t *CurveTable, a, b int, midA, midB float64) [numQuadrants]int {
	perm, scratch := cs.perm, cs.scratch
	front := start // next slot for rank 0
	back := end    // rank 3 occupies [back, end)
	n1, n2 := 0, 0

	// Every slot in [front, i) has been staged to scratch and is free.
	for i := start; i < back; {
		switch cs.rank(t, perm[i], a, b, midA, midB) {
		case 0:
			perm[front] = perm[i]
			front++
			i++
		case 1:
			scratch[start+n1] = perm[i]
			n1++
			i++
		case 2:
			scratch[end-1-n2] = perm[i]
			n2++
			i++
		default:
			back--
			perm[i], perm[back] = perm[back], perm[i]
		}
	}

	copy(perm[front:front+n1], scratch[start:start+n1])
	for k := 0; k < n2; k++ {
		perm[front+n1+k] = scratch[end-1-k]
	}
	return [numQuadrants]int{front - start, n1, n2, end - back}
}
