package rtree

// HilbertKeySorter orders points by the 16-bit Hilbert index of their first
// two coordinates, normalized to the bounding box of the input. It is cheaper
// than CurveSorter for large 2-D inputs but ignores axes beyond the second.
type HilbertKeySorter struct{}

func (HilbertKeySorter) Sort(src PointSource, perm []int) {
	n := len(perm)
	if n <= 1 {
		return
	}
	dim := len(src.Point(perm[0]))
	bounds := invertedAabb(min(dim, 2))
	for _, i := range perm {
		bounds.extend(Aabb{min: src.Point(i)[:bounds.Dim()], max: src.Point(i)[:bounds.Dim()]})
	}

	hilbertMax := float64((1 << 16) - 1)
	scale := func(v, lo, hi float64) uint32 {
		if hi <= lo {
			return 0
		}
		return uint32(hilbertMax * (v - lo) / (hi - lo))
	}

	values := make([]uint32, n)
	for k, i := range perm {
		p := src.Point(i)
		x := scale(p[0], bounds.min[0], bounds.max[0])
		var y uint32
		if dim > 1 {
			y = scale(p[1], bounds.min[1], bounds.max[1])
		}
		values[k] = hilbertXYToIndex(16, x, y)
	}
	sortValuesAndPerm(values, perm, 0, n-1)
}

// hilbertXYToIndex is the branch-free prefix-scan Hilbert index from
// https://github.com/rawrunprotected/hilbert_curves (public domain), as ported
// by flatbush-go. Only the two middle scan rounds are folded into a loop.
func hilbertXYToIndex(n uint32, x uint32, y uint32) uint32 {
	x = x << (16 - n)
	y = y << (16 - n)

	var A, B, C, D uint32

	// Initial prefix scan round, prime with x and y
	{
		a := uint32(x ^ y)
		b := uint32(0xFFFF ^ a)
		c := uint32(0xFFFF ^ (x | y))
		d := uint32(x & (y ^ 0xFFFF))

		A = a | (b >> 1)
		B = (a >> 1) ^ a

		C = ((c >> 1) ^ (b & (d >> 1))) ^ c
		D = ((a & (c >> 1)) ^ (d >> 1)) ^ d
	}

	for _, shift := range [2]uint32{2, 4} {
		a := A
		b := B
		c := C
		d := D

		A = ((a & (a >> shift)) ^ (b & (b >> shift)))
		B = ((a & (b >> shift)) ^ (b & ((a ^ b) >> shift)))

		C ^= ((a & (c >> shift)) ^ (b & (d >> shift)))
		D ^= ((b & (c >> shift)) ^ ((a ^ b) & (d >> shift)))
	}

	// Final round and projection
	{
		a := A
		b := B
		c := C
		d := D

		C ^= ((a & (c >> 8)) ^ (b & (d >> 8)))
		D ^= ((b & (c >> 8)) ^ ((a ^ b) & (d >> 8)))
	}

	// Undo transformation prefix scan
	a := uint32(C ^ (C >> 1))
	b := uint32(D ^ (D >> 1))

	// Recover index bits
	i0 := uint32(x ^ y)
	i1 := uint32(b | (0xFFFF ^ (i0 | a)))

	return ((interleave(i1) << 1) | interleave(i0)) >> (32 - 2*n)
}

// From https://github.com/rawrunprotected/hilbert_curves (public domain)
func interleave(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// sortValuesAndPerm is flatbush-go's quicksort, sorting point indices
// alongside their hilbert values
func sortValuesAndPerm(values []uint32, perm []int, left, right int) {
	if left >= right {
		return
	}

	pivot := values[(left+right)>>1]
	i := left - 1
	j := right + 1

	for {
		i++
		for values[i] < pivot {
			i++
		}
		j--
		for values[j] > pivot {
			j--
		}
		if i >= j {
			break
		}
		values[i], values[j] = values[j], values[i]
		perm[i], perm[j] = perm[j], perm[i]
	}

	sortValuesAndPerm(values, perm, left, j)
	sortValuesAndPerm(values, perm, j+1, right)
}
