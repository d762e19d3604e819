package rtree

import (
	"fmt"
	"math"
	"math/rand"
)

// Bounds is an inclusive range of fan-out sizes for one tree level.
type Bounds struct {
	Min int
	Max int
}

// Validate checks 1 <= Min <= Max.
func (b Bounds) Validate() error {
	if b.Min < 1 || b.Max < b.Min {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// RandomSource returns a uniform sample in [0, 1).
type RandomSource func() float64

// SeededRandom returns a reproducible RandomSource. It is not safe for
// concurrent use.
func SeededRandom(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed)).Float64
}

// Packer splits an ordered run of objects into consecutive groups.
//
// Pack returns the group sizes in order. They sum to len(boxes), and every
// group lies within bounds, except that a run shorter than bounds.Min yields a
// single short group, and a tail group that cannot be rebalanced with its
// predecessor is merged into it (the only group allowed to exceed bounds.Max).
type Packer interface {
	Pack(boxes []Aabb, bounds Bounds) ([]int, error)
}

// FixedPacker fills every group to bounds.Max.
type FixedPacker struct{}

func (FixedPacker) Pack(boxes []Aabb, bounds Bounds) ([]int, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	n := len(boxes)
	sizes := make([]int, 0, (n+bounds.Max-1)/bounds.Max)
	for remaining := n; remaining > 0; {
		size := min(remaining, bounds.Max)
		sizes = append(sizes, size)
		remaining -= size
	}
	return settleTail(sizes, bounds), nil
}

// settleTail repairs a final group smaller than bounds.Min by taking items
// from the group before it, or by merging both when there is not enough to
// share.
func settleTail(sizes []int, bounds Bounds) []int {
	k := len(sizes)
	if k < 2 || sizes[k-1] >= bounds.Min {
		return sizes
	}
	total := sizes[k-2] + sizes[k-1]
	if total-bounds.Min >= bounds.Min {
		sizes[k-2] = total - bounds.Min
		sizes[k-1] = bounds.Min
		return sizes
	}
	sizes[k-2] = total
	return sizes[:k-1]
}

// DefaultMaxGrowth is the volume growth ratio at which AdaptivePacker always
// closes a group.
const DefaultMaxGrowth = 3.0

// AdaptivePacker sizes groups by local density. Each group grows one object
// at a time. Once it holds bounds.Min objects, the next object is accepted
// with probability
//
//	(Max - size) / (Max - Min) * clamp((MaxGrowth - ratio) / (MaxGrowth - 1), 0, 1)
//
// where ratio is how much the group's padded volume grows by taking the
// object. Dense runs keep growing; the jump across a gap between clusters
// stretches the box, pushes ratio past MaxGrowth and closes the group.
//
// A group still short of bounds.Min that reaches such a gap is not forced
// across it. Its objects are folded into the previous group if that stays
// within bounds.Max, or the previous group hands over its last objects to
// bring the short group up to bounds.Min. Only when neither is possible (the
// first group, or bounds too tight to share) does the group cross the gap.
type AdaptivePacker struct {
	// Random supplies the acceptance samples. Required.
	Random RandomSource
	// MaxGrowth is the growth ratio (> 1) at which acceptance drops to zero.
	// Zero means DefaultMaxGrowth.
	MaxGrowth float64
}

func (p AdaptivePacker) Pack(boxes []Aabb, bounds Bounds) ([]int, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if p.Random == nil {
		return nil, ErrNilRandomSource
	}
	maxGrowth := p.MaxGrowth
	if maxGrowth == 0 {
		maxGrowth = DefaultMaxGrowth
	}
	if !(maxGrowth > 1) {
		return nil, fmt.Errorf("%w: max growth %v must exceed 1", ErrInvalidArgument, maxGrowth)
	}
	n := len(boxes)
	if n == 0 {
		return nil, nil
	}

	pad := volumePadding(boxes)
	var sizes []int
	for start := 0; start < n; {
		mbb := invertedAabb(boxes[start].Dim())
		mbb.extend(boxes[start])
		size := 1
		folded := false
		for start+size < n && size < bounds.Max {
			next := invertedAabb(mbb.Dim())
			next.extend(mbb)
			next.extend(boxes[start+size])
			ratio := growthRatio(mbb, next, pad)
			if size < bounds.Min {
				if ratio >= maxGrowth {
					if sizes, folded = foldShort(sizes, size, bounds); folded {
						break
					}
				}
			} else if !p.accept(size, bounds, ratio, maxGrowth) {
				break
			}
			mbb = next
			size++
		}
		if !folded {
			sizes = append(sizes, size)
		}
		start += size
	}
	return settleTail(sizes, bounds), nil
}

// foldShort hands a group of size objects, short of bounds.Min, to the group
// before it: merged whole when the result fits in bounds.Max, otherwise topped
// up to bounds.Min with the previous group's last objects. It reports false,
// leaving sizes untouched, when neither keeps both groups within bounds.
func foldShort(sizes []int, size int, bounds Bounds) ([]int, bool) {
	k := len(sizes)
	if k == 0 {
		return sizes, false
	}
	prev := sizes[k-1]
	if prev+size <= bounds.Max {
		sizes[k-1] = prev + size
		return sizes, true
	}
	if take := bounds.Min - size; prev-take >= bounds.Min {
		sizes[k-1] = prev - take
		return append(sizes, bounds.Min), true
	}
	return sizes, false
}

// accept decides whether a group holding size objects takes one more.
func (p AdaptivePacker) accept(size int, bounds Bounds, ratio, maxGrowth float64) bool {
	position := 1.0
	if bounds.Max > bounds.Min {
		position = float64(bounds.Max-size) / float64(bounds.Max-bounds.Min)
	}
	growth := math.Max(0, math.Min(1, (maxGrowth-ratio)/(maxGrowth-1)))
	return p.Random() < position*growth
}

// volumePadding returns, per axis, the typical spacing between objects: the
// extent of all boxes divided by n^(1/D). Padding keeps the volume of flat or
// single-point groups non-zero so growth ratios stay finite.
func volumePadding(boxes []Aabb) []float64 {
	all := joinAll(boxes)
	dim := all.Dim()
	spacing := math.Pow(float64(len(boxes)), 1/float64(dim))
	pad := make([]float64, dim)
	for i := range pad {
		pad[i] = (all.max[i] - all.min[i]) / spacing
		if pad[i] == 0 {
			pad[i] = 1
		}
	}
	return pad
}

// growthRatio is the factor by which the padded volume of prev grows to reach
// next. It is accumulated axis by axis so high dimensions do not overflow.
func growthRatio(prev, next Aabb, pad []float64) float64 {
	r := 1.0
	for i := range pad {
		r *= (next.max[i] - next.min[i] + pad[i]) / (prev.max[i] - prev.min[i] + pad[i])
	}
	return r
}
