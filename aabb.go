package rtree

import (
	"fmt"
	"math"
	"slices"
)

// Aabb is an axis-aligned bounding box in D dimensions.
// An Aabb is never modified after construction; every operation returns a new box.
type Aabb struct {
	min []float64
	max []float64
}

// Wrap returns the degenerate box holding exactly the given point.
func Wrap(point []float64) Aabb {
	p := slices.Clone(point)
	return Aabb{min: p, max: p}
}

// NewAabb creates a box from its corners. It fails if the corners differ in
// length or if min[i] > max[i] on any axis.
func NewAabb(min, max []float64) (Aabb, error) {
	if len(min) != len(max) {
		return Aabb{}, &DimensionMismatchError{Expected: len(min), Actual: len(max)}
	}
	for i := range min {
		if !(min[i] <= max[i]) {
			return Aabb{}, fmt.Errorf("%w: min[%d]=%v exceeds max[%d]=%v", ErrInvalidArgument, i, min[i], i, max[i])
		}
	}
	return Aabb{min: slices.Clone(min), max: slices.Clone(max)}, nil
}

// invertedAabb is the identity element for union: every real box joined with
// it yields that box.
func invertedAabb(dim int) Aabb {
	b := Aabb{min: make([]float64, dim), max: make([]float64, dim)}
	for i := 0; i < dim; i++ {
		b.min[i] = math.MaxFloat64
		b.max[i] = -math.MaxFloat64
	}
	return b
}

// Dim returns the number of dimensions.
func (a Aabb) Dim() int { return len(a.min) }

// Min returns the lower bound on axis i.
func (a Aabb) Min(i int) float64 { return a.min[i] }

// Max returns the upper bound on axis i.
func (a Aabb) Max(i int) float64 { return a.max[i] }

// Join returns the smallest box containing a and every box in others: the
// elementwise minimum of all mins and maximum of all maxes.
func (a Aabb) Join(others ...Aabb) (Aabb, error) {
	for _, o := range others {
		if o.Dim() != a.Dim() {
			return Aabb{}, &DimensionMismatchError{Expected: a.Dim(), Actual: o.Dim()}
		}
	}
	out := Aabb{min: slices.Clone(a.min), max: slices.Clone(a.max)}
	for _, o := range others {
		out.extend(o)
	}
	return out, nil
}

// extend grows a in place. Only used on boxes still under construction.
func (a *Aabb) extend(o Aabb) {
	for i := range a.min {
		a.min[i] = math.Min(a.min[i], o.min[i])
		a.max[i] = math.Max(a.max[i], o.max[i])
	}
}

// joinAll is the unchecked union used by the build pipeline, where every box
// is known to share one dimension.
func joinAll(boxes []Aabb) Aabb {
	out := invertedAabb(boxes[0].Dim())
	for _, b := range boxes {
		out.extend(b)
	}
	return out
}

// IsDegenerate reports whether the box is a single point.
func (a Aabb) IsDegenerate() bool {
	return slices.Equal(a.min, a.max)
}

// Contains reports whether b lies inside a on every axis.
func (a Aabb) Contains(b Aabb) bool {
	if a.Dim() != b.Dim() {
		return false
	}
	for i := range a.min {
		if b.min[i] < a.min[i] || b.max[i] > a.max[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both boxes have identical bounds.
func (a Aabb) Equal(b Aabb) bool {
	return slices.Equal(a.min, b.min) && slices.Equal(a.max, b.max)
}

// Volume returns the product of the box extents.
func (a Aabb) Volume() float64 {
	v := 1.0
	for i := range a.min {
		v *= a.max[i] - a.min[i]
	}
	return v
}

// Center returns the midpoint of the box on axis i.
func (a Aabb) Center(i int) float64 {
	return a.min[i] + (a.max[i]-a.min[i])/2
}

func (a Aabb) String() string {
	return fmt.Sprintf("Aabb{min: %v, max: %v}", a.min, a.max)
}
