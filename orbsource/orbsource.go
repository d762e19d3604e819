// Package orbsource connects paulmach/orb geometry to the rtree index.
package orbsource

import (
	"github.com/paulmach/orb"

	rtree "github.com/bmharper/rtree-go"
)

// MultiPoint adapts an orb.MultiPoint to rtree.PointSource. Leaf payloads are
// indices into the MultiPoint.
type MultiPoint orb.MultiPoint

func (mp MultiPoint) Len() int { return len(mp) }

func (mp MultiPoint) Point(i int) []float64 { return mp[i][:] }

// Build indexes the points of mp.
func Build(mp orb.MultiPoint, opts ...rtree.Option) (*rtree.Tree, error) {
	return rtree.Build(MultiPoint(mp), opts...)
}

// ToAabb converts a bound to a 2-D box.
func ToAabb(b orb.Bound) (rtree.Aabb, error) {
	return rtree.NewAabb(b.Min[:], b.Max[:])
}

// ToBound converts the first two axes of a box to an orb.Bound.
// It panics if box has fewer than two dimensions.
func ToBound(box rtree.Aabb) orb.Bound {
	return orb.Bound{
		Min: orb.Point{box.Min(0), box.Min(1)},
		Max: orb.Point{box.Max(0), box.Max(1)},
	}
}

// Nearest returns the k points of mp nearest to p, nearest first.
func Nearest(t *rtree.Tree, mp orb.MultiPoint, p orb.Point, k int) (orb.MultiPoint, error) {
	idx, err := t.QueryKNN(p[:], k)
	if err != nil {
		return nil, err
	}
	out := make(orb.MultiPoint, len(idx))
	for i, j := range idx {
		out[i] = mp[j]
	}
	return out, nil
}

// Within returns the points of mp within distance r of p, in no particular
// order.
func Within(t *rtree.Tree, mp orb.MultiPoint, p orb.Point, r float64) (orb.MultiPoint, error) {
	idx, err := t.QueryRange(p[:], r)
	if err != nil {
		return nil, err
	}
	out := make(orb.MultiPoint, len(idx))
	for i, j := range idx {
		out[i] = mp[j]
	}
	return out, nil
}
