package rtree

import (
	"fmt"
	"math"
)

// PointDistance is the exact distance between two points of equal dimension.
type PointDistance func(a, b []float64) float64

// BoxDistance is a lower bound on the distance from p to any point inside box.
// Queries prune on this value, so it must never overestimate.
type BoxDistance func(p []float64, box Aabb) float64

// Metric names a built-in distance function pair.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricSquaredEuclidean
	MetricManhattan
	MetricChebyshev
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "euclidean"
	case MetricSquaredEuclidean:
		return "squared-euclidean"
	case MetricManhattan:
		return "manhattan"
	case MetricChebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMetric converts a name produced by Metric.String back to a Metric.
func ParseMetric(name string) (Metric, error) {
	for m := MetricEuclidean; m <= MetricChebyshev; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidArgument, name)
}

// Provider returns the point and box distance functions for m.
func Provider(m Metric) (PointDistance, BoxDistance, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, EuclideanBox, nil
	case MetricSquaredEuclidean:
		return SquaredEuclidean, SquaredEuclideanBox, nil
	case MetricManhattan:
		return Manhattan, ManhattanBox, nil
	case MetricChebyshev:
		return Chebyshev, ChebyshevBox, nil
	default:
		return nil, nil, fmt.Errorf("%w: unsupported metric %v", ErrInvalidArgument, m)
	}
}

// SquaredEuclidean returns the squared L2 distance.
// Assumes a and b have the same length.
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean returns the L2 distance.
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// Manhattan returns the L1 distance.
func Manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Chebyshev returns the L-infinity distance.
func Chebyshev(a, b []float64) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

// axisGap is how far k lies outside [lo, hi], or zero if inside.
func axisGap(k, lo, hi float64) float64 {
	if k < lo {
		return lo - k
	}
	if k <= hi {
		return 0
	}
	return k - hi
}

// SquaredEuclideanBox returns the squared L2 distance from p to the nearest
// point of box. It is exact, and therefore an admissible bound.
func SquaredEuclideanBox(p []float64, box Aabb) float64 {
	var sum float64
	for i := range p {
		d := axisGap(p[i], box.min[i], box.max[i])
		sum += d * d
	}
	return sum
}

// EuclideanBox is the L2 counterpart of SquaredEuclideanBox.
func EuclideanBox(p []float64, box Aabb) float64 {
	return math.Sqrt(SquaredEuclideanBox(p, box))
}

// ManhattanBox returns the L1 distance from p to the nearest point of box.
func ManhattanBox(p []float64, box Aabb) float64 {
	var sum float64
	for i := range p {
		sum += axisGap(p[i], box.min[i], box.max[i])
	}
	return sum
}

// ChebyshevBox returns the L-infinity distance from p to the nearest point of box.
func ChebyshevBox(p []float64, box Aabb) float64 {
	var m float64
	for i := range p {
		m = math.Max(m, axisGap(p[i], box.min[i], box.max[i]))
	}
	return m
}
