package rtree

import (
	"sync/atomic"
	"time"
)

// SearchKind names the query that produced a RecordSearch call.
type SearchKind string

const (
	SearchRange SearchKind = "range"
	SearchKNN   SearchKind = "knn"
)

// MetricsCollector receives timings for builds and queries. Implementations
// must be safe for concurrent use, since queries may run in parallel.
type MetricsCollector interface {
	// RecordBuild is called once per Build with the number of input points
	// and the height of the resulting tree.
	RecordBuild(points, levels int, duration time.Duration, err error)

	// RecordSearch is called after each query with the number of payloads
	// returned.
	RecordSearch(kind SearchKind, results int, duration time.Duration, err error)
}

// NoopMetricsCollector discards everything.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordSearch(SearchKind, int, time.Duration, error) {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	RangeCount       atomic.Int64
	KNNCount         atomic.Int64
	SearchErrors     atomic.Int64
	SearchResults    atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_, _ int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(kind SearchKind, results int, duration time.Duration, err error) {
	switch kind {
	case SearchRange:
		b.RangeCount.Add(1)
	case SearchKNN:
		b.KNNCount.Add(1)
	}
	b.SearchResults.Add(int64(results))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}
