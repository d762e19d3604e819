// Package promcollector exports rtree build and query timings to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	rtree "github.com/bmharper/rtree-go"
)

// Collector implements rtree.MetricsCollector.
type Collector struct {
	latency *prometheus.HistogramVec
	results *prometheus.CounterVec
	points  prometheus.Counter
	levels  prometheus.Gauge
}

var _ rtree.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rtree_operation_latency_seconds",
			Help:      "Latency of rtree builds and queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtree_query_results_total",
			Help:      "Payloads returned by rtree queries",
		}, []string{"op"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtree_build_points_total",
			Help:      "Points indexed by successful builds",
		}),
		levels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rtree_levels",
			Help:      "Height of the most recently built tree",
		}),
	}
	for _, col := range []prometheus.Collector{c.latency, c.results, c.points, c.levels} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBuild implements rtree.MetricsCollector.
func (c *Collector) RecordBuild(points, levels int, d time.Duration, err error) {
	c.latency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	if err == nil {
		c.points.Add(float64(points))
		c.levels.Set(float64(levels))
	}
}

// RecordSearch implements rtree.MetricsCollector.
func (c *Collector) RecordSearch(kind rtree.SearchKind, results int, d time.Duration, err error) {
	c.latency.WithLabelValues(string(kind), status(err)).Observe(d.Seconds())
	c.results.WithLabelValues(string(kind)).Add(float64(results))
}
