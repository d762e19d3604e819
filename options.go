package rtree

// DefaultBounds is the fan-out used for both leaf and internal levels unless
// overridden.
var DefaultBounds = Bounds{Min: 4, Max: 16}

type options struct {
	leafBounds Bounds
	nodeBounds Bounds
	sorter     Sorter
	packer     Packer
	pointDist  PointDistance
	boxDist    BoxDistance
	logger     *Logger
	metrics    MetricsCollector
	err        error
}

func defaultOptions() options {
	return options{
		leafBounds: DefaultBounds,
		nodeBounds: DefaultBounds,
		sorter:     CurveSorter{Curve: Hilbert()},
		packer:     FixedPacker{},
		pointDist:  Euclidean,
		boxDist:    EuclideanBox,
		logger:     NoopLogger(),
		metrics:    NoopMetricsCollector{},
	}
}

// Option configures Build.
type Option func(*options)

// WithLeafBounds sets how many points each bottom-level group may hold.
func WithLeafBounds(minItems, maxItems int) Option {
	return func(o *options) {
		o.leafBounds = Bounds{Min: minItems, Max: maxItems}
	}
}

// WithNodeBounds sets how many children each higher-level node may hold.
// maxItems must be at least 2 so that every level shrinks.
func WithNodeBounds(minItems, maxItems int) Option {
	return func(o *options) {
		o.nodeBounds = Bounds{Min: minItems, Max: maxItems}
	}
}

// WithSorter sets the locality-preserving order applied to the input points.
// Passing nil restores the default Hilbert CurveSorter.
func WithSorter(s Sorter) Option {
	return func(o *options) {
		if s == nil {
			s = CurveSorter{Curve: Hilbert()}
		}
		o.sorter = s
	}
}

// WithPacker sets the grouping strategy used at every level.
// Passing nil restores FixedPacker.
func WithPacker(p Packer) Option {
	return func(o *options) {
		if p == nil {
			p = FixedPacker{}
		}
		o.packer = p
	}
}

// WithAdaptivePacking selects AdaptivePacker driven by random.
func WithAdaptivePacking(random RandomSource) Option {
	return func(o *options) {
		o.packer = AdaptivePacker{Random: random}
	}
}

// WithMetric selects a built-in pair of distance functions.
func WithMetric(m Metric) Option {
	return func(o *options) {
		pd, bd, err := Provider(m)
		if err != nil {
			o.err = err
			return
		}
		o.pointDist, o.boxDist = pd, bd
	}
}

// WithDistance installs custom distance functions. box must never exceed the
// true distance from a query to any point inside the box, or queries will
// miss results.
func WithDistance(point PointDistance, box BoxDistance) Option {
	return func(o *options) {
		if point == nil || box == nil {
			o.err = ErrInvalidArgument
			return
		}
		o.pointDist, o.boxDist = point, box
	}
}

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a collector for build and query timings.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
