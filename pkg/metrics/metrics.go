package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Render pipeline metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	DraftRenders   prometheus.Counter
	Validations    *prometheus.CounterVec

	// Resolver metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	ResolveLatency prometheus.Histogram
	Invalidations  prometheus.Counter
	PartialDepth   prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		RendersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "renders_total",
			Help:      "Total number of render calls",
		}, []string{"category", "status"}),
		RenderDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a notification",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"category"}),
		DraftRenders: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "draft_renders_total",
			Help:      "Total number of draft preview renders",
		}),
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "validations_total",
			Help:      "Total number of template validations",
		}, []string{"result"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolver_cache_hits_total",
			Help:      "Resolved template cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolver_cache_misses_total",
			Help:      "Resolved template cache misses",
		}),
		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolver_fetch_duration_seconds",
			Help:      "Duration of store fetches on cache miss",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		Invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolver_invalidations_total",
			Help:      "Explicit cache evictions from template change events",
		}),
		PartialDepth: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolver_partial_depth",
			Help:      "Depth of recursive partial resolution per render",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}
}
