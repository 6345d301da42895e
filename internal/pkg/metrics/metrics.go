package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "garagehub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "garagehub",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Search metrics
	GaragesRanked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "search",
		Name:      "garages_ranked_total",
		Help:      "Total garages returned by distance ranking",
	}, []string{"mode"})

	SearchResultSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "garagehub",
		Subsystem: "search",
		Name:      "result_size",
		Help:      "Number of garages per search response",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	}, []string{"mode"})

	SearchCandidatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "search",
		Name:      "candidates_dropped_total",
		Help:      "Candidates excluded from radius search for lacking coordinates or lying outside the radius",
	})

	RoutePlans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "routing",
		Name:      "plans_total",
		Help:      "Route overlays served, by distance source",
	}, []string{"source"})

	RoutePlannerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "garagehub",
		Subsystem: "routing",
		Name:      "planner_duration_seconds",
		Help:      "Latency of the external routing service",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	CatalogUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "catalog",
		Name:      "updates_received_total",
		Help:      "Catalog-updated events applied to the cache namespace",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garagehub",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "garagehub",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "garagehub",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "garagehub",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the pool gauges read.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pool stats into the db gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
