package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	catalogOperations  *prometheus.CounterVec
	databaseOperations *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheDegraded      *prometheus.CounterVec
	rateLimitTotal     *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	memoryUsage        prometheus.Gauge
	goroutines         prometheus.Gauge
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		catalogOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_operations_total",
				Help: "Total number of catalog operations by entity and result",
			},
			[]string{"entity", "operation", "result"},
		),
		databaseOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_operations_total",
				Help: "Total number of database operations",
			},
			[]string{"entity", "operation", "result"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"entity"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"entity"},
		),
		cacheDegraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_degraded_total",
				Help: "Total number of operations served without the cache backend",
			},
			[]string{"entity"},
		),
		rateLimitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_requests_total",
				Help: "Total number of rate limited request decisions",
			},
			[]string{"path", "key_type", "result"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of HTTP requests currently in flight",
			},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goroutines_count",
				Help: "Number of running goroutines",
			},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.catalogOperations,
		metrics.databaseOperations,
		metrics.cacheHits,
		metrics.cacheMisses,
		metrics.cacheDegraded,
		metrics.rateLimitTotal,
		metrics.activeConnections,
		metrics.memoryUsage,
		metrics.goroutines,
	)

	return metrics
}

func (m *AppMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) RecordCatalogOperation(entity, operation string, err error) {
	m.catalogOperations.WithLabelValues(entity, operation, resultLabel(err)).Inc()
}

func (m *AppMetrics) RecordDatabaseOperation(entity, operation string, err error) {
	m.databaseOperations.WithLabelValues(entity, operation, resultLabel(err)).Inc()
}

func (m *AppMetrics) RecordCacheHit(entity string) {
	m.cacheHits.WithLabelValues(entity).Inc()
}

func (m *AppMetrics) RecordCacheMiss(entity string) {
	m.cacheMisses.WithLabelValues(entity).Inc()
}

func (m *AppMetrics) RecordCacheDegraded(entity string) {
	m.cacheDegraded.WithLabelValues(entity).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(path, keyType string) {
	m.rateLimitTotal.WithLabelValues(path, keyType, "blocked").Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(path, keyType string) {
	m.rateLimitTotal.WithLabelValues(path, keyType, "allowed").Inc()
}

func (m *AppMetrics) IncrementActiveConnections() {
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections() {
	m.activeConnections.Dec()
}

// StartSystemMetrics samples process-level gauges until ctx is cancelled.
func (m *AppMetrics) StartSystemMetrics(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)

				m.memoryUsage.Set(float64(memStats.Alloc))
				m.goroutines.Set(float64(runtime.NumGoroutine()))
			}
		}
	}()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}
