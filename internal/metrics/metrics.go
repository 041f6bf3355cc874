package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Provider Metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration prometheus.Histogram

	// Cache Metrics
	CacheLookupsTotal *prometheus.CounterVec
	CacheErrorsTotal  *prometheus.CounterVec

	// Application Metrics
	LookupsTotal  *prometheus.CounterVec
	LookupsErrors *prometheus.CounterVec
	BogonsTotal   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// Provider Metrics
		ProviderRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_requests_total",
				Help: "Total number of requests sent to the geolocation provider",
			},
			[]string{"status"},
		),

		ProviderRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "provider_request_duration_seconds",
				Help:    "Provider round-trip latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		// Cache Metrics
		CacheLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Total number of cache lookups by result (hit or miss)",
			},
			[]string{"cache", "result"},
		),

		CacheErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_errors_total",
				Help: "Total number of cache read/write failures",
			},
			[]string{"cache", "operation"},
		),

		// Application Metrics
		LookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ip_lookups_total",
				Help: "Total number of IP lookups",
			},
			[]string{"result"},
		),

		LookupsErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ip_lookups_errors_total",
				Help: "Total number of IP lookup errors",
			},
			[]string{"error_type"},
		),

		BogonsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ip_lookups_bogon_total",
				Help: "Total number of lookups classified as bogon addresses",
			},
		),
	}
}
