package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream platform API metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Query cache metrics
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CacheStaleTotal    *prometheus.CounterVec
	CacheDedupsTotal   *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	CacheEntries       prometheus.Gauge

	// Session and auth metrics
	AuthFailuresTotal   prometheus.Counter
	LoginRedirectsTotal prometheus.Counter
	LoginsTotal         *prometheus.CounterVec
	TokenRefreshesTotal *prometheus.CounterVec

	// Guard metrics
	GuardDecisionsTotal *prometheus.CounterVec

	// Notification metrics
	NotificationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total number of HTTP requests served by the gateway",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_http_request_duration_seconds",
				Help:    "Gateway HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_upstream_requests_total",
				Help: "Total number of requests issued to the platform API",
			},
			[]string{"method", "status"},
		),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_upstream_request_duration_seconds",
				Help:    "Platform API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_hits_total",
				Help: "Total number of query cache hits",
			},
			[]string{"group"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_misses_total",
				Help: "Total number of query cache misses",
			},
			[]string{"group"},
		),
		CacheStaleTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_stale_total",
				Help: "Total number of stale cache answers that triggered a background refresh",
			},
			[]string{"group"},
		),
		CacheDedupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_dedups_total",
				Help: "Total number of fetches coalesced into an existing in-flight request",
			},
			[]string{"group"},
		),
		CacheInvalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_invalidations_total",
				Help: "Total number of cache entries removed by group invalidation",
			},
			[]string{"group"},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "backoffice_cache_entries",
				Help: "Current number of entries in the query cache",
			},
		),
		AuthFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_auth_failures_total",
				Help: "Total number of authentication failures observed on upstream calls",
			},
		),
		LoginRedirectsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_login_redirects_total",
				Help: "Total number of forced navigations to the login route",
			},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
		TokenRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_token_refreshes_total",
				Help: "Total number of access token refreshes",
			},
			[]string{"status"},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_guard_decisions_total",
				Help: "Total number of route guard decisions",
			},
			[]string{"stage", "action"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_notifications_total",
				Help: "Total number of notifications published",
			},
			[]string{"level"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheStaleTotal,
		m.CacheDedupsTotal,
		m.CacheInvalidations,
		m.CacheEntries,
		m.AuthFailuresTotal,
		m.LoginRedirectsTotal,
		m.LoginsTotal,
		m.TokenRefreshesTotal,
		m.GuardDecisionsTotal,
		m.NotificationsTotal,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics endpoint
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware records request count and duration for gateway routes
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the response status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
