package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipe_finder",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipe_finder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipe_finder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	catalogCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipe_finder",
			Subsystem: "catalog",
			Name:      "upstream_calls_total",
			Help:      "Calls to the external recipe catalog by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	catalogDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipe_finder",
			Subsystem: "catalog",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of calls to the external recipe catalog.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms to ~12s
		},
		[]string{"endpoint"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipe_finder",
			Subsystem: "catalog",
			Name:      "cache_lookups_total",
			Help:      "Recipe detail cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		catalogCalls,
		catalogDuration,
		cacheLookups,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency labelled by chi route
// pattern, so /api/meal-plans/{id} is one series regardless of id.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveCatalogCall records one upstream call. outcome is "ok", "http_error"
// or "transport_error".
func ObserveCatalogCall(endpoint, outcome string, duration time.Duration) {
	catalogCalls.WithLabelValues(endpoint, outcome).Inc()
	catalogDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func ObserveCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
