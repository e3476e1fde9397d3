package http

import (
	"net/http"
	"strconv"
	"time"

	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/responsewriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type requestMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
	bytes    *prometheus.HistogramVec
}

func newRequestMetrics(reg prometheus.Registerer) *requestMetrics {
	f := promauto.With(reg)
	return &requestMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		// 5ms cached reads up to 10s submissions waiting on the database.
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served",
		}),
		bytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_message_size_bytes",
			Help:    "Request and response body sizes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"route", "direction"}),
	}
}

var defaultRequestMetrics = newRequestMetrics(prometheus.DefaultRegisterer)

func (m *requestMetrics) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		route := pathutil.NormalizePath(r.URL.Path)
		if r.ContentLength > 0 {
			m.bytes.WithLabelValues(route, "in").Observe(float64(r.ContentLength))
		}

		rec := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.Status())
		m.requests.WithLabelValues(r.Method, route, status).Inc()
		m.latency.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.bytes.WithLabelValues(route, "out").Observe(float64(rec.Size()))
	})
}

// MetricsMiddleware counts and times every request on the default registry.
// Numeric path segments are folded into :id.
func MetricsMiddleware(next http.Handler) http.Handler {
	return defaultRequestMetrics.wrap(next)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
