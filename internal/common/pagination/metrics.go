package pagination

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_collection_requests_total",
		Help: "Successful collection requests by resource and requested page band",
	}, []string{"resource", "page_band"})

	listDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "site_collection_request_duration_seconds",
		Help:    "Time spent serving a collection page",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}, []string{"resource"})

	listItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "site_collection_items",
		Help: "Item count reported by the most recent collection request",
	}, []string{"resource"})

	listFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_collection_failures_total",
		Help: "Collection requests that did not produce a page",
	}, []string{"resource", "reason"})
)

// Failure reasons.
const (
	ReasonInvalid = "invalid"
	ReasonBackend = "backend"
)

// ObserveList records a served page of resource.
func ObserveList(resource string, page int, total int64, elapsed time.Duration) {
	listRequests.WithLabelValues(resource, pageBand(page)).Inc()
	listDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
	listItems.WithLabelValues(resource).Set(float64(total))
}

// ObserveFailure counts a collection request that failed for reason.
func ObserveFailure(resource, reason string) {
	listFailures.WithLabelValues(resource, reason).Inc()
}

// pageBand keeps the label set small; deep pages are mostly crawlers.
func pageBand(page int) string {
	switch {
	case page <= 1:
		return "first"
	case page <= 10:
		return "2-10"
	case page <= 50:
		return "11-50"
	default:
		return "51+"
	}
}
