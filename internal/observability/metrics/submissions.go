package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "site_submissions_total",
	Help: "Job applications and contact messages by outcome",
}, []string{"kind", "result"})

// RecordSubmission counts one visitor submission. kind is an entity
// notification kind; result is accepted, invalid, rejected or error.
func RecordSubmission(kind, result string) {
	submissions.WithLabelValues(kind, result).Inc()
}
