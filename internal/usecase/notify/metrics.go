package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a notification never reached its channel.
const (
	dropPoolFull = "pool_full"
	dropShutdown = "shutdown"
	dropPaused   = "channel_paused"
)

var (
	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_notify_deliveries_total",
		Help: "Channel send attempts by channel, event kind and result",
	}, []string{"channel", "kind", "result"})

	deliveryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "site_notify_delivery_duration_seconds",
		Help:    "Time spent in Channel.Send",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
	}, []string{"channel"})

	drops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_notify_dropped_total",
		Help: "Notifications discarded before sending",
	}, []string{"channel", "reason"})

	pauses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_notify_channel_paused_total",
		Help: "Times a channel was paused after consecutive failures",
	}, []string{"channel"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "site_notify_in_flight",
		Help: "Deliveries queued or sending",
	})

	configuredChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "site_notify_channels",
		Help: "Channels enabled at startup",
	})
)

func observeDelivery(channel, kind string, err error, took time.Duration) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	deliveries.WithLabelValues(channel, kind, result).Inc()
	deliveryLatency.WithLabelValues(channel).Observe(took.Seconds())
}
