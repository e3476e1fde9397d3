package metrics

import (
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "site_import_feed_duration_seconds",
		Help:    "Time to fetch and store one feed",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"feed"})

	feedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_import_feed_items_total",
		Help: "Feed items by what the importer did with them",
	}, []string{"feed", "result"})

	feedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_import_feed_errors_total",
		Help: "Feed imports that stopped early, by stage",
	}, []string{"feed", "stage"})

	pageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_import_page_fetches_total",
		Help: "Full page fetches for short feed content",
	}, []string{"outcome"})

	pageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "site_import_page_fetch_duration_seconds",
		Help:    "Time to download and extract one post page",
		Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
	})

	pageSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "site_import_page_content_bytes",
		Help:    "Size of extracted page content",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	})
)

// FeedCounts is the per-feed tally of one import run.
type FeedCounts struct {
	Inserted, Duplicated, Failed int64
}

// Feed error stages.
const (
	StageFetch  = "fetch"
	StageLookup = "lookup"
	StageCreate = "create"
)

// Page fetch outcomes.
const (
	PageSkipped = "skipped"
	PageFailed  = "failed"
	PageFetched = "fetched"
)

// FeedLabel reduces a feed URL to its host so label cardinality stays bounded.
func FeedLabel(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

func ObserveFeed(feedURL string, took time.Duration, c FeedCounts) {
	feed := FeedLabel(feedURL)
	feedDuration.WithLabelValues(feed).Observe(took.Seconds())
	feedItems.WithLabelValues(feed, "inserted").Add(float64(c.Inserted))
	feedItems.WithLabelValues(feed, "duplicate").Add(float64(c.Duplicated))
	feedItems.WithLabelValues(feed, "failed").Add(float64(c.Failed))
}

func FeedFailed(feedURL, stage string) {
	feedErrors.WithLabelValues(FeedLabel(feedURL), stage).Inc()
}

// ObservePageFetch records a full page fetch. took and size are ignored for
// skipped fetches and size for failed ones.
func ObservePageFetch(outcome string, took time.Duration, size int) {
	pageFetches.WithLabelValues(outcome).Inc()
	if outcome == PageSkipped {
		return
	}
	pageFetchDuration.Observe(took.Seconds())
	if outcome == PageFetched {
		pageSize.Observe(float64(size))
	}
}
