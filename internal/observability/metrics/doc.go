// Package metrics holds the Prometheus business metrics of the site backend.
// HTTP request metrics live with the HTTP middleware.
//
//	start := time.Now()
//	// ... import a feed ...
//	metrics.ObserveFeed(feedURL, time.Since(start), metrics.FeedCounts{Inserted: 3})
package metrics
