// Package resilience holds the failure handling shared by outbound calls.
// Subpackage circuitbreaker wraps sony/gobreaker for the CMS API, feeds, post
// pages and the database; subpackage retry re-runs transient failures with
// jittered exponential backoff.
//
//	b := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	err := retry.Do(ctx, retry.FeedPolicy(), logger, func() error {
//		_, err := circuitbreaker.Do(b, fetch)
//		return err
//	})
package resilience
