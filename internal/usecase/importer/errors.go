// Package importer copies posts from upstream WordPress RSS feeds into the
// blog. Items whose slug is already stored are skipped; items that carry only
// a short description get their full content fetched from the post page.
package importer

import "errors"

var (
	// ErrNoFeeds indicates Run was called without any feed configured.
	ErrNoFeeds = errors.New("no import feeds configured")
)
