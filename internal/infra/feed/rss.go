// Package feed reads upstream WordPress RSS and Atom feeds with gofeed.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"tnsystems-site/internal/resilience/circuitbreaker"
	"tnsystems-site/internal/resilience/retry"
	"tnsystems-site/internal/usecase/importer"
)

// UserAgent identifies the importer to upstream sites.
const UserAgent = "TNSystemsSiteImporter/1.0"

// RSSFetcher fetches feeds through a circuit breaker with retries.
// It is safe for concurrent use.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryPolicy    retry.Policy
	now            func() time.Time
}

func NewRSSFetcher(client *http.Client) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryPolicy:    retry.FeedPolicy(),
		now:            time.Now,
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]importer.FeedItem, error) {
	var items []importer.FeedItem

	err := retry.Do(ctx, f.retryPolicy, slog.Default(), func() error {
		res, err := circuitbreaker.Do(f.circuitBreaker, func() ([]importer.FeedItem, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]importer.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = UserAgent
	fp.Client = f.client

	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.StatusError{Code: httpErr.StatusCode, Status: httpErr.Status}
		}
		return nil, err
	}

	items := make([]importer.FeedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, convert(it, f.now()))
	}
	return items, nil
}

func convert(it *gofeed.Item, now time.Time) importer.FeedItem {
	pubAt := now
	if it.PublishedParsed != nil {
		pubAt = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		pubAt = *it.UpdatedParsed
	}

	var author string
	if it.Author != nil {
		author = it.Author.Name
	} else if len(it.Authors) > 0 && it.Authors[0] != nil {
		author = it.Authors[0].Name
	}

	return importer.FeedItem{
		Title:       strings.TrimSpace(it.Title),
		URL:         strings.TrimSpace(it.Link),
		Description: it.Description,
		Content:     it.Content,
		Author:      author,
		Categories:  it.Categories,
		ImageURL:    imageURL(it),
		PublishedAt: pubAt,
	}
}

// imageURL prefers the item image, then the first image enclosure.
func imageURL(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
