package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/requestid"
	"tnsystems-site/internal/observability/metrics"
	"tnsystems-site/internal/repository"
	"tnsystems-site/internal/usecase/post"
	"tnsystems-site/internal/utils/text"
)

// FeedItem is one entry of an upstream feed. Content may be empty when the
// feed only publishes descriptions.
type FeedItem struct {
	Title       string
	URL         string
	Description string
	Content     string
	Author      string
	Categories  []string
	ImageURL    string
	PublishedAt time.Time
}

type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]FeedItem, error)
}

// ContentFetcher returns the readable HTML of a post page.
type ContentFetcher interface {
	FetchContent(ctx context.Context, pageURL string) (string, error)
}

// PostCreator stores a validated post; *post.Service implements it.
type PostCreator interface {
	Create(ctx context.Context, in post.CreateInput) (*entity.Post, error)
}

type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

// Config tunes content enhancement.
type Config struct {
	// Parallelism bounds concurrent item processing per feed.
	Parallelism int
	// Threshold is the content length, in runes of visible text, below which
	// the full page is fetched.
	Threshold int
}

func DefaultConfig() Config {
	return Config{Parallelism: 5, Threshold: 500}
}

type Service struct {
	Feeds          []string
	Fetcher        FeedFetcher
	ContentFetcher ContentFetcher // optional
	Posts          repository.PostRepository
	Creator        PostCreator
	Notifier       Notifier // optional
	Config         Config
	Logger         *slog.Logger
}

// Stats summarises one run.
type Stats struct {
	Feeds      int
	FeedItems  int64
	Inserted   int64
	Duplicated int64
	Failed     int64
	Duration   time.Duration
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run imports every configured feed. A feed that cannot be fetched is logged
// and skipped; only cancellation and storage failures abort the run.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	if len(s.Feeds) == 0 {
		return nil, ErrNoFeeds
	}
	ctx, runID := requestid.Ensure(ctx)
	logger := s.logger().With(slog.String("request_id", runID))

	start := time.Now()
	stats := &Stats{Feeds: len(s.Feeds)}
	for _, feedURL := range s.Feeds {
		if err := s.importFeed(ctx, logger, feedURL, stats); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
	}
	stats.Duration = time.Since(start)

	logger.Info("feed import completed",
		slog.Int("feeds", stats.Feeds),
		slog.Int64("feed_items", stats.FeedItems),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

type candidate struct {
	item FeedItem
	slug string
}

func (s *Service) importFeed(ctx context.Context, logger *slog.Logger, feedURL string, stats *Stats) error {
	feedStart := time.Now()
	logger = logger.With(slog.String("feed", feedURL))

	items, err := s.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("failed to fetch feed", slog.Any("error", err))
		metrics.FeedFailed(feedURL, metrics.StageFetch)
		return nil
	}
	atomic.AddInt64(&stats.FeedItems, int64(len(items)))
	if len(items) == 0 {
		logger.Info("feed is empty")
		return nil
	}

	var dup int64
	seen := make(map[string]bool, len(items))
	candidates := make([]candidate, 0, len(items))
	for _, it := range items {
		slug := SlugFor(it)
		if slug == "" {
			logger.Warn("skipping item without usable slug", slog.String("url", it.URL))
			atomic.AddInt64(&stats.Failed, 1)
			continue
		}
		if seen[slug] {
			dup++
			continue
		}
		seen[slug] = true
		candidates = append(candidates, candidate{item: it, slug: slug})
	}

	slugs := make([]string, len(candidates))
	for i, c := range candidates {
		slugs[i] = c.slug
	}
	exists, err := s.Posts.ExistsBySlugBatch(ctx, slugs)
	if err != nil {
		metrics.FeedFailed(feedURL, metrics.StageLookup)
		return fmt.Errorf("check existing slugs: %w", err)
	}

	fresh := candidates[:0]
	for _, c := range candidates {
		if exists[c.slug] {
			dup++
			continue
		}
		fresh = append(fresh, c)
	}

	var inserted, failed int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(s.Config.Parallelism, 1))
	for _, c := range fresh {
		eg.Go(func() error {
			p, err := s.Creator.Create(egCtx, s.createInput(egCtx, logger, c))
			switch {
			case err == nil:
			case errors.Is(err, post.ErrDuplicateSlug):
				atomic.AddInt64(&dup, 1)
				return nil
			case errors.Is(err, entity.ErrValidationFailed):
				atomic.AddInt64(&failed, 1)
				logger.Warn("feed item rejected", slog.String("url", c.item.URL), slog.Any("error", err))
				return nil
			default:
				return fmt.Errorf("create post %q: %w", c.slug, err)
			}

			atomic.AddInt64(&inserted, 1)
			if s.Notifier != nil {
				s.Notifier.Notify(egCtx, importedNotification(p, feedURL))
			}
			return nil
		})
	}
	err = eg.Wait()

	atomic.AddInt64(&stats.Inserted, inserted)
	atomic.AddInt64(&stats.Duplicated, dup)
	atomic.AddInt64(&stats.Failed, failed)
	metrics.ObserveFeed(feedURL, time.Since(feedStart), metrics.FeedCounts{Inserted: inserted, Duplicated: dup, Failed: failed})
	if err != nil {
		metrics.FeedFailed(feedURL, metrics.StageCreate)
		return err
	}

	logger.Info("feed imported",
		slog.Int("items", len(items)),
		slog.Int64("inserted", inserted),
		slog.Int64("duplicated", dup),
		slog.Duration("duration", time.Since(feedStart)))
	return nil
}

func (s *Service) createInput(ctx context.Context, logger *slog.Logger, c candidate) post.CreateInput {
	content := c.item.Content
	if content == "" {
		content = c.item.Description
	}
	content = s.enhanceContent(ctx, logger, c.item.URL, content)

	return post.CreateInput{
		Title:      text.StripTags(c.item.Title),
		Slug:       c.slug,
		Excerpt:    c.item.Description,
		Content:    content,
		Author:     c.item.Author,
		Categories: c.item.Categories,
		MediaURL:   c.item.ImageURL,
		Link:       c.item.URL,
		Status:     entity.StatusPublish,
	}
}

// enhanceContent swaps short feed content for the readable page content when
// that is longer. Fetch failures fall back to the feed content.
func (s *Service) enhanceContent(ctx context.Context, logger *slog.Logger, pageURL, content string) string {
	if s.ContentFetcher == nil || pageURL == "" {
		return content
	}
	feedLen := text.CountRunes(text.StripTags(content))
	if feedLen >= s.Config.Threshold {
		metrics.ObservePageFetch(metrics.PageSkipped, 0, 0)
		return content
	}

	start := time.Now()
	full, err := s.ContentFetcher.FetchContent(ctx, pageURL)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("content fetch failed, using feed content",
			slog.String("url", pageURL),
			slog.Duration("fetch_duration", elapsed),
			slog.Any("error", err))
		metrics.ObservePageFetch(metrics.PageFailed, elapsed, 0)
		return content
	}
	metrics.ObservePageFetch(metrics.PageFetched, elapsed, len(full))

	if text.CountRunes(text.StripTags(full)) > feedLen {
		return full
	}
	return content
}

// SlugFor returns the slug an item is stored under: the last path segment of
// its permalink when that is already a valid slug, else one derived from the title.
func SlugFor(it FeedItem) string {
	if u, err := url.Parse(it.URL); err == nil {
		last := path.Base(path.Clean("/" + u.Path))
		if entity.ValidateSlug(last) == nil {
			return last
		}
	}
	return entity.Slugify(text.StripTags(it.Title))
}

func importedNotification(p *entity.Post, feedURL string) *entity.Notification {
	fields := []entity.NotificationField{{Name: "Slug", Value: p.Slug}}
	if p.Author != "" {
		fields = append(fields, entity.NotificationField{Name: "Author", Value: p.Author})
	}
	if c := p.PrimaryCategory(); c != "" {
		fields = append(fields, entity.NotificationField{Name: "Category", Value: c})
	}
	fields = append(fields, entity.NotificationField{Name: "Feed", Value: metrics.FeedLabel(feedURL)})
	return &entity.Notification{
		Kind:       entity.NotifyPostImported,
		Title:      "Post imported: " + text.StripTags(p.Title),
		Body:       text.Excerpt(p.Excerpt, 280),
		URL:        p.Link,
		Fields:     fields,
		OccurredAt: p.CreatedAt,
	}
}
