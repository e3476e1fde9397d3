package cmsclient

import (
	"context"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/listing"
)

// PostsSource loads every post the listing page shows in one request.
func (c *Client) PostsSource(perPage int) listing.Source[entity.Post] {
	return listing.SourceFunc[entity.Post](func(ctx context.Context) ([]entity.Post, error) {
		list, err := c.ListPosts(ctx, PostQuery{PerPage: perPage})
		if err != nil {
			return nil, err
		}
		return list.Posts, nil
	})
}

// JobsSource loads the open positions in one request.
func (c *Client) JobsSource(perPage int) listing.Source[entity.Job] {
	return listing.SourceFunc[entity.Job](func(ctx context.Context) ([]entity.Job, error) {
		list, err := c.ListJobs(ctx, 1, perPage)
		if err != nil {
			return nil, err
		}
		return list.Jobs, nil
	})
}
