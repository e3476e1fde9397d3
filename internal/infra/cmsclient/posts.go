package cmsclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"tnsystems-site/internal/domain/entity"
)

// wpDateLayout is the site-local "date" format of the WordPress REST API.
const wpDateLayout = "2006-01-02T15:04:05"

// PostQuery selects posts from the collection endpoint.
type PostQuery struct {
	PerPage  int
	Page     int
	Search   string
	Category string
	Slug     string
}

func (q PostQuery) values() url.Values {
	v := url.Values{}
	v.Set("_embed", "1")
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("categories", q.Category)
	}
	if q.Slug != "" {
		v.Set("slug", q.Slug)
	}
	return v
}

// PostList is one page of posts plus the collection totals from the response headers.
type PostList struct {
	Posts      []entity.Post
	Total      int
	TotalPages int
}

// postSchema is the minimum a post must carry to be displayed.
type postSchema struct {
	ID       int64   `validate:"required,gt=0"`
	Slug     string  `validate:"required"`
	Title    *string `validate:"required"`
	Date     string  `validate:"required,datetime=2006-01-02T15:04:05"`
	MediaURL string  `validate:"omitempty,url"`
	Link     string  `validate:"omitempty,url"`
}

// ListPosts fetches one page of posts with embedded media, terms and author.
func (c *Client) ListPosts(ctx context.Context, q PostQuery) (PostList, error) {
	endpoint, err := joinURL(c.cfg.WordPressAPIURL, "posts")
	if err != nil {
		return PostList{}, err
	}
	endpoint = withQuery(endpoint, q.values())

	res, err := c.get(ctx, endpoint)
	if err != nil {
		return PostList{}, err
	}

	posts, err := c.decodePosts(res.body)
	if err != nil {
		return PostList{}, &ParseError{URL: endpoint, Err: err}
	}

	list := PostList{Posts: posts, Total: len(posts), TotalPages: 1}
	if n, err := strconv.Atoi(res.header.Get("X-WP-Total")); err == nil {
		list.Total = n
	}
	if n, err := strconv.Atoi(res.header.Get("X-WP-TotalPages")); err == nil {
		list.TotalPages = n
	}
	return list, nil
}

// PostBySlug fetches a single post. It returns ErrNotFound when no post has the slug.
func (c *Client) PostBySlug(ctx context.Context, slug string) (entity.Post, error) {
	list, err := c.ListPosts(ctx, PostQuery{Slug: slug})
	if err != nil {
		return entity.Post{}, err
	}
	if len(list.Posts) == 0 {
		return entity.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	return list.Posts[0], nil
}

func (c *Client) decodePosts(body []byte) ([]entity.Post, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected array, got %s", root.Type)
	}

	items := root.Array()
	posts := make([]entity.Post, 0, len(items))
	seen := make(map[int64]int, len(items))
	for i, item := range items {
		p, err := c.decodePost(item)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		if first, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("post %d: duplicate id %d (first at %d)", i, p.ID, first)
		}
		seen[p.ID] = i
		posts = append(posts, p)
	}
	return posts, nil
}

func (c *Client) decodePost(item gjson.Result) (entity.Post, error) {
	if !item.IsObject() {
		return entity.Post{}, fmt.Errorf("expected object, got %s", item.Type)
	}

	schema := postSchema{
		ID:       item.Get("id").Int(),
		Slug:     item.Get("slug").String(),
		Date:     item.Get("date").String(),
		MediaURL: item.Get(`_embedded.wp:featuredmedia.0.source_url`).String(),
		Link:     item.Get("link").String(),
	}
	if title := item.Get("title.rendered"); title.Exists() {
		s := title.String()
		schema.Title = &s
	}
	if err := c.validate.Struct(schema); err != nil {
		return entity.Post{}, err
	}

	created, _ := time.Parse(wpDateLayout, schema.Date)
	modified, err := time.Parse(wpDateLayout, item.Get("modified").String())
	if err != nil {
		modified = created
	}

	var categories []string
	for _, name := range item.Get(`_embedded.wp:term.0.#.name`).Array() {
		if n := strings.TrimSpace(name.String()); n != "" {
			categories = append(categories, n)
		}
	}

	post := entity.Post{
		ID:         schema.ID,
		Slug:       schema.Slug,
		Title:      *schema.Title,
		Excerpt:    item.Get("excerpt.rendered").String(),
		Content:    item.Get("content.rendered").String(),
		Author:     item.Get(`_embedded.author.0.name`).String(),
		Categories: categories,
		MediaURL:   schema.MediaURL,
		Link:       schema.Link,
		Status:     item.Get("status").String(),
		CreatedAt:  created,
		UpdatedAt:  modified,
	}
	return post, nil
}
