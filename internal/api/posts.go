package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListPosts returns one page of posts, filtered server-side by q.Search.
// Zero Page/Limit fall back to 1 and 10.
func (c *Client) ListPosts(ctx context.Context, q PostQuery) (*PostPage, error) {
	page, limit := pageDefaults(q.Page, q.Limit)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("search", q.Search)

	var out PostPage
	if err := c.do(ctx, request{
		op:     "posts.list",
		method: http.MethodGet,
		path:   "/posts",
		query:  query,
	}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Post{}
	}
	return &out, nil
}

// GetPost returns the full detail of one post
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	var out Post
	if err := c.do(ctx, request{
		op:     "posts.get",
		method: http.MethodGet,
		path:   postPath(id),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost publishes a new post and returns the server's canonical copy
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, request{
		op:     "posts.create",
		method: http.MethodPost,
		path:   "/posts/createPost",
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost sends the title and content of a post and returns the updated post
func (c *Client) UpdatePost(ctx context.Context, id int64, in PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, request{
		op:     "posts.update",
		method: http.MethodPatch,
		path:   postPath(id),
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes a post permanently
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		op:     "posts.delete",
		method: http.MethodDelete,
		path:   postPath(id),
	}, nil)
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

func pageDefaults(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
