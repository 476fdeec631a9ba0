package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListComments returns one page of comments for a post
func (c *Client) ListComments(ctx context.Context, postID int64, page, limit int) (*CommentPage, error) {
	page, limit = pageDefaults(page, limit)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out CommentPage
	if err := c.do(ctx, request{
		op:     "comments.list",
		method: http.MethodGet,
		path:   postPath(postID) + "/comments",
		query:  query,
	}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []Comment{}
	}
	return &out, nil
}

// AddComment posts a comment on a post
func (c *Client) AddComment(ctx context.Context, postID int64, content string) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, request{
		op:     "comments.create",
		method: http.MethodPost,
		path:   postPath(postID) + "/comments",
		body:   CommentInput{Content: content},
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleLike flips the viewer's like on a post. The acknowledgement carries no
// resulting state; use CheckLike to read it back.
func (c *Client) ToggleLike(ctx context.Context, postID int64) error {
	return c.do(ctx, request{
		op:     "likes.toggle",
		method: http.MethodPost,
		path:   postPath(postID) + "/likes",
		body:   struct{}{},
	}, nil)
}

// CheckLike reports whether the viewer currently likes a post
func (c *Client) CheckLike(ctx context.Context, postID int64) (bool, error) {
	var out LikeStatus
	if err := c.do(ctx, request{
		op:     "likes.check",
		method: http.MethodGet,
		path:   postPath(postID) + "/likes/check",
	}, &out); err != nil {
		return false, err
	}
	return out.IsLiked, nil
}
