package api

import (
	"encoding/json"
	"time"
)

// Author is the embedded owner of a post or comment
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Comment is a single comment on a post. The parent post is known from context.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post is a blog post as seen by the current viewer
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       Author    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LikesCount   int       `json:"likesCount"`
	CommentCount int       `json:"commentCount"`
	IsLiked      bool      `json:"isLikedByMe"`
	Comments     []Comment `json:"comments,omitempty"`
}

// UnmarshalJSON reads the viewer's like state from isLikedByMe, falling back to
// the shorter isLiked some deployments send.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		LikedByMe *bool `json:"isLikedByMe"`
		Liked     *bool `json:"isLiked"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.LikedByMe != nil:
		p.IsLiked = *aux.LikedByMe
	case aux.Liked != nil:
		p.IsLiked = *aux.Liked
	default:
		p.IsLiked = false
	}
	return nil
}

// Pagination describes one page of a server-side list
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// DefaultPagination is the pagination block before any page has been fetched.
func DefaultPagination() Pagination {
	return Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 1}
}

// NewPagination builds a pagination block with TotalPages = ceil(total/limit) and
// page clamped into [1, TotalPages] when there is at least one page.
func NewPagination(total, page, limit int) Pagination {
	if limit < 1 {
		limit = 1
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// Consistent reports whether the block satisfies the ceil(total/limit) and page range rules.
func (p Pagination) Consistent() bool {
	if p.Limit < 1 {
		return false
	}
	want := (p.Total + p.Limit - 1) / p.Limit
	if p.TotalPages != want {
		return false
	}
	if p.TotalPages == 0 {
		return p.Page == 1
	}
	return p.Page >= 1 && p.Page <= p.TotalPages
}

// PostPage is the response of GET /posts
type PostPage struct {
	Data       []Post     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CommentPage is the response of GET /posts/:id/comments
type CommentPage struct {
	Data       []Comment  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PostQuery selects a page of posts. Search is applied server-side.
type PostQuery struct {
	Page   int
	Limit  int
	Search string
}

// PostInput carries the editable fields of a post
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentInput is the body of POST /posts/:id/comments
type CommentInput struct {
	Content string `json:"content"`
}

// LikeStatus is the response of GET /posts/:id/likes/check
type LikeStatus struct {
	IsLiked bool `json:"isLiked"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the successful outcome of a login
type LoginResult struct {
	Message     string
	AccessToken string
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Password  string `json:"password"`
}

// RegisteredUser is the minimal echo of a newly created account
type RegisteredUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
}

// RegisterResult is the successful outcome of a registration
type RegisterResult struct {
	Message string
	User    *RegisteredUser
}

// Profile is the current user's profile
type Profile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// ProfileUpdate carries only the changed profile fields
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	UserName  *string `json:"userName,omitempty"`
}

// Envelope is the status/message wrapper used by the auth endpoints
type Envelope[T any] struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Data       *T                `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"statusCode,omitempty"`
}

// AccessToken is the data block of a successful login
type AccessToken struct {
	AccessToken string `json:"accessToken"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
