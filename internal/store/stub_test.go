package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/notify"
	"github.com/bekizod/Blog-Post/internal/session"
)

var errNotStubbed = errors.New("not stubbed")

// stubAPI implements API with optional func fields; unset methods fail
type stubAPI struct {
	loginFunc         func(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error)
	registerFunc      func(ctx context.Context, req api.RegisterRequest) (*api.RegisterResult, error)
	getProfileFunc    func(ctx context.Context) (*api.Profile, error)
	updateProfileFunc func(ctx context.Context, in api.ProfileUpdate) (*api.Profile, error)
	listPostsFunc     func(ctx context.Context, q api.PostQuery) (*api.PostPage, error)
	getPostFunc       func(ctx context.Context, id int64) (*api.Post, error)
	createPostFunc    func(ctx context.Context, in api.PostInput) (*api.Post, error)
	updatePostFunc    func(ctx context.Context, id int64, in api.PostInput) (*api.Post, error)
	deletePostFunc    func(ctx context.Context, id int64) error
	listCommentsFunc  func(ctx context.Context, postID int64, page, limit int) (*api.CommentPage, error)
	addCommentFunc    func(ctx context.Context, postID int64, content string) (*api.Comment, error)
	toggleLikeFunc    func(ctx context.Context, postID int64) error
	checkLikeFunc     func(ctx context.Context, postID int64) (bool, error)
}

func (m *stubAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) GetProfile(ctx context.Context) (*api.Profile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (*api.Profile, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, in)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) ListPosts(ctx context.Context, q api.PostQuery) (*api.PostPage, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(ctx, q)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) GetPost(ctx context.Context, id int64) (*api.Post, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) CreatePost(ctx context.Context, in api.PostInput) (*api.Post, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(ctx, in)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) UpdatePost(ctx context.Context, id int64, in api.PostInput) (*api.Post, error) {
	if m.updatePostFunc != nil {
		return m.updatePostFunc(ctx, id, in)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) DeletePost(ctx context.Context, id int64) error {
	if m.deletePostFunc != nil {
		return m.deletePostFunc(ctx, id)
	}
	return errNotStubbed
}

func (m *stubAPI) ListComments(ctx context.Context, postID int64, page, limit int) (*api.CommentPage, error) {
	if m.listCommentsFunc != nil {
		return m.listCommentsFunc(ctx, postID, page, limit)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) AddComment(ctx context.Context, postID int64, content string) (*api.Comment, error) {
	if m.addCommentFunc != nil {
		return m.addCommentFunc(ctx, postID, content)
	}
	return nil, errNotStubbed
}

func (m *stubAPI) ToggleLike(ctx context.Context, postID int64) error {
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, postID)
	}
	return errNotStubbed
}

func (m *stubAPI) CheckLike(ctx context.Context, postID int64) (bool, error) {
	if m.checkLikeFunc != nil {
		return m.checkLikeFunc(ctx, postID)
	}
	return false, errNotStubbed
}

type fixture struct {
	store    *Store
	api      *stubAPI
	sessions session.Manager
	notices  *notify.Recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	stub := &stubAPI{}
	sessions := session.NewManager(session.NewFileStore(filepath.Join(t.TempDir(), "session.json")))
	rec := &notify.Recorder{}

	opts = append([]Option{
		WithNotifier(rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	return &fixture{
		store:    New(stub, sessions, opts...),
		api:      stub,
		sessions: sessions,
		notices:  rec,
	}
}

// authenticate gives the fixture a session without going through Login
func (f *fixture) authenticate(token string) {
	f.store.Dispatch(LoginFulfilled{Token: token})
}

func samplePost(id int64, likes, comments int) api.Post {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return api.Post{
		ID:           id,
		Title:        "Post title",
		Content:      "Post content",
		Author:       api.Author{ID: 7, Username: "ada", Email: "ada@example.com"},
		CreatedAt:    ts,
		UpdatedAt:    ts,
		LikesCount:   likes,
		CommentCount: comments,
	}
}
