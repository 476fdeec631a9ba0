// Package store is the client-side state container of the blog client.
//
// Every operation dispatches actions that a pure reducer folds into one state
// tree. Operations block until their HTTP calls complete, are safe for
// concurrent use and take the caller's context for cancellation.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/notify"
	"github.com/bekizod/Blog-Post/internal/session"
)

// API is the remote blog API as used by the store
type API interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResult, error)
	GetProfile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, in api.ProfileUpdate) (*api.Profile, error)
	ListPosts(ctx context.Context, q api.PostQuery) (*api.PostPage, error)
	GetPost(ctx context.Context, id int64) (*api.Post, error)
	CreatePost(ctx context.Context, in api.PostInput) (*api.Post, error)
	UpdatePost(ctx context.Context, id int64, in api.PostInput) (*api.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListComments(ctx context.Context, postID int64, page, limit int) (*api.CommentPage, error)
	AddComment(ctx context.Context, postID int64, content string) (*api.Comment, error)
	ToggleLike(ctx context.Context, postID int64) error
	CheckLike(ctx context.Context, postID int64) (bool, error)
}

// Listener is called with the new snapshot after every dispatch
type Listener func(State)

// Store holds the state tree and runs operations against the API
type Store struct {
	// deliverMu orders notifications the same way as reductions
	deliverMu sync.Mutex
	mu        sync.Mutex
	state     State

	subMu     sync.Mutex
	listeners map[uint64]Listener
	nextSub   uint64

	seq atomic.Uint64

	api      API
	sessions session.Manager
	notifier notify.Notifier
	logger   *slog.Logger
	guard    bool
	pageSize int
}

// Option configures a Store
type Option func(*Store)

// WithStaleResponseGuard discards completions of fetches that were superseded by a
// newer request of the same kind. Without it the last completion wins.
func WithStaleResponseGuard() Option {
	return func(s *Store) {
		s.guard = true
	}
}

// WithNotifier sets where success and error notices go
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithLogger sets the logger used for action tracing
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithPageSize sets the limit used when a query leaves it zero
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates a store over client, persisting the session through sessions
func New(client API, sessions session.Manager, opts ...Option) *Store {
	s := &Store{
		state:     InitialState(),
		listeners: make(map[uint64]Listener),
		api:       client,
		sessions:  sessions,
		notifier:  notify.Nop,
		logger:    slog.Default(),
		pageSize:  api.DefaultPagination().Limit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a to the state tree and notifies listeners with the result.
// Each reduction is atomic with respect to every other, and listeners receive
// snapshots in reduction order. A listener must not call Dispatch.
func (s *Store) Dispatch(a Action) State {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	next := reduce(s.state, a, s.guard)
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("action dispatched", "type", a.Type())

	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

// authed returns ctx carrying the session token, if any
func (s *Store) authed(ctx context.Context) context.Context {
	return api.WithToken(ctx, s.State().Auth.Token)
}

func (s *Store) notify(ctx context.Context, level notify.Level, action, message string) {
	if message == "" {
		return
	}
	if err := s.notifier.Notify(ctx, notify.New(level, action, message)); err != nil {
		s.logger.Warn("failed to deliver notification",
			"action", action,
			"error", err,
		)
	}
}

const msgNoToken = "No authentication token found"

// errorMessage maps err to the message stored in state
func errorMessage(err error, fallback string) string {
	if errors.Is(err, api.ErrNoToken) {
		return msgNoToken
	}
	return api.Message(err, fallback)
}
