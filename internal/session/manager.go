// Package session persists the bearer token as a cookie record.
// Records live in a Store (a local file for the CLI, Redis when several
// processes share one login) with TTL-based expiration.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrSessionNotFound is returned when no cookie is persisted
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the persisted cookie has expired
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when the persisted record cannot be decoded
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the cookie persistence operations used by the session store
type Manager interface {
	Set(ctx context.Context, token string) (*Cookie, error)
	Get(ctx context.Context) (*Cookie, error)
	Remove(ctx context.Context) error
}

// manager implements Manager interface
type manager struct {
	store  Store
	name   string
	maxAge time.Duration
	now    func() time.Time
}

// ManagerOption configures a Manager
type ManagerOption func(*manager)

// WithMaxAge overrides the cookie lifetime
func WithMaxAge(d time.Duration) ManagerOption {
	return func(m *manager) {
		m.maxAge = d
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) ManagerOption {
	return func(m *manager) {
		m.now = now
	}
}

// WithCookieName overrides the cookie name, e.g. to keep logins to several
// API hosts apart in one store
func WithCookieName(name string) ManagerOption {
	return func(m *manager) {
		m.name = name
	}
}

// NewManager creates a new cookie manager
func NewManager(store Store, opts ...ManagerOption) Manager {
	m := &manager{
		store:  store,
		name:   CookieName,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *manager) key() string {
	return fmt.Sprintf("cookie:%s", m.name)
}

// Set persists token as a secure, strict same-site cookie
func (m *manager) Set(ctx context.Context, token string) (*Cookie, error) {
	now := m.now()
	cookie := &Cookie{
		Name:      m.name,
		Value:     token,
		Expires:   now.Add(m.maxAge),
		Secure:    true,
		SameSite:  http.SameSiteStrictMode,
		CreatedAt: now,
	}

	data, err := json.Marshal(cookie)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cookie: %w", err)
	}

	if err := m.store.Set(ctx, m.key(), string(data), m.maxAge); err != nil {
		return nil, fmt.Errorf("failed to store cookie: %w", err)
	}

	return cookie, nil
}

// Get returns the persisted cookie. Expired or unreadable records are deleted.
func (m *manager) Get(ctx context.Context) (*Cookie, error) {
	key := m.key()

	data, err := m.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie: %w", err)
	}

	var cookie Cookie
	if err := json.Unmarshal([]byte(data), &cookie); err != nil || cookie.Value == "" {
		_ = m.store.Delete(ctx, key)
		return nil, ErrInvalidSession
	}

	if cookie.Expired(m.now()) {
		_ = m.store.Delete(ctx, key)
		return nil, ErrSessionExpired
	}

	return &cookie, nil
}

// Remove deletes the persisted cookie. Removing a missing cookie is not an error.
func (m *manager) Remove(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key()); err != nil {
		return fmt.Errorf("failed to remove cookie: %w", err)
	}
	return nil
}
