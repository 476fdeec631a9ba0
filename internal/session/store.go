package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrKeyNotFound is returned by a Store when the key is absent or expired
	ErrKeyNotFound = errors.New("key not found")
	// ErrCorruptFile is returned by file store reads when the file cannot be decoded
	ErrCorruptFile = errors.New("session file is corrupt")
)

// Store defines the interface for token storage operations
type Store interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// redisStore implements Store interface using Redis
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(addr, password string, db int) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return NewRedisStoreFromClient(client)
}

// NewRedisStoreFromClient wraps an existing Redis client
func NewRedisStoreFromClient(client *redis.Client) Store {
	return &redisStore{
		client: client,
	}
}

// Set stores a key-value pair with TTL
func (s *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key
func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

// Delete removes a key from the store
func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// fileEntry is one record of the file store
type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// fileStore implements Store on a single JSON file with owner-only permissions.
// Expired entries are dropped lazily on read.
type fileStore struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// NewFileStore creates a Store persisted at path. The parent directory is created
// on first write. A file that cannot be decoded is replaced on the next write so a
// damaged session never blocks login or logout.
func NewFileStore(path string) Store {
	return &fileStore{path: path, now: time.Now, logger: slog.Default()}
}

func (s *fileStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite()
	if err != nil {
		return err
	}
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = s.now().Add(ttl)
	}
	entries[key] = entry
	return s.save(entries)
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}
	entry, ok := entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	if !entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(s.now()) {
		delete(entries, key)
		if err := s.save(entries); err != nil {
			return "", err
		}
		return "", ErrKeyNotFound
	}
	return entry.Value, nil
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *fileStore) load() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	return entries, nil
}

// loadForWrite is load for callers about to rewrite the file. A corrupt file
// counts as empty and is overwritten by the following save.
func (s *fileStore) loadForWrite() (map[string]fileEntry, error) {
	entries, err := s.load()
	if errors.Is(err, ErrCorruptFile) {
		s.logger.Warn("Discarding unreadable session file",
			"path", s.path,
			"error", err,
		)
		return make(map[string]fileEntry), nil
	}
	return entries, err
}

// save writes through a temp file and rename so readers never see a torn file
func (s *fileStore) save(entries map[string]fileEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
