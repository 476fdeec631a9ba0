// Package notify delivers user-facing success and error notices produced by
// store operations.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one notice raised by an operation
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds a notification with a fresh id
func New(level Level, action, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// Notifier receives notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Nop discards every notification
var Nop Notifier = NotifierFunc(func(context.Context, Notification) error { return nil })

// LogNotifier writes notifications to a logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs success at info and errors at warn
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, n.Message,
		"notification_id", n.ID,
		"action", n.Action,
	)
	return nil
}

// Multi fans a notification out to every notifier and joins their errors
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) error {
		var errs []error
		for _, nt := range notifiers {
			if err := nt.Notify(ctx, n); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Recorder keeps notifications in memory so they can be inspected later
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

// Drain returns the recorded notifications and forgets them
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}
