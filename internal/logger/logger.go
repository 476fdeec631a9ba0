// Package logger provides structured logging configuration for the client and the dev API.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// LogFormat represents the output format for logs
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format (dev API default)
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in human-readable text format
	FormatText LogFormat = "text"
)

// Build creates a structured logger writing to w.
//
// levelName: debug, info, warn, error (default: info)
// formatName: json, text (default: fallback)
//
// The dev API logs JSON to stdout; the CLI logs text to stderr so log lines never
// mix with rendered output.
func Build(w io.Writer, levelName, formatName string, fallback LogFormat) *slog.Logger {
	level := ParseLevel(levelName)
	format := ParseFormat(formatName, fallback)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a LOG_LEVEL value to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat maps a LOG_FORMAT value to a LogFormat.
func ParseFormat(s string, fallback LogFormat) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return fallback
	}
}

// Discard returns a logger that drops every record. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetDefault sets the given logger as the default slog logger
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
