// Package logging provides a tiny abstraction over slog so the adapter can
// emit structured logs while letting users plug any structured logger. The
// interface is intentionally minimal; the NoOpLogger default keeps the
// library silent unless a logger is injected.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// Logger defines the minimal logging interface consumed by this module.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. It is the default for an
// unconfigured Bridge.
type NoOpLogger struct{}

// Debug discards a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger builds a slog-backed Logger writing to stdout. Format is
// "json" or "text".
func NewSlogLogger(level LogLevel, format string) Logger {
	return NewSlogLoggerWithWriter(level, format, os.Stdout)
}

// NewSlogLoggerWithWriter builds a slog-backed Logger writing to w.
func NewSlogLoggerWithWriter(level LogLevel, format string, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
