// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level mirrors slog levels for configuration without importing slog at call sites.
type Level int

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// LoggerInterface is the logging contract injected into services.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger wraps slog.Logger with context-aware methods.
type Logger struct {
	log *slog.Logger
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing JSON to w at the given level. The service name
// is attached to every record. extra attributes may be nil.
func New(w io.Writer, level Level, service string, extra map[string]string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(level),
	})

	log := slog.New(handler).With("service", service)
	for k, v := range extra {
		log = log.With(k, v)
	}

	return &Logger{log: log}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log.DebugContext(ctx, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log.InfoContext(ctx, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log.WarnContext(ctx, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log.ErrorContext(ctx, msg, args...)
}

// With returns a logger with additional attributes attached to every record.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{log: l.log.With(args...)}
}

// Discard returns a logger that drops all records. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, LevelError, "test", nil)
}
