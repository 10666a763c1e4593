package slogger

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultLogger is used when no logger is configured.
var DefaultLogger = NewDevNullLogger()

// Logger is the structured logging interface used throughout the project.
// It is satisfied by thin wrappers over slog and by the devnull logger.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level with optional key-value pairs
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level with optional key-value pairs
	Error(msg string, keysAndValues ...any)

	// With returns a new Logger with the given key-value pairs added
	With(keysAndValues ...any) Logger
}

// LogLevel represents the minimum log level
type LogLevel slog.Level

const (
	LevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LevelError LogLevel = LogLevel(slog.LevelError)
)

var DefaultLogLevel = LevelInfo

// LevelFromString converts a string to a LogLevel.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLogLevel
	}
}

type contextKey string

const loggerKey contextKey = "openagentbuilder.logger"

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger carried by the given context, or a default.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return New(DefaultLogLevel)
	}
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return New(DefaultLogLevel)
	}
	return logger
}
