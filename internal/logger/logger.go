package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var defaultLogger *slog.Logger

// Initialize sets up the global logger with the specified level and format
func Initialize(level, format string) {
	InitializeWithWriter(level, format, os.Stderr)
}

// InitializeWithWriter is Initialize with an explicit destination.
func InitializeWithWriter(level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		Initialize("info", "text")
	}
	return defaultLogger
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// APICall logs an outbound call to the rental backend
func APICall(ctx context.Context, op, method, path, requestID string) {
	Get().DebugContext(ctx, "→ Backend call",
		"op", op, "method", method, "path", path, "request_id", requestID)
}

// APIResult logs the outcome of an outbound call. Failures are logged at
// error level with the normalized message.
func APIResult(ctx context.Context, op string, status int, elapsed time.Duration, err error, requestID string) {
	args := []any{"op", op, "status", status, "elapsed", elapsed, "request_id", requestID}
	if err != nil {
		args = append(args, "error", err)
		Get().ErrorContext(ctx, "← Backend call failed", args...)
		return
	}
	Get().DebugContext(ctx, "← Backend call succeeded", args...)
}

// ViewAction logs a user-triggered action in one of the dashboard views
func ViewAction(ctx context.Context, view, action string, args ...any) {
	allArgs := append([]any{"view", view, "action", action}, args...)
	Get().InfoContext(ctx, "View action", allArgs...)
}
