// Package log is the structured logger for go-window. Output goes to
// stderr as text by default; set WINDOW_LOG_FORMAT=json for machine
// ingestion.
package log

import (
	"log/slog"
	"os"
	"sync"

	"github.com/holoview/go-window/internal/config"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the global logger. Valid levels are "debug", "info",
// "warn" and "error"; anything else means info. Later calls are no-ops.
func Init(level string) {
	once.Do(func() {
		logger = slog.New(newHandler(parseLevel(level), config.LogFormat()))
		slog.SetDefault(logger)
	})
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(lvl slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// L returns the global logger instance.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
