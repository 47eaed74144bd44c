// Package logger provides structured logging for the bot.
// It uses Go's slog package with configurable levels and formats, and can
// mirror output into a size-rotated log file.
package logger

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/edgard/gubot/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger creates a new slog Logger from the log configuration and installs it
// as the default logger. When cfg.File is set, records are written to stdout and
// to a lumberjack-rotated file; the returned Closer releases that file.
func NewLogger(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	logger := slog.New(NewHandler(out, cfg.Level, cfg.JSON))
	slog.SetDefault(logger)
	return logger, closer
}

// NewHandler builds a text or JSON handler writing to w at the named level.
// Unknown level names fall back to info.
func NewHandler(w io.Writer, levelStr string, jsonOutput bool) slog.Handler {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if jsonOutput {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Discard returns a logger that drops everything. Useful as a nil-logger fallback.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type loggingTransport struct {
	log  *slog.Logger
	next http.RoundTripper
}

// Transport wraps an http.RoundTripper and logs each outbound request with its
// status and duration. Failed round trips are logged at warn, the rest at debug.
func Transport(log *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{log: log, next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	logEntry := t.log.With(
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
	)

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(startTime)

	if err != nil {
		logEntry.WarnContext(req.Context(), "HTTP request failed", "error", err, "duration", duration)
		return nil, err
	}

	logEntry.DebugContext(req.Context(), "HTTP request finished", "status", resp.StatusCode, "duration", duration)
	return resp, nil
}

// Truncate shortens s to at most maxLen characters, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
