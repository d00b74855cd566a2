// Package logger configures structured logging for the server and the CLI.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ServiceName is attached to every record.
const ServiceName = "firebase-notifier"

// Config selects the handler, level and destination.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	Output io.Writer
}

type contextKey string

// Context keys read by WithContext. Each maps to a log attribute of the same name.
const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyConnID    contextKey = "conn_id"
	ContextKeyOperation contextKey = "operation"
)

var contextKeys = []contextKey{ContextKeyRequestID, ContextKeyConnID, ContextKeyOperation}

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// New creates a logger. JSON output is meant for log collectors, text output
// is colorized with tint for terminals.
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       config.Level,
			AddSource:   true,
			ReplaceAttr: rfc3339Time,
		})
	} else {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      config.Level,
			TimeFormat: time.Kitchen,
		})
	}

	return &Logger{Logger: slog.New(handler).With(slog.String("service", ServiceName))}
}

func rfc3339Time(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String(a.Key, a.Value.Time().UTC().Format(time.RFC3339))
	}
	return a
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// FromConfig maps LOG_LEVEL and LOG_FORMAT values to a Config. Unknown levels
// fall back to debug. APP_ENV=production always logs JSON.
func FromConfig(logLevel, logFormat string) Config {
	config := Config{Level: slog.LevelDebug, Format: "text"}

	switch strings.ToLower(logLevel) {
	case "info":
		config.Level = slog.LevelInfo
	case "warn", "warning":
		config.Level = slog.LevelWarn
	case "error":
		config.Level = slog.LevelError
	}

	if logFormat != "" {
		config.Format = logFormat
	}
	if os.Getenv("APP_ENV") == "production" {
		config.Format = "json"
	}

	return config
}

// WithContext returns a logger carrying the request, connection and operation ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l.Logger
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			logger = logger.With(slog.String(string(key), v))
		}
	}
	return &Logger{Logger: logger}
}

// WithComponent tags records with the emitting package.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With(slog.String("component", component))}
}

// LogError logs err under msg with the ids from ctx.
func (l *Logger) LogError(ctx context.Context, err error, msg string, args ...any) {
	l.WithContext(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, args...)...)
}
