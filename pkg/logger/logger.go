// Package logger wraps zerolog with context-aware enrichment so request,
// correlation, and trace identifiers show up on every log line.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	JSONFormat    = "json"
	ConsoleFormat = "console"

	ContextKeyRequestID contextKey = "requestID"
)

type Logger struct {
	zerolog.Logger
}

func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

func NewWithWriter(level, format string, w io.Writer) Logger {
	logger := zerolog.New(w)

	if format != JSONFormat {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	logger = logger.Level(parseLevel(level)).With().Timestamp().Logger()

	return Logger{Logger: logger}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a sub-logger enriched with identifiers carried by ctx.
func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	logger := l.Logger

	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok && requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}

// WithRequestID stores a request identifier for WithContext to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
