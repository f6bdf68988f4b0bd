// Package logger wraps slog with the event names the scoring service emits.
// Production output is JSON on stdout; development uses the text handler.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	operatorKey
)

type Logger struct {
	*slog.Logger
}

func New(env string) *Logger {
	return newWithWriter(os.Stdout, env)
}

func newWithWriter(w io.Writer, env string) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// ContextWithRequestID tags ctx so that WithContext adds request_id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithOperator tags ctx with the authenticated operator id.
func ContextWithOperator(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorKey, operatorID)
}

// RequestIDFromContext returns the id set by ContextWithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext returns a logger carrying the request id and operator stored
// in ctx. Work started from the scheduler has neither.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	var attrs []any
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if op, _ := ctx.Value(operatorKey).(string); op != "" {
		attrs = append(attrs, slog.String("operator_id", op))
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.With(attrs...)}
}

func httpAttrs(method, path string, status int, clientIP string) []slog.Attr {
	return []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("client_ip", clientIP),
	}
}

func (l *Logger) HTTPRequest(ctx context.Context, method, path string, status int, latencyMs float64, clientIP string) {
	attrs := append(httpAttrs(method, path, status, clientIP), slog.Float64("latency_ms", latencyMs))
	l.WithContext(ctx).LogAttrs(ctx, slog.LevelInfo, "http_request", attrs...)
}

func (l *Logger) HTTPError(ctx context.Context, method, path string, status int, err error, clientIP string) {
	attrs := append(httpAttrs(method, path, status, clientIP), slog.String("error", err.Error()))
	l.WithContext(ctx).LogAttrs(ctx, slog.LevelError, "http_error", attrs...)
}

// ScoreEvent is written once per persisted score.
func (l *Logger) ScoreEvent(leadID string, score int, quality string, confidence float64, action string, aiAvailable bool) {
	l.LogAttrs(context.Background(), slog.LevelInfo, "lead_scored",
		slog.String("leadId", leadID),
		slog.Int("score", score),
		slog.String("quality", quality),
		slog.Float64("confidence", confidence),
		slog.String("action", action),
		slog.Bool("aiAvailable", aiAvailable),
	)
}

// AnalyzerCall logs successes at debug; a failure is a warning because
// scoring falls back to keyword analysis.
func (l *Logger) AnalyzerCall(provider string, latencyMs float64, err error) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("provider", provider),
		slog.Float64("latency_ms", latencyMs),
	}
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.LogAttrs(context.Background(), level, "analyzer_call", attrs...)
}

func (l *Logger) DatabaseError(operation string, err error) {
	l.LogAttrs(context.Background(), slog.LevelError, "database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.LogAttrs(context.Background(), slog.LevelWarn, "rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
