package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	entry := decode(t, &buf)
	return entry
}

func TestScoreEventFields(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).ScoreEvent("lead-1", 82, "HOT", 0.85, "immediate_followup", true)

	entry := decode(t, &buf)
	if entry["msg"] != "lead_scored" {
		t.Fatalf("expected lead_scored message, got %v", entry["msg"])
	}
	if entry["leadId"] != "lead-1" || entry["quality"] != "HOT" || entry["score"] != float64(82) {
		t.Fatalf("unexpected fields %v", entry)
	}
}

func TestAnalyzerCallLogsFailuresAsWarnings(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).AnalyzerCall("gemini", 12, errors.New("timeout"))

	entry := decode(t, &buf)
	if entry["level"] != "WARN" || entry["error"] != "timeout" {
		t.Fatalf("expected warning with error, got %v", entry)
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithOperator(ContextWithRequestID(context.Background(), "req-42"), "op-7")
	newBufferLogger(&buf).WithContext(ctx).Info("hello")

	entry := decode(t, &buf)
	if entry["request_id"] != "req-42" || entry["operator_id"] != "op-7" {
		t.Fatalf("expected request id in log, got %v", entry)
	}
}

func TestHTTPRequestCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-9")
	newBufferLogger(&buf).HTTPRequest(ctx, "POST", "/api/v1/leads/rescore", 202, 1.5, "10.0.0.1")

	entry := decode(t, &buf)
	if entry["msg"] != "http_request" || entry["request_id"] != "req-9" || entry["status"] != float64(202) {
		t.Fatalf("unexpected fields %v", entry)
	}
}

func TestProductionLoggerSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	newWithWriter(&buf, "production").AnalyzerCall("gemini", 3, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected debug line to be dropped, got %q", buf.String())
	}
}
