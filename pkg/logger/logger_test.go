package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	buf.Reset()
	return entry
}

func TestLoggerCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf, Format: FormatJSON})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithUserID(ctx, 42)
	ctx = logg.WithDocumentID(ctx, 7)
	logg.Info(ctx, "documents.protect")

	entry := decodeLine(t, &buf)
	if entry["service"] != "api" || entry["request_id"] != "req-1" || entry["user_id"] != float64(42) {
		t.Fatalf("missing context fields: %v", entry)
	}
	if entry["document_id"] != float64(7) {
		t.Fatalf("expected document_id 7, got %v", entry["document_id"])
	}
	if entry["message"] != "documents.protect" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
}

func TestLoggerErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf, Format: FormatJSON})

	logg.Error(context.Background(), "billing.failed_after_processing", errors.New("insert failed"))

	entry := decodeLine(t, &buf)
	if entry["error"] != "insert failed" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
	stack, ok := entry["stack"].(string)
	if !ok || stack == "" {
		t.Fatal("expected stack on error entries")
	}
	if strings.Contains(stack, "callerStack") || strings.HasPrefix(stack, "runtime/debug.") {
		t.Fatalf("stack should start at the caller, got %q", stack)
	}
	if !strings.Contains(stack, "TestLoggerErrorIncludesStack") {
		t.Fatalf("stack should include the calling test, got %q", stack)
	}
}

func TestLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf, Format: FormatConsole})

	logg.Info(context.Background(), "usage.recorded")
	line := buf.String()
	if strings.HasPrefix(line, "{") || !strings.Contains(line, "usage.recorded") {
		t.Fatalf("expected console output, got %q", line)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf, Format: FormatJSON, Level: zerolog.WarnLevel})

	logg.Info(context.Background(), "dropped")
	logg.Debug(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info/debug to be filtered, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"unknown": zerolog.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
