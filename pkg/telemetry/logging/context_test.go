package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	ctx = WithProvider(ctx, "openai")
	if got := GetProvider(ctx); got != "openai" {
		t.Errorf("GetProvider() = %q, want %q", got, "openai")
	}

	ctx = WithModel(ctx, "gpt-4-turbo-preview")
	if got := GetModel(ctx); got != "gpt-4-turbo-preview" {
		t.Errorf("GetModel() = %q, want %q", got, "gpt-4-turbo-preview")
	}

	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}

	ctx = WithSpanID(ctx, "span-def")
	if got := GetSpanID(ctx); got != "span-def" {
		t.Errorf("GetSpanID() = %q, want %q", got, "span-def")
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() on empty context = %q, want empty", got)
	}
	if got := GetProvider(ctx); got != "" {
		t.Errorf("GetProvider() on empty context = %q, want empty", got)
	}
}

func TestExtractContextFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithProvider(ctx, "claude")

	fields := extractContextFields(ctx)
	if len(fields) != 4 {
		t.Fatalf("expected 4 field elements, got %d: %v", len(fields), fields)
	}

	if fields[0] != "request_id" || fields[1] != "req-123" {
		t.Errorf("expected request_id first, got %v", fields[:2])
	}
	if fields[2] != "provider" || fields[3] != "claude" {
		t.Errorf("expected provider second, got %v", fields[2:4])
	}
}

func TestExtractContextFields_Empty(t *testing.T) {
	fields := extractContextFields(context.Background())
	if len(fields) != 0 {
		t.Errorf("expected no fields from empty context, got %v", fields)
	}
}

func TestLogger_InfoContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{
		Level:  "info",
		Format: "json",
		Writer: buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-456")
	logger.InfoContext(ctx, "handling request", "path", "/api/ai/generate")

	output := buf.String()
	if !strings.Contains(output, "req-456") {
		t.Errorf("expected request id in output, got %s", output)
	}
	if !strings.Contains(output, "/api/ai/generate") {
		t.Errorf("expected explicit field in output, got %s", output)
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{
		Level:  "info",
		Format: "json",
		Writer: buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithProvider(context.Background(), "gemini")
	logger.WithContext(ctx).Info("probe complete")

	if !strings.Contains(buf.String(), "gemini") {
		t.Errorf("expected provider field in output, got %s", buf.String())
	}
}
