// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned request ID %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "req-123")
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if id == "" {
			t.Fatal("GenerateRequestID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate request ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(orig)

	ctx := ContextWithRequestID(context.Background(), "req-abc")
	Ctx(ctx).Info().Msg("with id")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["request_id"] != "req-abc" {
		t.Errorf("request_id = %v, want %q", entry["request_id"], "req-abc")
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	// Without a stored logger the global instance is returned; this must
	// not panic and must produce a usable logger.
	logger := LoggerFromContext(context.Background())
	logger.Debug().Msg("no-op")

	var buf bytes.Buffer
	stored := NewTestLogger(&buf)
	ctx := ContextWithLogger(context.Background(), stored)

	fromCtx := LoggerFromContext(ctx)
	fromCtx.Info().Msg("stored logger")
	if buf.Len() == 0 {
		t.Error("stored logger was not returned from context")
	}
}
