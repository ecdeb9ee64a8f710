// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGeneratedIDs(t *testing.T) {
	t.Parallel()

	if a, b := GenerateCorrelationID(), GenerateCorrelationID(); len(a) != 8 || a == b {
		t.Errorf("correlation ids %q, %q: want distinct 8-char ids", a, b)
	}
	if a, b := GenerateRequestID(), GenerateRequestID(); len(a) != 36 || a == b {
		t.Errorf("request ids %q, %q: want distinct UUIDs", a, b)
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Fatal("empty context returned ids")
	}
	ctx = ContextWithCorrelationID(ctx, "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("correlation id = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id = %q", got)
	}
}

func TestCtx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "corr0001")
	ctx = ContextWithRequestID(ctx, "req-42")

	Ctx(ctx).Info().Msg("predict requested")

	out := buf.String()
	for _, want := range []string{`"correlation_id":"corr0001"`, `"request_id":"req-42"`, "predict requested"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}
