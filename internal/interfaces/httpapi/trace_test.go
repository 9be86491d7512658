package httpapi

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestStartSpan_WithoutParentStaysNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.ListFixtures")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected the caller's context back")
	}
	if span.IsRecording() || span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span, got %+v", span.SpanContext())
	}
}

func TestStartSpan_KeepsRemoteParent(t *testing.T) {
	t.Parallel()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), parent)

	_, span := startSpan(ctx, "httpapi.Handler.ListStandings")
	defer span.End()

	if span.SpanContext().TraceID() != parent.TraceID() {
		t.Fatalf("expected trace %s, got %s", parent.TraceID(), span.SpanContext().TraceID())
	}
}

func TestRecordSpanError_NoopSpanIsSafe(t *testing.T) {
	t.Parallel()

	recordSpanError(context.Background(), errors.New("boom"))
	recordSpanError(context.Background(), nil)
}
