package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("github.com/riskibarqy/club-fixtures/internal/interfaces/httpapi")

// startSpan opens a handler span under the otelhttp server span. Requests
// without one (health checks, tests) get the context's no-op span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// recordSpanError marks the innermost span failed. Client errors are
// recorded as events only so 4xx responses do not page anyone.
func recordSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	if status := mapError(err).HTTPStatus; status >= 500 {
		span.SetStatus(codes.Error, err.Error())
	}
}
