package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "shopcatalog"

// CreateChildSpan starts a span under the current trace context.
func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	opts := []trace.SpanStartOption{
		trace.WithAttributes(attrs...),
	}
	return tracer.Start(ctx, name, opts...)
}

func AddSpanAttributes(span trace.Span, attrs []attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// AddSpanError records err on the span and marks its status as error.
func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func AddSpanEvent(span trace.Span, name string, attrs []attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// SpanWrapper runs fn inside a child span and records any returned error.
func SpanWrapper(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := CreateChildSpan(ctx, name, attrs)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		AddSpanError(span, err)
	}

	return err
}

// HandlerSpanWrapper wraps an HTTP handler stage with entity and actor attributes.
func HandlerSpanWrapper(ctx context.Context, entity, operation string, actorID int64, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		attribute.String("handler.entity", entity),
		attribute.String("handler.operation", operation),
		attribute.Int64("actor.id", actorID),
	}

	return SpanWrapper(ctx, fmt.Sprintf("handler.%s.%s", entity, operation), attrs, fn)
}
