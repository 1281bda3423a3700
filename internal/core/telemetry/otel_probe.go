package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopcatalog/internal/core/port"
)

// OTELProbe implements Telemetry using OpenTelemetry plus the prometheus
// application metrics.
type OTELProbe struct {
	logger  *slog.Logger
	metrics *AppMetrics
}

func NewOTELProbe(logger *slog.Logger, metrics *AppMetrics) port.Telemetry {
	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan wraps an OpenTelemetry span behind the generic Span interface.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toOtelAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toOtelAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	var otelAttrs []attribute.KeyValue

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(key, v))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(key, v))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(key, v))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(key, v))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(key, v))
		default:
			otelAttrs = append(otelAttrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return otelAttrs
}

func (p *OTELProbe) startSpan(ctx context.Context, name string, attrs map[string]interface{}) (context.Context, port.Span) {
	tracer := otel.Tracer("shopcatalog")

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(toOtelAttributes(attrs)...))

	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	return p.startSpan(ctx, fmt.Sprintf("repository.%s.%s", entity, operation), attrs)
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return p.startSpan(ctx, fmt.Sprintf("service.%s.%s", service, operation), attrs)
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(entity, operation, err)
	}

	if err != nil {
		p.logger.ErrorContext(ctx, "repository operation failed",
			"operation", operation,
			"entity", entity,
			"duration_ms", duration.Milliseconds(),
			"error", err)
	}
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	p.logger.DebugContext(ctx, "repository query",
		"operation", operation,
		"entity", entity,
		"query", query,
		"args_count", len(args))
}

func (p *OTELProbe) RecordCacheHit(ctx context.Context, entity string) {
	if p.metrics != nil {
		p.metrics.RecordCacheHit(entity)
	}
}

func (p *OTELProbe) RecordCacheMiss(ctx context.Context, entity string) {
	if p.metrics != nil {
		p.metrics.RecordCacheMiss(entity)
	}
}

func (p *OTELProbe) RecordCacheDegraded(ctx context.Context, entity string, err error) {
	if p.metrics != nil {
		p.metrics.RecordCacheDegraded(entity)
	}

	p.logger.WarnContext(ctx, "cache degraded, serving from repository",
		"entity", entity,
		"error", err)
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, actorID int64, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	attrs := map[string]interface{}{
		"event.name":  fmt.Sprintf("%s.%s", entity, event),
		"event.id":    entityID,
		"event.actor": actorID,
	}

	for k, v := range metadata {
		attrs["event.meta."+k] = v
	}

	span.AddEvent(fmt.Sprintf("%s.%s", entity, event), trace.WithAttributes(toOtelAttributes(attrs)...))

	p.logger.InfoContext(ctx, "business event",
		"event", event,
		"entity", entity,
		"entity_id", entityID,
		"actor_id", actorID)
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)

	p.logger.ErrorContext(ctx, "operation error",
		"operation", operation,
		"error", err,
		"metadata", metadata)
}
