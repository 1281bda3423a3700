package port

import (
	"context"
	"time"
)

// Span is the backend-agnostic span handed to repositories and services so
// the core never imports an observability SDK directly.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry lets the core emit traces, metrics and business events without
// knowing the implementation. A no-op probe is used in tests.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{})

	RecordCacheHit(ctx context.Context, entity string)
	RecordCacheMiss(ctx context.Context, entity string)
	RecordCacheDegraded(ctx context.Context, entity string, err error)

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, actorID int64, metadata map[string]interface{})

	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
