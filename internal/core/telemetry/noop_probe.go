package telemetry

import (
	"context"
	"time"

	"shopcatalog/internal/core/port"
)

// NoOpProbe implements Telemetry with no operations - used in tests and when
// telemetry is disabled.
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

type NoOpSpan struct{}

func (s *NoOpSpan) End()                                       {}
func (s *NoOpSpan) SetAttributes(attrs map[string]interface{}) {}
func (s *NoOpSpan) SetStatus(code string, message string)      {}
func (s *NoOpSpan) RecordError(err error)                      {}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
}

func (p *NoOpProbe) RecordCacheHit(ctx context.Context, entity string) {}

func (p *NoOpProbe) RecordCacheMiss(ctx context.Context, entity string) {}

func (p *NoOpProbe) RecordCacheDegraded(ctx context.Context, entity string, err error) {}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, actorID int64, metadata map[string]interface{}) {
}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
}
