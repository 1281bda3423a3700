package port

import (
	"context"
	"time"
)

// Cache is the narrow key-value surface the cache-aside layer consumes.
// Implementations marshal values to JSON. Get returns (false, nil) on a
// plain miss; a transport failure is reported as an error so callers can
// degrade to the repository.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}
