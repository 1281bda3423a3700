package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"shopcatalog/internal/core/port"
)

// CacheTTLs carries the staleness bounds for the cache-aside services.
// Lists churn on every mutation, so they get the shorter window.
type CacheTTLs struct {
	Entity time.Duration
	List   time.Duration
}

func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Entity: 5 * time.Minute,
		List:   30 * time.Second,
	}
}

func entityKey(entity string, id int64) string {
	return fmt.Sprintf("%s:%d", entity, id)
}

// listKey hashes the filter so every distinct filter gets its own entry
// while all of them stay under one invalidation pattern.
func listKey(entity string, filter any) string {
	data, _ := json.Marshal(filter)
	hash := md5.Sum(data)

	return fmt.Sprintf("%s:list:%x", entity, hash)
}

func listPattern(entity string) string {
	return entity + ":list:*"
}

// fetchThrough implements the read-through path: serve from cache when
// possible, otherwise fill from the repository and populate. Any cache
// failure degrades to a direct repository call; it never fails the read.
func fetchThrough[T any](ctx context.Context, cache port.Cache, probe port.Telemetry, entity, key string, ttl time.Duration, fill func(context.Context) (T, error)) (T, error) {
	var cached T

	found, err := cache.Get(ctx, key, &cached)

	if err != nil {
		probe.RecordCacheDegraded(ctx, entity, err)
		return fill(ctx)
	}

	if found {
		probe.RecordCacheHit(ctx, entity)
		return cached, nil
	}

	probe.RecordCacheMiss(ctx, entity)

	value, err := fill(ctx)

	if err != nil {
		return value, err
	}

	if err := cache.Set(ctx, key, value, ttl); err != nil {
		probe.RecordCacheDegraded(ctx, entity, err)
	}

	return value, nil
}

// invalidate drops the single-entity entry and every list entry for the
// entity type. It runs only after the repository mutation has committed.
// List invalidation is deliberately coarse: correctness over precision.
func invalidate(ctx context.Context, cache port.Cache, probe port.Telemetry, entity string, id int64) {
	if err := cache.Delete(ctx, entityKey(entity, id)); err != nil {
		probe.RecordCacheDegraded(ctx, entity, err)
	}

	if err := cache.DeletePattern(ctx, listPattern(entity)); err != nil {
		probe.RecordCacheDegraded(ctx, entity, err)
	}
}
