package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"shopcatalog/internal/core/port"
)

// Cache is an in-process port.Cache used when redis is not configured and
// in tests. Values round-trip through JSON so behavior matches the redis
// backend.
type Cache struct {
	cache *gocache.Cache
}

func New() *Cache {
	return &Cache{
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, found := c.cache.Get(key)

	if !found {
		return false, nil
	}

	data, ok := value.([]byte)

	if !ok {
		return false, fmt.Errorf("unexpected cache value type %T", value)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)

	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	c.cache.Set(key, data, ttl)

	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}

	return nil
}

// DeletePattern supports the trailing-star globs the services emit
// ("product:list:*"); anything before the star is a literal prefix.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return nil
}

func (c *Cache) Flush() {
	c.cache.Flush()
}

var _ port.Cache = (*Cache)(nil)
