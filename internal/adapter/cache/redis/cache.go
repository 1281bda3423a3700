package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
)

// Cache implements port.Cache over a redis backend. Values are stored as
// JSON under a common key prefix so several applications can share one
// redis instance.
type Cache struct {
	client *redis.Client
	prefix string
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func DefaultConfig() Config {
	return Config{
		Addr:   "localhost:6379",
		Prefix: "shopcatalog:",
	}
}

func New(config Config) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &Cache{
		client: client,
		prefix: config.Prefix,
	}
}

// NewWithClient is used by tests that bring their own client.
func NewWithClient(client *redis.Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()

	if err == redis.Nil {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
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

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, 0, len(keys))

	for _, key := range keys {
		fullKeys = append(fullKeys, c.prefix+key)
	}

	if err := c.client.Del(ctx, fullKeys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

// DeletePattern removes every key matching pattern using incremental SCAN
// so large keyspaces are not blocked.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	fullPattern := c.prefix + pattern

	var cursor uint64

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, fullPattern, 100).Result()

		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
			}
		}

		cursor = nextCursor

		if cursor == 0 {
			break
		}
	}

	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

var _ port.Cache = (*Cache)(nil)
