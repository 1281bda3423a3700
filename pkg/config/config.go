package config

import (
	"os"
	"time"
)

type AppConfig struct {
	Environment string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool

	// TTLs for the catalog read-through cache. Entity entries may outlive
	// list entries, which go stale faster under concurrent writers.
	CacheTTLEntity time.Duration
	CacheTTLList   time.Duration

	RedisAddr     string
	RedisPassword string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      getEnv("APP_ENV", "development"),
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"/auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/products": {
				Requests: 100,
				Window:   time.Minute,
			},
			"/orders": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS:   os.Getenv("ENFORCE_HTTPS") == "true",
		CacheTTLEntity: getDurationEnv("CACHE_TTL_ENTITY", 5*time.Minute),
		CacheTTLList:   getDurationEnv("CACHE_TTL_LIST", 30*time.Second),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return parsed
}
