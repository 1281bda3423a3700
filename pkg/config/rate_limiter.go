package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"shopcatalog/internal/core/telemetry"
	"shopcatalog/pkg"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	configs := map[string]RateLimitEndpointConfig{
		"POST /signup": {
			Requests: 5,
			Window:   time.Minute,
			KeyFunc:  pkg.GetClientIP,
		},
		"POST /auth": {
			Requests: 10,
			Window:   time.Minute,
			KeyFunc:  pkg.GetClientIP,
		},
		"GET /products": {
			Requests: 100,
			Window:   time.Minute,
			KeyFunc:  getUserID,
		},
		"POST /products": {
			Requests: 20,
			Window:   time.Minute,
			KeyFunc:  getUserID,
		},
		"PUT /products/:id": {
			Requests: 20,
			Window:   time.Minute,
			KeyFunc:  getUserID,
		},
		"DELETE /products/:id": {
			Requests: 10,
			Window:   time.Minute,
			KeyFunc:  getUserID,
		},
		"POST /orders": {
			Requests: 20,
			Window:   time.Minute,
			KeyFunc:  getUserID,
		},
		"default": {
			Requests: 60,
			Window:   time.Minute,
			KeyFunc:  pkg.GetClientIP,
		},
	}

	return &RateLimiter{
		cache:   c,
		config:  configs,
		logger:  logger,
		metrics: metrics,
		mutex:   sync.RWMutex{},
	}
}

// NewRateLimiterWithConfig overlays the AppConfig budgets on the defaults.
// Config entries are path keyed and client-IP scoped; method-specific
// defaults still win on lookup.
func NewRateLimiterWithConfig(logger *zap.Logger, metrics *telemetry.AppMetrics, cfg *AppConfig) *RateLimiter {
	rl := NewRateLimiter(logger, metrics)

	for path, limit := range cfg.RateLimitConfigs {
		rl.SetConfig(path, RateLimitEndpointConfig{
			Requests: limit.Requests,
			Window:   limit.Window,
			KeyFunc:  pkg.GetClientIP,
		})
	}

	return rl
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		config, exists := rl.config[methodPath]
		if !exists {
			config, exists = rl.config[path]
			if !exists {
				config = rl.config["default"]
			}
		}

		key := rl.generateKey(c, methodPath, config.KeyFunc)

		allowed, remaining, resetTime, err := rl.checkRateLimit(key, config)
		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		keyType := "ip"
		if strings.Contains(key, "user_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time, error) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.After(rateLimitEntry.ResetTime) {
			resetTime := now.Add(config.Window)
			newEntry := RateLimitEntry{
				Count:     1,
				ResetTime: resetTime,
			}
			rl.cache.Set(key, newEntry, config.Window)
			return true, config.Requests - 1, resetTime, nil
		}

		if rateLimitEntry.Count >= config.Requests {
			return false, 0, rateLimitEntry.ResetTime, nil
		}

		rateLimitEntry.Count++
		rl.cache.Set(key, rateLimitEntry, cache.DefaultExpiration)

		return true, config.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime, nil
	}

	resetTime := now.Add(config.Window)
	newEntry := RateLimitEntry{
		Count:     1,
		ResetTime: resetTime,
	}
	rl.cache.Set(key, newEntry, config.Window)

	return true, config.Requests - 1, resetTime, nil
}

func (rl *RateLimiter) generateKey(c *gin.Context, methodPath string, keyFunc func(*gin.Context) string) string {
	return methodPath + ":" + keyFunc(c)
}

func (rl *RateLimiter) SetConfig(endpoint string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[endpoint] = config
}

func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]interface{}{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}

func getUserID(c *gin.Context) string {
	if userID, exists := c.Get("x-user-id"); exists {
		if id, ok := userID.(int64); ok {
			return fmt.Sprintf("user_%d", id)
		}
	}

	return pkg.GetClientIP(c)
}
