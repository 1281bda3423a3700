package middlewares

import (
	"strconv"
	"time"

	"shopcatalog/internal/core/telemetry"
	"shopcatalog/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections()
		defer metrics.DecrementActiveConnections()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordHTTPRequest(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, logger *config.AppLogger) {
	SetupGinMiddlewareWithConfig(router, serviceName, metrics, logger, config.GetDefaultConfig())
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) {
	httpsEnforcer := config.NewHTTPSEnforcer(logger.Logger.Logger)
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))

	router.Use(LoggingMiddleware(logger))

	if cfg.RateLimitEnabled {
		rateLimiter := config.NewRateLimiterWithConfig(logger.Logger.Logger, metrics, cfg)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.Use(MetricsMiddleware(metrics))
}
