package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"shopcatalog/internal/adapter/cache/memory"
	rediscache "shopcatalog/internal/adapter/cache/redis"
	"shopcatalog/internal/adapter/database/postgres"
	postgresrepo "shopcatalog/internal/adapter/database/postgres/repository"
	"shopcatalog/internal/adapter/database/sqlite"
	sqliterepo "shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/adapter/http/routes"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/service"
	"shopcatalog/internal/core/telemetry"
	"shopcatalog/pkg"
	"shopcatalog/pkg/config"
)

func StartServer(metrics *telemetry.AppMetrics, logger *config.AppLogger) {
	StartServerWithConfig(metrics, logger, config.GetDefaultConfig())
}

func StartServerWithConfig(metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) {
	probe := telemetry.NewOTELProbe(slog.Default(), metrics)

	repos, closeDB, err := buildRepositories(probe)

	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	defer closeDB()

	cache := buildCache(cfg)

	ttls := service.CacheTTLs{
		Entity: cfg.CacheTTLEntity,
		List:   cfg.CacheTTLList,
	}

	container := NewContainer(repos, cache, ttls, probe, logger)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:     container.AuthHandler,
		ProductHandler:  container.ProductHandler,
		CategoryHandler: container.CategoryHandler,
		OrderHandler:    container.OrderHandler,
	}, metrics, logger, cfg)

	port := pkg.GetServerPort()

	slog.Info("Server starting",
		"port", port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}

// buildRepositories picks postgres when DATABASE_URL is set and falls back
// to the embedded sqlite database otherwise.
func buildRepositories(probe port.Telemetry) (Repositories, func(), error) {
	if os.Getenv("DATABASE_URL") != "" {
		db, err := postgres.NewDB(context.Background())
		if err != nil {
			return Repositories{}, nil, err
		}

		return Repositories{
			Users:      postgresrepo.NewUserRepository(db),
			Products:   postgresrepo.NewProductRepository(db),
			Categories: postgresrepo.NewCategoryRepository(db),
			Orders:     postgresrepo.NewOrderRepository(db),
		}, func() { db.Close() }, nil
	}

	db, err := sqlite.NewDB()
	if err != nil {
		return Repositories{}, nil, err
	}

	return Repositories{
		Users:      sqliterepo.NewUserRepository(db),
		Products:   sqliterepo.NewProductRepository(db, probe),
		Categories: sqliterepo.NewCategoryRepository(db, probe),
		Orders:     sqliterepo.NewOrderRepository(db, probe),
	}, func() { db.Close() }, nil
}

// buildCache prefers redis and degrades to the in-process cache when the
// backend does not answer a ping. Services survive either way.
func buildCache(cfg *config.AppConfig) port.Cache {
	redisCache := rediscache.New(rediscache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Prefix:   "shopcatalog:",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := redisCache.Ping(ctx); err != nil {
		slog.Warn("Redis unavailable, using in-process cache", "error", err)
		return memory.New()
	}

	return redisCache
}
