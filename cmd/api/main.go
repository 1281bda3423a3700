package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "shopcatalog/internal/adapter/http"
	"shopcatalog/internal/adapter/telemetry"
	"shopcatalog/pkg/config"
)

func main() {
	ctx := context.Background()

	logger, err := config.NewAppLogger("shopcatalog")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")

	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	telemetryContainer, err := telemetry.NewContainer(telemetry.Config{
		ServiceName:    "shopcatalog",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",
		OTLPEndpoint:   otlpEndpoint,
	}, slog.Default())

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetryContainer.Shutdown(ctx)

	metrics := telemetryContainer.AppMetrics
	metrics.StartSystemMetrics(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		cfg := config.GetDefaultConfig()

		if os.Getenv("GIN_MODE") == "release" {
			cfg.Environment = "production"
			cfg.EnforceHTTPS = true
		}

		httpadapter.StartServerWithConfig(metrics, logger, cfg)
	}()

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}
