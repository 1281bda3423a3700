package config

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger wraps zap with otelzap so every log line written through
// Ctx carries the trace and span ids of the active request.
type AppLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
}

func NewAppLogger(serviceName string) (*AppLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &AppLogger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
	}, nil
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *AppLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, append(fields, zap.String("service", l.ServiceName))...)
}

func (l *AppLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, append(fields, zap.String("service", l.ServiceName))...)
}

func LogError(ctx context.Context, logger *AppLogger, err error, msg string, fields ...zap.Field) {
	logger.ErrorWithTrace(ctx, msg, append(fields, zap.Error(err))...)
}

func LogInfo(ctx context.Context, logger *AppLogger, msg string, fields ...zap.Field) {
	logger.InfoWithTrace(ctx, msg, fields...)
}
