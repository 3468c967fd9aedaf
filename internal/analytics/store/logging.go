package store

import (
	"context"

	"github.com/acbharath14/linkeshortenerproject/internal/analytics"
	"go.uber.org/zap"
)

// Logging is the analytics.Store used when no database is configured:
// events are written to the log and nothing else. It keeps the consumer
// binary runnable in dev setups where the log is the analytics sink.
type Logging struct {
	logger *zap.Logger
}

// NewLogging creates a log-only analytics store.
func NewLogging(logger *zap.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	l.logger.Info("url created",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("urlHash", event.URLHash),
		zap.String("strategy", event.Strategy),
		zap.String("clientIp", event.ClientIP),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (l *Logging) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	l.logger.Info("url accessed",
		zap.String("code", event.Code),
		zap.String("clientIp", event.ClientIP),
		zap.String("referrer", event.Referrer),
		zap.Time("accessedAt", event.AccessedAt),
	)

	return nil
}
