package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// counterKeyPrefix namespaces limiter keys in the shared store.
const counterKeyPrefix = "rate_limit:"

// Counter is the shared-store primitive the remote strategy counts with.
// Incr must be atomic under concurrent callers from any process; that
// atomicity is what makes the limit global across instances.
type Counter interface {
	// Incr increments the counter at key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets a time-to-live on key. Best effort.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RemoteLimiter enforces a fixed window against a shared remote counter,
// so the limit holds across all instances of the service.
//
// It fails open: if the counter is unreachable the request is admitted
// with a full window reported, and the failure is only logged.
type RemoteLimiter struct {
	counter Counter
	max     int64
	window  time.Duration
	logger  *zap.Logger
}

// NewRemoteLimiter creates a limiter backed by a shared counter.
func NewRemoteLimiter(counter Counter, cfg Config, logger *zap.Logger) *RemoteLimiter {
	cfg = cfg.withDefaults()

	return &RemoteLimiter{
		counter: counter,
		max:     cfg.MaxRequests,
		window:  cfg.Window,
		logger:  logger,
	}
}

// Limit increments the shared counter for key and admits the request while
// the count stays within the window budget. Denials carry no ResetAt: the
// store does not report the remaining TTL on this path.
func (l *RemoteLimiter) Limit(ctx context.Context, key string) Result {
	counterKey := counterKeyPrefix + key

	count, err := l.counter.Incr(ctx, counterKey)
	if err != nil {
		l.logger.Warn("rate limit counter unavailable, failing open",
			zap.String("key", key),
			zap.Error(err),
		)

		return Result{Allowed: true, Remaining: l.max}
	}

	if count == 1 {
		// First hit on a fresh key arms the window expiry. If this fails the
		// key may never expire and the limit turns permanently denying for
		// this key, which is accepted over failing the request.
		if err := l.counter.Expire(ctx, counterKey, l.window); err != nil {
			l.logger.Warn("failed to arm rate limit window expiry",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	if count > l.max {
		return Result{Allowed: false, Remaining: 0}
	}

	return Result{Allowed: true, Remaining: l.max - count}
}
