package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often elapsed window entries are evicted.
const DefaultSweepInterval = 5 * time.Minute

type entry struct {
	count   int64
	resetAt time.Time
}

// FixedWindowLimiter counts requests per key in fixed windows, entirely
// in process. A burst straddling a window boundary can therefore admit up
// to twice MaxRequests in close succession; that approximation is part of
// the contract, not a defect. Counts are per process: with multiple
// instances each enforces its own limit, which is why multi-instance
// deployments should use RemoteLimiter instead.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	max    int64
	window time.Duration
	now    func() time.Time

	stop chan struct{}
	done chan struct{}
}

// Option configures a FixedWindowLimiter.
type Option func(*FixedWindowLimiter)

// WithClock overrides the time source. Used by tests to advance windows
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindowLimiter) {
		l.now = now
	}
}

// NewFixedWindowLimiter creates an in-process fixed-window limiter and
// starts its background sweep.
func NewFixedWindowLimiter(cfg Config, opts ...Option) *FixedWindowLimiter {
	return NewFixedWindowLimiterWithSweep(cfg, DefaultSweepInterval, opts...)
}

// NewFixedWindowLimiterWithSweep creates a fixed-window limiter sweeping
// elapsed entries every sweepInterval.
func NewFixedWindowLimiterWithSweep(
	cfg Config, sweepInterval time.Duration, opts ...Option,
) *FixedWindowLimiter {
	cfg = cfg.withDefaults()

	l := &FixedWindowLimiter{
		entries: make(map[string]*entry),
		max:     cfg.MaxRequests,
		window:  cfg.Window,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.sweepLoop(sweepInterval)

	return l
}

// Limit admits or denies the request for key. The first request of a
// window (or of a new key) starts a fresh window; a window that has
// elapsed is replaced, never merged.
func (l *FixedWindowLimiter) Limit(_ context.Context, key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !e.resetAt.After(now) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(l.window)}

		return Result{Allowed: true, Remaining: l.max - 1}
	}

	if e.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++

	return Result{Allowed: true, Remaining: l.max - e.count}
}

func (l *FixedWindowLimiter) sweepLoop(interval time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep removes entries whose window had elapsed at observation time.
// Entries still inside their window are left untouched even when the key
// is idle.
func (l *FixedWindowLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if !e.resetAt.After(now) {
			delete(l.entries, key)
		}
	}
}

// Shutdown stops the background sweep.
func (l *FixedWindowLimiter) Shutdown() error {
	close(l.stop)
	<-l.done

	return nil
}
