package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, max int64, window time.Duration) (*ratelimit.FixedWindowLimiter, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	limiter := ratelimit.NewFixedWindowLimiter(
		ratelimit.Config{MaxRequests: max, Window: window},
		ratelimit.WithClock(clock.Now),
	)
	t.Cleanup(func() { _ = limiter.Shutdown() })

	return limiter, clock
}

func TestFixedWindowLimiter(t *testing.T) {
	t.Run("allows up to max with decreasing remaining", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)

		for i := int64(1); i <= 5; i++ {
			res := limiter.Limit(context.Background(), "client1")

			assert.True(t, res.Allowed, "call %d should be allowed", i)
			assert.Equal(t, 5-i, res.Remaining)
			assert.True(t, res.ResetAt.IsZero(), "allowed results carry no reset time")
		}
	})

	t.Run("denies once max is reached", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 3, time.Minute)

		for range 3 {
			res := limiter.Limit(context.Background(), "client1")
			require.True(t, res.Allowed)
		}

		res := limiter.Limit(context.Background(), "client1")

		assert.False(t, res.Allowed)
		assert.Equal(t, int64(0), res.Remaining)
		assert.Equal(t, clock.Now().Add(time.Minute), res.ResetAt,
			"denial should report when the window resets")
	})

	t.Run("resets after the window elapses", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 2, time.Minute)

		for range 2 {
			limiter.Limit(context.Background(), "client1")
		}

		res := limiter.Limit(context.Background(), "client1")
		require.False(t, res.Allowed)

		clock.Advance(time.Minute)

		res = limiter.Limit(context.Background(), "client1")

		assert.True(t, res.Allowed, "counter should reset, not carry over")
		assert.Equal(t, int64(1), res.Remaining)
	})

	t.Run("tracks identifiers independently", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)

		for range 2 {
			res := limiter.Limit(context.Background(), "client1")
			assert.True(t, res.Allowed)
		}

		res := limiter.Limit(context.Background(), "client1")
		assert.False(t, res.Allowed, "client1 should be rate limited")

		res = limiter.Limit(context.Background(), "client2")

		assert.True(t, res.Allowed, "client2 should still be allowed")
		assert.Equal(t, int64(1), res.Remaining)
	})

	t.Run("worked example max 2", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 2, time.Minute)

		res1 := limiter.Limit(context.Background(), "A")
		res2 := limiter.Limit(context.Background(), "A")
		res3 := limiter.Limit(context.Background(), "A")

		assert.Equal(t, ratelimit.Result{Allowed: true, Remaining: 1}, res1)
		assert.Equal(t, ratelimit.Result{Allowed: true, Remaining: 0}, res2)
		assert.False(t, res3.Allowed)
		assert.Equal(t, int64(0), res3.Remaining)
	})

	t.Run("empty identifier is a valid bucket", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)

		res := limiter.Limit(context.Background(), "")
		assert.True(t, res.Allowed)

		res = limiter.Limit(context.Background(), "")
		assert.False(t, res.Allowed, "empty key counts like any other")
	})

	t.Run("applies defaults for zero config", func(t *testing.T) {
		clock := newFakeClock()
		limiter := ratelimit.NewFixedWindowLimiter(ratelimit.Config{}, ratelimit.WithClock(clock.Now))
		t.Cleanup(func() { _ = limiter.Shutdown() })

		res := limiter.Limit(context.Background(), "client1")

		assert.True(t, res.Allowed)
		assert.Equal(t, int64(ratelimit.DefaultMaxRequests-1), res.Remaining)
	})
}

func TestFixedWindowLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, time.Minute)

	const calls = 10

	results := make(chan ratelimit.Result, calls)

	var wg sync.WaitGroup

	for range calls {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results <- limiter.Limit(context.Background(), "client1")
		}()
	}

	wg.Wait()
	close(results)

	var allowed, denied int

	remaining := make(map[int64]bool)

	for res := range results {
		if res.Allowed {
			allowed++
			remaining[res.Remaining] = true
		} else {
			denied++

			assert.Equal(t, int64(0), res.Remaining)
		}
	}

	assert.Equal(t, 5, allowed, "exactly max requests admitted")
	assert.Equal(t, 5, denied)

	// The admitted calls see each intermediate count exactly once.
	for want := int64(0); want < 5; want++ {
		assert.True(t, remaining[want], "remaining=%d should appear among allowed results", want)
	}
}

func TestFixedWindowLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	limiter := ratelimit.NewFixedWindowLimiterWithSweep(
		ratelimit.Config{MaxRequests: 1, Window: time.Minute},
		10*time.Millisecond,
		ratelimit.WithClock(clock.Now),
	)
	t.Cleanup(func() { _ = limiter.Shutdown() })

	res := limiter.Limit(context.Background(), "client1")
	require.True(t, res.Allowed)

	res = limiter.Limit(context.Background(), "client1")
	require.False(t, res.Allowed)

	clock.Advance(2 * time.Minute)

	// Give the sweep a few ticks to observe the elapsed entry. The limiter
	// must stay correct either way; this only checks eviction doesn't wedge
	// counting.
	time.Sleep(50 * time.Millisecond)

	res = limiter.Limit(context.Background(), "client1")
	assert.True(t, res.Allowed, "swept key should start a fresh window")
}
