package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single admission check.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Remaining is the number of requests left in the current window.
	Remaining int64
	// ResetAt is when the current window ends. It is the zero time when the
	// backing strategy cannot report it (the remote counter does not).
	ResetAt time.Time
}

// Limiter decides whether a request identified by key is admitted.
//
// Limit never fails: every internal error resolves to a well-formed Result.
// Strategies that depend on external storage fail open (allow the request)
// rather than block traffic.
type Limiter interface {
	Limit(ctx context.Context, key string) Result
}

// Config holds the counting parameters shared by both limiter strategies.
type Config struct {
	// MaxRequests is the number of requests admitted per window.
	MaxRequests int64
	// Window is the fixed time span over which requests are counted.
	Window time.Duration
}

// Defaults applied when a Config field is unset.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = 60 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}

	if c.Window <= 0 {
		c.Window = DefaultWindow
	}

	return c
}

// MetadataKey is the key used to store admission config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig is per-endpoint admission configuration, attached to Huma
// operations via the Metadata field.
type EndpointConfig struct {
	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}
