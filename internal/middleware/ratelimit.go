package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/acbharath14/linkeshortenerproject/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
)

// RateLimiter returns a Huma middleware that runs every request through the
// admission limiter before any handler work. Denials are written as a 429
// envelope; the limiter itself never fails, so there is no error branch.
func RateLimiter(api huma.API, limiter ratelimit.Limiter) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if rateLimitDisabled(ctx) {
			next(ctx)

			return
		}

		res := limiter.Limit(ctx.Context(), clientKey(ctx))
		if !res.Allowed {
			ctx.SetHeader("X-RateLimit-Remaining", "0")

			if !res.ResetAt.IsZero() {
				ctx.SetHeader("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

		next(ctx)
	}
}

// rateLimitDisabled checks operation metadata for an admission opt-out.
func rateLimitDisabled(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)

	return ok && cfg.Disabled
}

// clientKey buckets the request for rate limiting: first entry of
// X-Forwarded-For, else X-Real-IP, else the peer address of the
// connection, else a loopback placeholder. The Host header never
// participates; it is client-controlled and would let a direct caller
// mint a fresh counter per request. Whatever comes out is used as-is;
// an odd or empty value just establishes its own counter.
func clientKey(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if ip, _, err := net.SplitHostPort(addr); err == nil {
		return ip
	}

	if addr != "" {
		return addr
	}

	return "127.0.0.1"
}
