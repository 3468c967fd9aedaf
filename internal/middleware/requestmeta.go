package middleware

import (
	"github.com/acbharath14/linkeshortenerproject/internal/handlers"
	"github.com/danielgtaylor/huma/v2"
)

// RequestMeta stamps the client address, user agent, and referrer into the
// request context so handlers can attach them to analytics events. The
// client address comes from the same chain the admission middleware keys
// on, so an event's clientIp always names the rate-limit bucket that
// admitted it.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientKey(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}
