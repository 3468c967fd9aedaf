package handlers

import (
	"net/http"

	"github.com/acbharath14/linkeshortenerproject/internal/health"
	"github.com/acbharath14/linkeshortenerproject/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, healthHandler *health.Handler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Description:   "Creates a shortened URL using the specified strategy (token or hash).",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"URLs"},
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-url-stats",
		Method:      http.MethodGet,
		Path:        "/urls/{code}/stats",
		Summary:     "Short URL statistics",
		Description: "Returns click count and metadata for a short URL.",
		Tags:        []string{"URLs"},
	}, urlHandler.GetURLStats)

	huma.Register(api, huma.Operation{
		OperationID: "delete-short-url",
		Method:      http.MethodDelete,
		Path:        "/urls/{code}",
		Summary:     "Delete short URL",
		Description: "Soft-deletes a short URL; the code stops resolving but the record is kept.",
		Tags:        []string{"URLs"},
	}, urlHandler.DeleteURL)

	// Health probes are exempt from admission control so orchestrators are
	// never throttled out.
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, healthHandler.Check)
}
