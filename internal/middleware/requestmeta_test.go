package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acbharath14/linkeshortenerproject/internal/handlers"
	"github.com/acbharath14/linkeshortenerproject/internal/middleware"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metaOutput struct {
	Body string `json:"body"`
}

// serveWithMeta runs one request through a real chi+humachi stack and
// returns the metadata the handler observed in its context.
func serveWithMeta(t *testing.T, configure func(*http.Request)) handlers.RequestMeta {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/meta", func(ctx context.Context, _ *struct{}) (*metaOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &metaOutput{Body: "ok"}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/meta", nil)
	configure(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	select {
	case meta := <-metaChan:
		return meta
	default:
		t.Fatal("handler was not reached")

		return handlers.RequestMeta{}
	}
}

func TestRequestMeta(t *testing.T) {
	t.Run("captures user agent and referrer", func(t *testing.T) {
		meta := serveWithMeta(t, func(req *http.Request) {
			req.Header.Set("User-Agent", "TestAgent/1.0")
			req.Header.Set("Referer", "https://referrer.example")
		})

		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://referrer.example", meta.Referrer)
	})

	t.Run("first X-Forwarded-For entry becomes the client ip", func(t *testing.T) {
		meta := serveWithMeta(t, func(req *http.Request) {
			req.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18")
		})

		assert.Equal(t, "203.0.113.195", meta.ClientIP)
	})

	t.Run("X-Real-IP is used when no forwarded header is present", func(t *testing.T) {
		meta := serveWithMeta(t, func(req *http.Request) {
			req.Header.Set("X-Real-IP", "198.51.100.7")
		})

		assert.Equal(t, "198.51.100.7", meta.ClientIP)
	})

	t.Run("falls back to the peer address", func(t *testing.T) {
		// httptest requests carry RemoteAddr 192.0.2.1:1234.
		meta := serveWithMeta(t, func(_ *http.Request) {})

		assert.Equal(t, "192.0.2.1", meta.ClientIP)
	})

	t.Run("the host header does not leak into the client ip", func(t *testing.T) {
		meta := serveWithMeta(t, func(req *http.Request) {
			req.Host = "tenant-1.example.com"
		})

		assert.Equal(t, "192.0.2.1", meta.ClientIP)
	})

	t.Run("absent headers leave empty fields", func(t *testing.T) {
		meta := serveWithMeta(t, func(req *http.Request) {
			req.Header.Del("User-Agent")
		})

		assert.Empty(t, meta.UserAgent)
		assert.Empty(t, meta.Referrer)
	})
}
