package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/container"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// serverPackages is everything the HTTP binary needs; the consumer binary
// registers its own, smaller set.
var serverPackages = []func(*do.Injector){
	container.LoggerPackage,
	container.RedisPackage,
	container.PostgresPackage,
	container.RepositoryPackage,
	container.RateLimitPackage,
	container.PublisherGroupPackage,
	container.HTTPPackage,
}

func buildInjector(options *container.Options) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, options)

	for _, pkg := range serverPackages {
		pkg(injector)
	}

	return injector
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := buildInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		// Invoking the API registers every route on the router.
		router := do.MustInvoke[*chi.Mux](injector)
		_ = do.MustInvoke[huma.API](injector)

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", options.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		hooks.OnStart(func() {
			logger.Info("short url service listening",
				zap.String("addr", server.Addr),
				zap.String("docs", fmt.Sprintf("http://localhost:%d/docs", options.Port)),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Run()
}
