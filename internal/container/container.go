// Package container wires the application together with samber/do.
// Each concern registers its providers through a *Package function;
// construction is lazy, so a binary only pays for what it invokes.
package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/acbharath14/linkeshortenerproject/internal/analytics"
	analyticsstore "github.com/acbharath14/linkeshortenerproject/internal/analytics/store"
	"github.com/acbharath14/linkeshortenerproject/internal/api"
	"github.com/acbharath14/linkeshortenerproject/internal/handlers"
	"github.com/acbharath14/linkeshortenerproject/internal/health"
	"github.com/acbharath14/linkeshortenerproject/internal/messaging"
	"github.com/acbharath14/linkeshortenerproject/internal/middleware"
	"github.com/acbharath14/linkeshortenerproject/internal/ratelimit"
	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"github.com/acbharath14/linkeshortenerproject/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options is the process configuration, bound from flags and environment
// by humacli.
type Options struct {
	Port       int    `default:"8888"           help:"Port to listen on"                                        short:"p"`
	BaseURL    string `default:""               help:"Public base URL for short links (defaults to localhost)"`
	CodeLength int    `default:"8"              help:"Length of generated short codes"                          short:"c"`

	RedisAddr   string `default:"localhost:6379" help:"Redis server address" short:"r"`
	PostgresURL string `default:""               help:"PostgreSQL connection string; in-memory store when empty"`
	CacheTTL    int    `default:"300"            help:"Redis read cache TTL in seconds (0 disables caching)"`

	RateLimitMax    int64 `default:"10" help:"Max requests admitted per rate limit window"`
	RateLimitWindow int64 `default:"60" help:"Rate limit window in seconds"`

	CounterURL   string `default:"" help:"Remote counter REST endpoint; with a token, selects the shared-store rate limit strategy"`
	CounterToken string `default:"" help:"Bearer token for the remote counter endpoint"`

	AllowedOrigins string `default:"http://localhost:3000,http://localhost:8888" help:"Comma-separated CORS origin allow-list"`
	AppURL         string `default:""                                            help:"Deployed app origin appended to the CORS allow-list"`

	LogFormat string `default:"console" help:"Log format (console or json)"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

func (o *Options) rateLimitConfig() ratelimit.Config {
	return ratelimit.Config{
		MaxRequests: o.RateLimitMax,
		Window:      time.Duration(o.RateLimitWindow) * time.Second,
	}
}

// allowedOrigins assembles the CORS allow-list: the configured static
// origins plus the deployed app origin. Empty entries are dropped by the
// CORS middleware itself.
func (o *Options) allowedOrigins() []string {
	origins := strings.Split(o.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	if o.AppURL != "" {
		origins = append(origins, o.AppURL)
	}

	return origins
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool. The provider is lazy:
// it only connects when something actually invokes the pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), opts.PostgresURL)
	})
}

// RepositoryPackage provides the short URL repository: PostgreSQL when
// configured, otherwise in-memory, optionally wrapped with the Redis read
// cache.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo shortener.Repository

		if opts.PostgresURL != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			repo = store.NewPostgresStore(pool)
		} else {
			logger.Info("no postgres configured, using in-memory url store")

			repo = store.NewMemoryStore()
		}

		if opts.CacheTTL > 0 {
			client := do.MustInvoke[*redis.Client](i)
			repo = store.NewRedisCacheRepository(repo, client, time.Duration(opts.CacheTTL)*time.Second)
		}

		return repo, nil
	})
}

// RateLimitPackage provides the admission limiter. The strategy is chosen
// once here: a remote counter endpoint plus token selects the shared-store
// strategy; anything less falls back to the in-process fixed window, which
// is the intended degrade path for single-instance and dev deployments.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		cfg := opts.rateLimitConfig()

		if opts.CounterURL != "" && opts.CounterToken != "" {
			logger.Info("rate limiting against remote counter",
				zap.String("endpoint", opts.CounterURL),
				zap.Int64("max", cfg.MaxRequests),
				zap.Duration("window", cfg.Window),
			)

			counter := store.NewRESTCounter(opts.CounterURL, opts.CounterToken)

			return ratelimit.NewRemoteLimiter(counter, cfg, logger), nil
		}

		logger.Info("rate limiting in process",
			zap.Int64("max", cfg.MaxRequests),
			zap.Duration("window", cfg.Window),
		)

		return ratelimit.NewFixedWindowLimiter(cfg), nil
	})
}

// PublisherGroupPackage provides the analytics event stream and the typed
// publish functions handlers depend on.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.EventStream, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewEventStream(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		stream := do.MustInvoke[*messaging.EventStream](i)

		return messaging.NewPublishFunc[analytics.URLCreatedEvent](stream.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		stream := do.MustInvoke[*messaging.EventStream](i)

		return messaging.NewPublishFunc[analytics.URLAccessedEvent](stream.Publisher(), analytics.TopicURLAccessed), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group used by the
// consumer binary: one consumer per topic, all feeding the analytics
// handler.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*redis.Client](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: "analytics",
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}

		var (
			eventStore analytics.Store
			repo       shortener.Repository
		)

		if opts.PostgresURL != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			eventStore = analyticsstore.NewPostgres(pool)
			repo = store.NewPostgresStore(pool)
		} else {
			logger.Info("no postgres configured, analytics events are logged only")

			eventStore = analyticsstore.NewLogging(logger)
		}

		handler := analytics.NewHandler(eventStore, repo, logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLCreated, handler.HandleURLCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLAccessed, handler.HandleURLAccessed, logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router (carrying the CORS boundary) and the
// Huma API with every route registered behind the admission middleware.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)

		router := chi.NewMux()
		router.Use(middleware.CORS(opts.allowedOrigins()))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		limiter := do.MustInvoke[ratelimit.Limiter](i)
		repo := do.MustInvoke[shortener.Repository](i)

		api.UseEnvelopeErrors()

		humaAPI := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		humaAPI.UseMiddleware(
			middleware.RequestMeta(humaAPI),
			middleware.RateLimiter(humaAPI, limiter),
		)

		codeGenerator, err := nanoid.Standard(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		strategies := map[handlers.Strategy]shortener.Strategy{
			handlers.StrategyToken: shortener.NewTokenStrategy(repo, codeGenerator),
			handlers.StrategyHash:  shortener.NewHashStrategy(repo, codeGenerator),
		}

		urlHandler := handlers.NewURLHandler(
			repo,
			opts.baseURL(),
			strategies,
			do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.URLAccessedEvent]](i),
			logger,
		)

		checks := map[string]health.Checker{
			"redis": health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
		}

		if opts.PostgresURL != "" {
			checks["postgres"] = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		handlers.RegisterRoutes(humaAPI, urlHandler, health.NewHandler(checks))

		return humaAPI, nil
	})
}
