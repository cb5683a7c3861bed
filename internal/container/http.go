package container

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/analytics"
	"github.com/serroba/linkstats/internal/handlers"
	"github.com/serroba/linkstats/internal/health"
	"github.com/serroba/linkstats/internal/messaging"
	"github.com/serroba/linkstats/internal/middleware"
	"github.com/serroba/linkstats/internal/ratelimit"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

const corsMaxAge = 300

func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(
			middleware.SecurityHeaders(),
			cors.Handler(cors.Options{
				AllowedOrigins:   opts.Origins(),
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				ExposedHeaders:   []string{"Location", "Retry-After"},
				AllowCredentials: true,
				MaxAge:           corsMaxAge,
			}),
		)
		router.NotFound(handlers.NotFound(logger.Named("http")))
		router.MethodNotAllowed(handlers.MethodNotAllowed)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		registry := do.MustInvoke[*shortener.Registry](i)
		limiter := do.MustInvoke[*ratelimit.PolicyLimiter](i)
		resolver := do.MustInvoke[ratelimit.ScopeResolver](i)
		publisher := do.MustInvoke[*messaging.PublisherGroup](i).Publisher()

		handlers.UseErrorEnvelope()

		api := humachi.New(router, huma.DefaultConfig("Link Stats", "1.0.0"))
		api.UseMiddleware(
			middleware.AccessLog(logger.Named("http")),
			middleware.RequestMeta(api),
			middleware.PolicyRateLimiter(api, limiter, resolver, logger),
		)

		urlHandler := handlers.NewURLHandler(
			registry,
			opts.ShortLinkBase(),
			messaging.NewPublishFunc[analytics.URLCreatedEvent](publisher, analytics.TopicURLCreated),
			messaging.NewPublishFunc[analytics.URLAccessedEvent](publisher, analytics.TopicURLAccessed),
			logger,
		)
		handlers.RegisterRoutes(api, urlHandler)

		var checker health.Checker
		if opts.UsesRedis() {
			checker = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
		}

		health.RegisterRoutes(api, health.NewHandler(registry, checker))

		return api, nil
	})
}
