package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/container"
	"github.com/serroba/linkstats/internal/messaging"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.GeoPackage(injector)
	container.RegistryPackage(injector)
	container.RateLimitPackage(injector)
	container.EventBusPackage(injector)
	container.PublisherGroupPackage(injector)
	container.ConsumerGroupPackage(injector)
	container.HTTPPackage(injector)
}

// startBackground launches the sweepers and, with the memory event backend,
// the analytics consumers that would otherwise run in cmd/consumer.
func startBackground(ctx context.Context, injector *do.Injector, options *container.Options) error {
	if err := do.MustInvoke[*shortener.Sweeper](injector).Start(ctx); err != nil {
		return err
	}

	if options.RateLimitStore == "memory" {
		sweeper := do.MustInvokeNamed[*shortener.Sweeper](injector, container.RateLimitSweeperName)
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
	}

	if options.Events == string(messaging.BackendMemory) {
		group, err := do.Invoke[*messaging.ConsumerGroup](injector)
		if err != nil {
			return err
		}

		return group.Start(ctx)
	}

	return nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			if err := startBackground(context.Background(), injector, options); err != nil {
				logger.Fatal("background workers failed to start", zap.Error(err))
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("baseUrl", options.ShortLinkBase()),
				zap.String("events", options.Events),
				zap.String("rateLimitStore", options.RateLimitStore),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
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
