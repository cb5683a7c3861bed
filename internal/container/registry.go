package container

import (
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

// routeCodes are single-segment paths served by fixed routes (health and the
// API docs), so GET /{code} could never redirect them.
var routeCodes = []shortener.Code{"health", "docs"}

// RegistryPackage provides the short URL registry and its expiry sweeper.
func RegistryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Registry, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		locator := do.MustInvoke[shortener.Locator](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("invalid --code-length: %w", err)
		}

		return shortener.NewRegistry(generator, locator, logger,
			shortener.WithDefaultValidity(opts.DefaultValidity),
			shortener.WithReservedCodes(routeCodes...),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)
		registry := do.MustInvoke[*shortener.Registry](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return shortener.NewSweeper(registry, minutes(opts.SweepInterval), logger.Named("expiry")), nil
	})
}
