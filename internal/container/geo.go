package container

import (
	"time"

	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/geo"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

// GeoPackage provides the click locator: a cached, time-bounded MaxMind
// lookup when a database is configured, Noop otherwise.
func GeoPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*geo.MaxMind, error) {
		return geo.OpenMaxMind(do.MustInvoke[*Options](i).GeoIPPath)
	})

	do.Provide(i, func(i *do.Injector) (*geo.Cached, error) {
		opts := do.MustInvoke[*Options](i)

		return geo.NewCached(do.MustInvoke[*geo.MaxMind](i), int64(opts.GeoCacheSize), geo.DefaultCacheTTL)
	})

	do.Provide(i, func(i *do.Injector) (shortener.Locator, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.GeoIPPath == "" {
			logger.Info("geolocation disabled")

			return geo.Noop{}, nil
		}

		cached, err := do.Invoke[*geo.Cached](i)
		if err != nil {
			return nil, err
		}

		logger.Info("geolocation enabled", zap.String("database", opts.GeoIPPath))

		return geo.NewBounded(cached, time.Duration(opts.GeoTimeout)*time.Millisecond, logger.Named("geo")), nil
	})
}
