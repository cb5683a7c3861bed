package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	analyticsstore "github.com/serroba/linkstats/internal/analytics/store"
)

const connectTimeout = 10 * time.Second

// PostgresPackage provides the analytics archive and applies its schema.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*analyticsstore.Postgres, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		archive := analyticsstore.NewPostgres(pool)
		if err := archive.Migrate(ctx); err != nil {
			pool.Close()

			return nil, err
		}

		return archive, nil
	})
}
