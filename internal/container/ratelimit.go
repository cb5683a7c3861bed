package container

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/ratelimit"
	"github.com/serroba/linkstats/internal/shortener"
	"github.com/serroba/linkstats/internal/store"
	"go.uber.org/zap"
)

// RateLimitSweeperName names the sweeper that drops idle in-memory rate limit keys.
const RateLimitSweeperName = "ratelimit-sweeper"

func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.RateLimitMemoryStore, error) {
		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.RateLimitStore {
		case "memory", "":
			return do.MustInvoke[*store.RateLimitMemoryStore](i), nil
		case "redis":
			return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
		default:
			return nil, fmt.Errorf("unknown rate limit store %q", opts.RateLimitStore)
		}
	})

	do.ProvideNamed(i, RateLimitSweeperName, func(i *do.Injector) (*shortener.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		memory := do.MustInvoke[*store.RateLimitMemoryStore](i)

		return shortener.NewSweeper(memory, minutes(opts.RateLimitWindow), logger.Named("ratelimit")), nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		policy := ratelimit.ServicePolicy(int64(opts.RateLimitMax), minutes(opts.RateLimitWindow))
		if err := policy.Validate(); err != nil {
			return nil, fmt.Errorf("rate limit policy: %w", err)
		}

		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), policy), nil
	})

	do.Provide(i, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewRouteScopeResolver(), nil
	})
}
