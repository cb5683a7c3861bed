package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkstats/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a huma middleware that applies policy-based rate limiting.
//
// Every request counts against the global scope plus the scope the resolver
// picks for it. An operation whose metadata carries
// ratelimit.EndpointConfig{Disabled: true} under ratelimit.MetadataKey is not
// limited at all.
//
// Rejected requests get a 429 with a Retry-After header.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		path := operationPath(ctx)

		allowed, exceeded, err := limiter.Allow(ctx.Context(), clientKey(ctx), resolver.Resolve(ctx))

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			rejectRequest(api, ctx, exceeded, path, logger)

			return
		}

		next(ctx)
	}
}

func rejectRequest(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	path string,
	logger *zap.Logger,
) {
	msg := "too many requests from this IP, please try again later"

	if exceeded != nil {
		logger.Warn("rate limit exceeded",
			zap.String("path", path),
			zap.String("method", ctx.Method()),
			zap.String("scope", string(exceeded.Scope)),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
			zap.String("clientIp", clientIP(ctx)),
		)

		seconds := int64(math.Ceil(exceeded.RetryAfter().Seconds()))
		ctx.SetHeader("Retry-After", strconv.FormatInt(seconds, 10))
		msg = fmt.Sprintf("%s (limit %d requests per %s)", msg, exceeded.Config.Max, exceeded.Config.Window)
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}
