package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkstats/internal/handlers"
)

// RequestMeta stores the client IP, user agent and referrer in the request context
// so handlers can record them with clicks and events.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}
