// Package health serves the liveness endpoint.
package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkstats/internal/ratelimit"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Counter reports how many short URLs are stored.
type Counter interface {
	Len() int
}

// Handler handles health check operations.
type Handler struct {
	entries Counter
	redis   Checker // nil when the service runs without Redis
	started time.Time
	now     func() time.Time
}

// NewHandler creates a health handler. redis may be nil.
func NewHandler(entries Counter, redis Checker) *Handler {
	return &Handler{
		entries: entries,
		redis:   redis,
		started: time.Now(),
		now:     time.Now,
	}
}

// WithClock replaces the time source and resets the start time. Used by tests.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	h.started = now()

	return h
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status        string    `enum:"ok,degraded"             json:"status"`
		Timestamp     time.Time `json:"timestamp"`
		UptimeSeconds int64     `json:"uptimeSeconds"`
		Entries       int       `doc:"Stored short URLs"        json:"entries"`
		Redis         string    `enum:"healthy,unhealthy"       json:"redis,omitempty"`
	}
}

// Check reports uptime, registry size and the state of optional dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	now := h.now()

	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Timestamp = now.UTC()
	resp.Body.UptimeSeconds = int64(now.Sub(h.started).Seconds())
	resp.Body.Entries = h.entries.Len()

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			resp.Body.Redis = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Redis = "healthy"
		}
	}

	return resp, nil
}

// RegisterRoutes registers health check routes. Health checks are never rate limited.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
