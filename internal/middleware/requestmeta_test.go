package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/linkstats/internal/handlers"
	"github.com/serroba/linkstats/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

// captureMeta serves one request and returns the metadata the handler saw.
func captureMeta(t *testing.T, prepare func(r *http.Request)) handlers.RequestMeta {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metas := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metas <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	prepare(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	return <-metas
}

func TestRequestMeta(t *testing.T) {
	t.Run("extracts user-agent and referrer", func(t *testing.T) {
		meta := captureMeta(t, func(r *http.Request) {
			r.Header.Set("User-Agent", testUserAgent)
			r.Header.Set("Referer", "https://example.com")
		})

		assert.Equal(t, testUserAgent, meta.UserAgent)
		assert.Equal(t, "https://example.com", meta.Referrer)
	})

	t.Run("extracts first IP from X-Forwarded-For", func(t *testing.T) {
		meta := captureMeta(t, func(r *http.Request) {
			r.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")
		})

		assert.Equal(t, "192.168.1.1", meta.ClientIP)
	})

	t.Run("extracts IP from X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		meta := captureMeta(t, func(r *http.Request) {
			r.Header.Set("X-Real-IP", "10.0.0.1")
		})

		assert.Equal(t, "10.0.0.1", meta.ClientIP)
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		meta := captureMeta(t, func(r *http.Request) {
			r.RemoteAddr = "203.0.113.7:54321"
		})

		assert.Equal(t, "203.0.113.7", meta.ClientIP)
	})

	t.Run("strips brackets from IPv6 remote address", func(t *testing.T) {
		meta := captureMeta(t, func(r *http.Request) {
			r.RemoteAddr = "[2001:db8::1]:54321"
		})

		assert.Equal(t, "2001:db8::1", meta.ClientIP)
	})
}
