package ratelimit_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkstats/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

// requestContext implements huma.Context for scope resolution.
type requestContext struct {
	method    string
	path      string
	operation *huma.Operation
}

func (m *requestContext) Operation() *huma.Operation {
	return m.operation
}
func (m *requestContext) Context() context.Context          { return context.Background() }
func (m *requestContext) TLS() *tls.ConnectionState         { return nil }
func (m *requestContext) Version() huma.ProtoVersion        { return huma.ProtoVersion{} }
func (m *requestContext) Method() string                    { return m.method }
func (m *requestContext) Host() string                      { return "" }
func (m *requestContext) RemoteAddr() string                { return "" }
func (m *requestContext) URL() url.URL                      { return url.URL{Path: m.path} }
func (m *requestContext) Param(_ string) string             { return "" }
func (m *requestContext) Query(_ string) string             { return "" }
func (m *requestContext) Header(_ string) string            { return "" }
func (m *requestContext) EachHeader(_ func(string, string)) {}
func (m *requestContext) BodyReader() io.Reader             { return nil }
func (m *requestContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *requestContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *requestContext) SetStatus(_ int)                   {}
func (m *requestContext) Status() int                       { return 0 }
func (m *requestContext) AppendHeader(_, _ string)          {}
func (m *requestContext) SetHeader(_, _ string)             {}
func (m *requestContext) BodyWriter() io.Writer             { return nil }

func withConfig(cfg any) *huma.Operation {
	return &huma.Operation{Metadata: map[string]any{ratelimit.MetadataKey: cfg}}
}

func TestRouteScopeResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		want   ratelimit.Scope
	}{
		{"creating a short url", "POST", "/api/shorturls", ratelimit.ScopeCreate},
		{"any write counts as create", "DELETE", "/api/shorturls/abc123", ratelimit.ScopeCreate},
		{"listing entries", "GET", "/api/shorturls", ratelimit.ScopeAnalytics},
		{"reading stats", "GET", "/api/shorturls/abc123", ratelimit.ScopeAnalytics},
		{"following a short link", "GET", "/abc123", ratelimit.ScopeRedirect},
		{"head on a short link", "HEAD", "/abc123", ratelimit.ScopeRedirect},
		{"api prefix needs its slash", "GET", "/apifoo", ratelimit.ScopeRedirect},
	}

	resolver := ratelimit.NewRouteScopeResolver()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scopes := resolver.Resolve(&requestContext{method: tt.method, path: tt.path})

			assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeGlobal, tt.want}, scopes)
		})
	}
}

func TestGetEndpointConfig(t *testing.T) {
	t.Parallel()

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ratelimit.GetEndpointConfig(&requestContext{}))
		assert.Nil(t, ratelimit.GetEndpointConfig(&requestContext{operation: &huma.Operation{}}))
		assert.Nil(t, ratelimit.GetEndpointConfig(&requestContext{operation: withConfig(42)}))
	})

	t.Run("present", func(t *testing.T) {
		t.Parallel()

		want := ratelimit.EndpointConfig{Disabled: true}

		cfg := ratelimit.GetEndpointConfig(&requestContext{operation: withConfig(want)})

		require.NotNil(t, cfg)
		assert.Equal(t, want, *cfg)
	})
}
