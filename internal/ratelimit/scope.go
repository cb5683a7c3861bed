package ratelimit

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Scope names a class of traffic that a policy can limit separately.
type Scope string

const (
	// ScopeGlobal applies to every request.
	ScopeGlobal Scope = "global"
	// ScopeCreate covers requests that store new short URLs.
	ScopeCreate Scope = "create"
	// ScopeRedirect covers short code lookups that record a click.
	ScopeRedirect Scope = "redirect"
	// ScopeAnalytics covers reads of stored entries and their clicks.
	ScopeAnalytics Scope = "analytics"
)

// MetadataKey is the huma operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// apiPrefix separates the JSON API from redirect paths.
const apiPrefix = "/api/"

// EndpointConfig is attached to an operation's metadata. Disabled skips
// rate limiting for the operation.
type EndpointConfig struct {
	Disabled bool
}

// ScopeResolver determines which scopes apply to a given request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// RouteScopeResolver classifies requests by method and path. Writes are
// creates, reads under /api/ are analytics and any other read is a redirect.
type RouteScopeResolver struct{}

func NewRouteScopeResolver() *RouteScopeResolver {
	return &RouteScopeResolver{}
}

func (r *RouteScopeResolver) Resolve(ctx huma.Context) []Scope {
	switch ctx.Method() {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		return []Scope{ScopeGlobal, ScopeCreate}
	}

	u := ctx.URL()
	if strings.HasPrefix(u.Path, apiPrefix) {
		return []Scope{ScopeGlobal, ScopeAnalytics}
	}

	return []Scope{ScopeGlobal, ScopeRedirect}
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
