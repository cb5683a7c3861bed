package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMax and DefaultWindow allow 100 requests per client every 15 minutes.
	DefaultMax    = 100
	DefaultWindow = 15 * time.Minute
)

var (
	// DefaultCreateLimits throttle bursts of new short URLs.
	DefaultCreateLimits = []LimitConfig{
		{Window: time.Minute, Max: 20},
		{Window: time.Hour, Max: 200},
	}
	// DefaultRedirectLimit caps how fast one client can follow short links.
	DefaultRedirectLimit = LimitConfig{Window: time.Minute, Max: 60}
	// DefaultAnalyticsLimit bounds stats and list reads, which copy whole click histories.
	DefaultAnalyticsLimit = LimitConfig{Window: time.Minute, Max: 60}
)

// LimitConfig allows at most Max requests in any sliding Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

func (c LimitConfig) String() string {
	return fmt.Sprintf("%d/%s", c.Max, c.Window)
}

// Policy maps each scope to the limits enforced for it.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy applies a single global limit to every request.
func DefaultPolicy(maxRequests int64, window time.Duration) *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {{Window: window, Max: maxRequests}},
		},
	}
}

// ServicePolicy keeps the global limit on every request and adds the
// default create, redirect and analytics limits on top of it.
func ServicePolicy(maxRequests int64, window time.Duration) *Policy {
	return DefaultPolicy(maxRequests, window).
		WithScope(ScopeCreate, DefaultCreateLimits...).
		WithScope(ScopeRedirect, DefaultRedirectLimit).
		WithScope(ScopeAnalytics, DefaultAnalyticsLimit)
}

// WithScope adds limits for scope and returns p.
func (p *Policy) WithScope(scope Scope, limits ...LimitConfig) *Policy {
	if p.Limits == nil {
		p.Limits = make(map[Scope][]LimitConfig)
	}

	p.Limits[scope] = append(p.Limits[scope], limits...)

	return p
}

// Validate rejects limits that could never admit a request.
func (p *Policy) Validate() error {
	if p == nil {
		return errors.New("rate limit policy is nil")
	}

	for scope, limits := range p.Limits {
		for _, limit := range limits {
			if limit.Window <= 0 || limit.Max <= 0 {
				return fmt.Errorf("invalid rate limit %s for scope %s", limit, scope)
			}
		}
	}

	return nil
}
