package shortener

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"net"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultValidityMinutes applies when a create request carries no validity.
	DefaultValidityMinutes = 30

	defaultMaxAttempts = 64

	maxValidityMinutes = math.MaxInt64 / int64(time.Minute)
)

// Locator resolves a source address to a coarse location.
// Implementations are best-effort: they report false instead of failing.
type Locator interface {
	Lookup(ctx context.Context, addr string) (*Location, bool)
}

// Visit carries the request metadata recorded with a click.
type Visit struct {
	SourceAddress string
	Referrer      string
	UserAgent     string
}

// CreateRequest describes a new short URL. A nil ValidityMinutes selects the
// registry default and an empty Code asks the registry to generate one.
type CreateRequest struct {
	Target          string
	ValidityMinutes *int
	Code            Code
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now as the registry's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithDefaultValidity sets the validity used when a request carries none.
func WithDefaultValidity(minutes int) Option {
	return func(r *Registry) {
		if minutes > 0 {
			r.defaultValidity = minutes
		}
	}
}

// WithReservedCodes marks codes as taken before any request is served, e.g.
// paths answered by fixed routes that a short link could never reach.
func WithReservedCodes(codes ...Code) Option {
	return func(r *Registry) {
		for _, code := range codes {
			r.reserved[code] = struct{}{}
		}
	}
}

// WithMaxAttempts caps how many generated candidates are tried per create.
func WithMaxAttempts(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// Registry owns every short URL entry and its click history.
// A single lock guards entries and the reserved set, so uniqueness checks,
// click appends and evictions never interleave.
type Registry struct {
	mu       sync.RWMutex
	entries  map[Code]*Entry
	reserved map[Code]struct{} // every code ever requested explicitly, plus WithReservedCodes

	generate        CodeGenerator
	locator         Locator
	logger          *zap.Logger
	now             func() time.Time
	defaultValidity int
	maxAttempts     int
}

// NewRegistry creates an empty registry.
func NewRegistry(generator CodeGenerator, locator Locator, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		entries:         make(map[Code]*Entry),
		reserved:        make(map[Code]struct{}),
		generate:        generator,
		locator:         locator,
		logger:          logger,
		now:             time.Now,
		defaultValidity: DefaultValidityMinutes,
		maxAttempts:     defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create validates the request, assigns a code and stores a new entry.
func (r *Registry) Create(_ context.Context, req CreateRequest) (*Entry, error) {
	if !IsValidURL(req.Target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, req.Target)
	}

	validity := r.defaultValidity
	if req.ValidityMinutes != nil {
		validity = *req.ValidityMinutes
	}

	if validity <= 0 || int64(validity) > maxValidityMinutes {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidValidity, validity)
	}

	if req.Code != "" && !IsValidCode(string(req.Code)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, req.Code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code := req.Code
	if code != "" {
		if r.inUse(code) {
			return nil, fmt.Errorf("%w: %q", ErrCodeConflict, code)
		}

		r.reserved[code] = struct{}{}
	} else {
		generated, err := r.generateUnique()
		if err != nil {
			return nil, err
		}

		code = generated
	}

	now := r.now()
	entry := &Entry{
		Code:      code,
		Target:    req.Target,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validity) * time.Minute),
	}
	r.entries[code] = entry

	r.logger.Info("short url created",
		zap.String("code", string(code)),
		zap.String("target", entry.Target),
		zap.Bool("custom", req.Code != ""),
		zap.Time("expiresAt", entry.ExpiresAt),
	)

	snap := entry.snapshot()

	return &snap, nil
}

// Resolve returns the target of a live entry and records the visit as a click.
// Expired entries are evicted and reported as ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, code Code, visit Visit) (string, error) {
	r.mu.RLock()
	_, ok := r.entries[code]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	location := r.locate(ctx, visit.SourceAddress)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.liveEntry(code)
	if err != nil {
		return "", err
	}

	entry.Clicks = append(entry.Clicks, ClickEvent{
		Timestamp:     r.now(),
		Referrer:      visit.Referrer,
		UserAgent:     visit.UserAgent,
		SourceAddress: visit.SourceAddress,
		Location:      location,
	})

	r.logger.Debug("short url resolved",
		zap.String("code", string(code)),
		zap.Int("clicks", entry.ClickCount()),
	)

	return entry.Target, nil
}

// Stats returns a snapshot of a live entry.
func (r *Registry) Stats(_ context.Context, code Code) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.liveEntry(code)
	if err != nil {
		return nil, err
	}

	snap := entry.snapshot()

	return &snap, nil
}

// List returns snapshots of every stored entry ordered by creation time.
// Entries that expired but were not evicted yet are included.
func (r *Registry) List(_ context.Context) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.snapshot())
	}

	slices.SortFunc(out, func(a, b Entry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.Code, b.Code)
	})

	return out
}

// Sweep evicts every expired entry and returns how many were removed.
func (r *Registry) Sweep(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0

	for code, entry := range r.entries {
		if !entry.IsLive(now) {
			delete(r.entries, code)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Info("expired short urls evicted",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.entries)),
		)
	}

	return evicted
}

// Len returns the number of stored entries, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// liveEntry looks up code and evicts it when expired. Callers hold the write lock.
func (r *Registry) liveEntry(code Code) (*Entry, error) {
	entry, ok := r.entries[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	if !entry.IsLive(r.now()) {
		delete(r.entries, code)

		r.logger.Info("expired short url evicted on access",
			zap.String("code", string(code)),
			zap.Time("expiresAt", entry.ExpiresAt),
		)

		return nil, fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	return entry, nil
}

func (r *Registry) inUse(code Code) bool {
	if _, ok := r.reserved[code]; ok {
		return true
	}

	_, ok := r.entries[code]

	return ok
}

func (r *Registry) generateUnique() (Code, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		code := Code(r.generate())
		if code != "" && !r.inUse(code) {
			return code, nil
		}

		r.logger.Debug("generated code collision",
			zap.String("code", string(code)),
			zap.Int("attempt", attempt),
		)
	}

	return "", fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, r.maxAttempts)
}

func (r *Registry) locate(ctx context.Context, addr string) *Location {
	if r.locator == nil {
		return nil
	}

	ip := net.ParseIP(addr)
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
		return nil
	}

	loc, ok := r.locator.Lookup(ctx, ip.String())
	if !ok || loc == nil {
		return nil
	}

	owned := *loc

	return &owned
}
