package geo

import (
	"context"
	"time"

	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 200 * time.Millisecond

type lookupResult struct {
	loc *shortener.Location
	ok  bool
}

// Bounded gives up on lookups that take longer than its timeout.
// A slow lookup keeps running in the background and its answer is dropped.
type Bounded struct {
	next    shortener.Locator
	timeout time.Duration
	logger  *zap.Logger
}

// NewBounded wraps next. A non-positive timeout selects DefaultTimeout.
func NewBounded(next shortener.Locator, timeout time.Duration, logger *zap.Logger) *Bounded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Bounded{next: next, timeout: timeout, logger: logger}
}

func (b *Bounded) Lookup(ctx context.Context, addr string) (*shortener.Location, bool) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	results := make(chan lookupResult, 1)

	go func() {
		loc, ok := b.next.Lookup(ctx, addr)
		results <- lookupResult{loc: loc, ok: ok}
	}()

	select {
	case res := <-results:
		return res.loc, res.ok
	case <-ctx.Done():
		b.logger.Debug("geo lookup abandoned",
			zap.String("addr", addr),
			zap.Error(ctx.Err()),
		)

		return nil, false
	}
}
