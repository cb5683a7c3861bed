package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per client key over sliding windows. Implementations
// live in internal/store: in memory for one process, Redis when several
// servers share limits.
type Store interface {
	// Record adds a request for key now and returns how many requests key made
	// within window, this one included.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
