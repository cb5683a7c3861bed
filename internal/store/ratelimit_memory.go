// Package store holds the sliding-window counters behind rate limiting.
package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Counters are per process; use RateLimitRedisStore to share them between instances.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	longest  time.Duration // longest window recorded so far
	now      func() time.Time
}

// MemoryOption configures a RateLimitMemoryStore.
type MemoryOption func(*RateLimitMemoryStore)

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *RateLimitMemoryStore) {
		s.now = now
	}
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore(opts ...MemoryOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if window > s.longest {
		s.longest = window
	}

	now := s.now()
	valid := prune(s.requests[key], now.Add(-window))
	valid = append(valid, now)
	s.requests[key] = valid

	return int64(len(valid)), nil
}

// Sweep drops timestamps older than the longest window in use and forgets
// keys left empty. It returns the number of keys removed.
func (s *RateLimitMemoryStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.longest)
	removed := 0

	for key, timestamps := range s.requests {
		if valid := prune(timestamps, cutoff); len(valid) > 0 {
			s.requests[key] = valid
		} else {
			delete(s.requests, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked keys.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	return valid
}
