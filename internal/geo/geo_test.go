package geo_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/linkstats/internal/geo"
	"github.com/serroba/linkstats/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLocator struct {
	calls atomic.Int32
	delay time.Duration
	loc   *shortener.Location
}

func (s *stubLocator) Lookup(ctx context.Context, _ string) (*shortener.Location, bool) {
	s.calls.Add(1)

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, false
		}
	}

	if s.loc == nil {
		return nil, false
	}

	loc := *s.loc

	return &loc, true
}

func TestNoop(t *testing.T) {
	loc, ok := geo.Noop{}.Lookup(context.Background(), "203.0.113.7")

	assert.Nil(t, loc)
	assert.False(t, ok)
}

func TestBounded(t *testing.T) {
	t.Run("returns answer from fast locator", func(t *testing.T) {
		stub := &stubLocator{loc: &shortener.Location{Country: "DE", City: "Berlin"}}
		locator := geo.NewBounded(stub, time.Second, zap.NewNop())

		loc, ok := locator.Lookup(context.Background(), "203.0.113.7")

		require.True(t, ok)
		assert.Equal(t, "Berlin", loc.City)
	})

	t.Run("gives up on slow locator", func(t *testing.T) {
		stub := &stubLocator{delay: time.Second, loc: &shortener.Location{Country: "DE"}}
		locator := geo.NewBounded(stub, 10*time.Millisecond, zap.NewNop())

		start := time.Now()
		loc, ok := locator.Lookup(context.Background(), "203.0.113.7")

		assert.False(t, ok)
		assert.Nil(t, loc)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("honours caller cancellation", func(t *testing.T) {
		stub := &stubLocator{delay: time.Second, loc: &shortener.Location{Country: "DE"}}
		locator := geo.NewBounded(stub, time.Minute, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, ok := locator.Lookup(ctx, "203.0.113.7")

		assert.False(t, ok)
	})
}

func TestCached(t *testing.T) {
	t.Run("serves repeated lookups from cache", func(t *testing.T) {
		stub := &stubLocator{loc: &shortener.Location{Country: "FR", City: "Paris"}}
		locator, err := geo.NewCached(stub, 100, time.Minute)
		require.NoError(t, err)

		defer func() { _ = locator.Shutdown() }()

		first, ok := locator.Lookup(context.Background(), "198.51.100.4")
		require.True(t, ok)

		locator.Wait()

		second, ok := locator.Lookup(context.Background(), "198.51.100.4")
		require.True(t, ok)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("remembers misses", func(t *testing.T) {
		stub := &stubLocator{}
		locator, err := geo.NewCached(stub, 100, time.Minute)
		require.NoError(t, err)

		defer func() { _ = locator.Shutdown() }()

		_, ok := locator.Lookup(context.Background(), "198.51.100.5")
		assert.False(t, ok)

		locator.Wait()

		_, ok = locator.Lookup(context.Background(), "198.51.100.5")
		assert.False(t, ok)
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("returned locations do not alias cached ones", func(t *testing.T) {
		stub := &stubLocator{loc: &shortener.Location{Country: "FR"}}
		locator, err := geo.NewCached(stub, 100, time.Minute)
		require.NoError(t, err)

		defer func() { _ = locator.Shutdown() }()

		first, _ := locator.Lookup(context.Background(), "198.51.100.6")
		locator.Wait()

		first.Country = "XX"

		second, ok := locator.Lookup(context.Background(), "198.51.100.6")
		require.True(t, ok)
		assert.Equal(t, "FR", second.Country)
	})
}

func TestOpenMaxMind(t *testing.T) {
	_, err := geo.OpenMaxMind("/nonexistent/GeoLite2-City.mmdb")

	assert.Error(t, err)
}
