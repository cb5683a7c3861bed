// Package geo resolves click source addresses to coarse locations.
package geo

import (
	"context"

	"github.com/serroba/linkstats/internal/shortener"
)

// Noop never resolves a location. It is used when no GeoIP database is configured.
type Noop struct{}

func (Noop) Lookup(_ context.Context, _ string) (*shortener.Location, bool) {
	return nil, false
}
