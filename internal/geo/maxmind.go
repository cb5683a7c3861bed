package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/serroba/linkstats/internal/shortener"
)

// MaxMind looks addresses up in a local GeoIP2 or GeoLite2 City database.
type MaxMind struct {
	reader *geoip2.Reader
}

// OpenMaxMind opens the database file at path.
func OpenMaxMind(path string) (*MaxMind, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}

	return &MaxMind{reader: reader}, nil
}

func (m *MaxMind) Lookup(_ context.Context, addr string) (*shortener.Location, bool) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, false
	}

	record, err := m.reader.City(ip)
	if err != nil {
		return nil, false
	}

	loc := &shortener.Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}

	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].IsoCode
	}

	if *loc == (shortener.Location{}) {
		return nil, false
	}

	return loc, true
}

// Shutdown closes the underlying database.
func (m *MaxMind) Shutdown() error {
	return m.reader.Close()
}
