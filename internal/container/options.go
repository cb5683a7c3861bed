package container

import (
	"fmt"
	"strings"
	"time"
)

// Options configures the server. Every field is also a CLI flag and a SERVICE_* environment variable.
type Options struct {
	Port            int    `default:"8888"                  help:"Port to listen on"                                   short:"p"`
	BaseURL         string `default:""                      help:"Public base URL of short links (default http://localhost:<port>)"`
	CodeLength      int    `default:"6"                     help:"Length of generated short codes"                     short:"c"`
	DefaultValidity int    `default:"30"                    help:"Validity in minutes when a request sets none"`
	SweepInterval   int    `default:"60"                    help:"Minutes between expiry sweeps"`
	LogFormat       string `default:"console"               help:"Log format: console or json"`
	LogLevel        string `default:"info"                  help:"Minimum log level: debug, info, warn or error"`
	Events          string `default:"memory"                help:"Event backend: memory or redis"`
	RedisAddr       string `default:"localhost:6379"        help:"Redis server address"                                short:"r"`
	RateLimitStore  string `default:"memory"                help:"Rate limit counters: memory or redis"`
	RateLimitMax    int    `default:"100"                   help:"Requests allowed per client per window"`
	RateLimitWindow int    `default:"15"                    help:"Rate limit window in minutes"`
	GeoIPPath       string `default:""                      help:"Path to a GeoLite2/GeoIP2 City database; empty disables geolocation"`
	GeoTimeout      int    `default:"200"                   help:"Geolocation lookup timeout in milliseconds"`
	GeoCacheSize    int    `default:"10000"                 help:"Number of addresses kept in the geolocation cache"`
	CORSOrigins     string `default:"http://localhost:3000,http://127.0.0.1:3000" help:"Comma separated origins allowed to call the API with credentials"`
	DatabaseURL     string `default:""                      help:"PostgreSQL URL for the analytics archive; empty logs events instead"`
	ConsumerGroup   string `default:"analytics"             help:"Redis stream consumer group of the analytics consumer"`
}

// ShortLinkBase returns the prefix short codes are appended to.
func (o *Options) ShortLinkBase() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// UsesRedis reports whether any component is configured to talk to Redis.
func (o *Options) UsesRedis() bool {
	return o.Events == "redis" || o.RateLimitStore == "redis"
}

// Origins splits CORSOrigins.
func (o *Options) Origins() []string {
	var origins []string

	for _, origin := range strings.Split(o.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
