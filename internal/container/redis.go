package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// redisClient lets the injector close the client on shutdown.
type redisClient struct {
	*redis.Client
}

func (c redisClient) Shutdown() error {
	return c.Close()
}

// RedisPackage provides a lazily connected client. It is only invoked when
// Options.UsesRedis reports true.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (redisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return redisClient{redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})

	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		return do.MustInvoke[redisClient](i).Client, nil
	})
}
