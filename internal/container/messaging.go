package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkstats/internal/analytics"
	analyticsstore "github.com/serroba/linkstats/internal/analytics/store"
	"github.com/serroba/linkstats/internal/messaging"
	"go.uber.org/zap"
)

func watermillLogger(i *do.Injector) *messaging.ZapLogger {
	return messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i).Named("events"))
}

func backend(i *do.Injector) (messaging.Backend, error) {
	return messaging.ParseBackend(do.MustInvoke[*Options](i).Events)
}

// EventBusPackage provides the in-process channel shared by the publisher and
// subscriber of the memory backend.
func EventBusPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewMemoryPubSub(watermillLogger(i)), nil
	})
}

func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		b, err := backend(i)
		if err != nil {
			return nil, err
		}

		var publisher message.Publisher

		switch b {
		case messaging.BackendMemory:
			publisher = do.MustInvoke[*gochannel.GoChannel](i)
		case messaging.BackendRedis:
			publisher, err = messaging.NewRedisPublisher(do.MustInvoke[*redis.Client](i), watermillLogger(i))
			if err != nil {
				return nil, err
			}
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumers. Events are archived in
// PostgreSQL when Options.DatabaseURL is set and logged otherwise.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*analyticsstore.Noop, error) {
		return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i).Named("analytics")), nil
	})

	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return do.MustInvoke[*analyticsstore.Noop](i), nil
		}

		return do.Invoke[*analyticsstore.Postgres](i)
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		b, err := backend(i)
		if err != nil {
			return nil, err
		}

		var subscriber message.Subscriber

		switch b {
		case messaging.BackendMemory:
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		case messaging.BackendRedis:
			subscriber, err = messaging.NewRedisSubscriber(
				do.MustInvoke[*redis.Client](i), opts.ConsumerGroup, watermillLogger(i),
			)
			if err != nil {
				return nil, fmt.Errorf("subscribe to %s: %w", opts.RedisAddr, err)
			}
		}

		sink := do.MustInvoke[analytics.Store](i)
		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[analytics.URLCreatedEvent](subscriber, analytics.TopicURLCreated, sink.SaveURLCreated, logger))
		group.Add(messaging.NewConsumer[analytics.URLAccessedEvent](subscriber, analytics.TopicURLAccessed, sink.SaveURLAccessed, logger))

		return group, nil
	})
}
