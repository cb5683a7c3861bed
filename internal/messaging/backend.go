package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// Backend selects the transport events travel over.
type Backend string

const (
	// BackendMemory keeps events inside the process.
	BackendMemory Backend = "memory"
	// BackendRedis publishes events to Redis streams.
	BackendRedis Backend = "redis"
)

// defaultStreamMaxLen caps each Redis stream so an idle consumer cannot grow it without bound.
const defaultStreamMaxLen = 100_000

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(name); b {
	case BackendMemory, BackendRedis:
		return b, nil
	default:
		return "", fmt.Errorf("unknown event backend %q: must be %q or %q", name, BackendMemory, BackendRedis)
	}
}

// NewMemoryPubSub returns an in-process pub/sub usable as both publisher and subscriber.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
}

// NewRedisPublisher publishes to Redis streams named after the topic.
func NewRedisPublisher(client redis.UniversalClient, logger watermill.LoggerAdapter) (message.Publisher, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:        client,
		Marshaller:    redisstream.DefaultMarshallerUnmarshaller{},
		DefaultMaxlen: defaultStreamMaxLen,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create redis stream publisher: %w", err)
	}

	return pub, nil
}

// NewRedisSubscriber reads Redis streams as a member of consumerGroup.
func NewRedisSubscriber(
	client redis.UniversalClient,
	consumerGroup string,
	logger watermill.LoggerAdapter,
) (message.Subscriber, error) {
	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: consumerGroup,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return sub, nil
}
