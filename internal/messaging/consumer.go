package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// DefaultRetryDelay is how long a consumer waits before nacking a message
// whose handler failed.
const DefaultRetryDelay = time.Second

// Handler processes a single decoded event.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer decodes JSON messages from one topic and hands them to a Handler.
//
// Undecodable messages are acked and dropped since redelivery cannot fix them.
// Handler failures are nacked after the retry delay so the sink can recover.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger
	retryDelay time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

type ConsumerOption func(*consumerOptions)

type consumerOptions struct {
	retryDelay time.Duration
}

// WithRetryDelay sets the pause before a failed message is nacked. Zero nacks immediately.
func WithRetryDelay(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d >= 0 {
			o.retryDelay = d
		}
	}
}

func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
	opts ...ConsumerOption,
) *Consumer[T] {
	o := consumerOptions{retryDelay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}

	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		retryDelay: o.retryDelay,
		done:       make(chan struct{}),
	}
}

func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and consumes in the background until Shutdown.
func (c *Consumer[T]) Start(ctx context.Context) error {
	if c.cancel != nil {
		return errors.New("consumer already started")
	}

	ctx, cancel := context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		cancel()

		return err
	}

	c.cancel = cancel

	go c.run(ctx, msgs)

	return nil
}

func (c *Consumer[T]) run(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.process(ctx, msg)
		}
	}
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) {
	log := c.logger.With(zap.String("messageId", msg.UUID))
	if key := msg.Metadata.Get(MetadataKey); key != "" {
		log = log.With(zap.String("key", key))
	}

	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Error("dropping undecodable event", zap.Error(err))
		msg.Ack()

		return
	}

	if err := c.handler(ctx, &event); err != nil {
		log.Warn("event handler failed, will retry",
			zap.Duration("retryIn", c.retryDelay),
			zap.Error(err),
		)
		c.pause(ctx)
		msg.Nack()

		return
	}

	msg.Ack()
	log.Debug("event processed")
}

func (c *Consumer[T]) pause(ctx context.Context) {
	if c.retryDelay == 0 {
		return
	}

	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Shutdown stops consuming and waits for the message in flight.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel == nil {
		return nil
	}

	c.cancel()
	<-c.done

	return nil
}
