package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a background component with an explicit lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

type topicNamer interface {
	Topic() string
}

// ConsumerGroup runs the consumers of one subscriber as a unit. Consumers stop
// in reverse start order, then the subscriber is closed.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

func (g *ConsumerGroup) Len() int {
	return len(g.consumers)
}

// Topics lists the topics of consumers that report one.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.consumers))

	for _, consumer := range g.consumers {
		if named, ok := consumer.(topicNamer); ok {
			topics = append(topics, named.Topic())
		}
	}

	return topics
}

// Start starts every consumer. If one fails, the ones already running are stopped.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			stopAll(g.consumers[:i])

			return fmt.Errorf("start consumer %s: %w", describe(consumer, i), err)
		}
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops every consumer and closes the subscriber, joining any errors.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("stopping consumer group", zap.Int("consumers", len(g.consumers)))

	err := stopAll(g.consumers)
	if err != nil {
		g.logger.Warn("consumer shutdown failed", zap.Error(err))
	}

	if g.subscriber != nil {
		if closeErr := g.subscriber.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close subscriber: %w", closeErr))
		}
	}

	return err
}

func stopAll(consumers []Runnable) error {
	var errs []error

	for i := len(consumers) - 1; i >= 0; i-- {
		if err := consumers[i].Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop consumer %s: %w", describe(consumers[i], i), err))
		}
	}

	return errors.Join(errs...)
}

func describe(consumer Runnable, index int) string {
	if named, ok := consumer.(topicNamer); ok {
		return named.Topic()
	}

	return fmt.Sprintf("#%d", index)
}
