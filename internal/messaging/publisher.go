package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	// MetadataTopic carries the topic a message was published to.
	MetadataTopic = "topic"
	// MetadataKey carries the Keyed value of the event, when it has one.
	MetadataKey = "key"
)

// Keyed events expose the entity they describe, e.g. a short code.
type Keyed interface {
	EventKey() string
}

// Publish publishes a typed event.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc returns a Publish that JSON encodes events onto topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)

		if keyed, ok := any(event).(Keyed); ok {
			msg.Metadata.Set(MetadataKey, keyed.EventKey())
		}

		msg.SetContext(ctx)

		return publisher.Publish(topic, msg)
	}
}

// PublisherGroup owns the publisher shared by every publish function.
type PublisherGroup struct {
	publisher message.Publisher
	closeOnce sync.Once
	closeErr  error
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the publisher once. Later calls return the first result.
func (g *PublisherGroup) Shutdown() error {
	g.closeOnce.Do(func() {
		g.closeErr = g.publisher.Close()
	})

	return g.closeErr
}
