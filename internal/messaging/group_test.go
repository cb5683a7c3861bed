package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/linkstats/internal/analytics"
	"github.com/serroba/linkstats/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubConsumer records lifecycle calls into a shared journal.
type stubConsumer struct {
	topic       string
	journal     *[]string
	startErr    error
	shutdownErr error
}

func (s *stubConsumer) Topic() string { return s.topic }

func (s *stubConsumer) Start(_ context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}

	*s.journal = append(*s.journal, "start "+s.topic)

	return nil
}

func (s *stubConsumer) Shutdown() error {
	*s.journal = append(*s.journal, "stop "+s.topic)

	return s.shutdownErr
}

func analyticsGroup(sub *feedSubscriber, journal *[]string) (*messaging.ConsumerGroup, *stubConsumer, *stubConsumer) {
	created := &stubConsumer{topic: analytics.TopicURLCreated, journal: journal}
	accessed := &stubConsumer{topic: analytics.TopicURLAccessed, journal: journal}

	var group *messaging.ConsumerGroup
	if sub == nil {
		group = messaging.NewConsumerGroup(nil, zap.NewNop())
	} else {
		group = messaging.NewConsumerGroup(sub, zap.NewNop())
	}

	group.Add(created)
	group.Add(accessed)

	return group, created, accessed
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts consumers in order", func(t *testing.T) {
		var journal []string
		group, _, _ := analyticsGroup(newFeedSubscriber(), &journal)

		require.NoError(t, group.Start(context.Background()))

		assert.Equal(t, 2, group.Len())
		assert.Equal(t, []string{analytics.TopicURLCreated, analytics.TopicURLAccessed}, group.Topics())
		assert.Equal(t, []string{"start url.created", "start url.accessed"}, journal)
	})

	t.Run("stops started consumers when a later one fails", func(t *testing.T) {
		var journal []string
		group, _, accessed := analyticsGroup(newFeedSubscriber(), &journal)
		accessed.startErr = errors.New("stream unavailable")

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), analytics.TopicURLAccessed)
		assert.Equal(t, []string{"start url.created", "stop url.created"}, journal)
	})

	t.Run("names consumers without a topic by position", func(t *testing.T) {
		group := messaging.NewConsumerGroup(nil, zap.NewNop())
		group.Add(&failingRunnable{})

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "#0")
		assert.Empty(t, group.Topics())
	})
}

type failingRunnable struct{}

func (failingRunnable) Start(_ context.Context) error { return errors.New("boom") }
func (failingRunnable) Shutdown() error               { return nil }

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops consumers in reverse order then closes the subscriber", func(t *testing.T) {
		var journal []string
		sub := newFeedSubscriber()
		group, _, _ := analyticsGroup(sub, &journal)
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())

		assert.Equal(t, []string{
			"start url.created", "start url.accessed",
			"stop url.accessed", "stop url.created",
		}, journal)

		sub.mu.Lock()
		defer sub.mu.Unlock()

		assert.True(t, sub.closed)
	})

	t.Run("joins every failure and still stops all", func(t *testing.T) {
		var journal []string
		group, created, accessed := analyticsGroup(newFeedSubscriber(), &journal)
		created.shutdownErr = errors.New("created stuck")
		accessed.shutdownErr = errors.New("accessed stuck")

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "created stuck")
		assert.Contains(t, err.Error(), "accessed stuck")
		assert.Len(t, journal, 2)
	})

	t.Run("tolerates a nil subscriber", func(t *testing.T) {
		var journal []string
		group, _, _ := analyticsGroup(nil, &journal)

		assert.NoError(t, group.Shutdown())
	})
}
