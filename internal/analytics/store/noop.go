package store

import (
	"context"
	"sync/atomic"

	"github.com/serroba/linkstats/internal/analytics"
	"go.uber.org/zap"
)

var _ analytics.Store = (*Noop)(nil)

// Noop logs events instead of archiving them and counts what it saw.
type Noop struct {
	logger   *zap.Logger
	created  atomic.Int64
	accessed atomic.Int64
}

func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	n.created.Add(1)
	n.logger.Info("short url created",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.Bool("custom", event.Custom),
		zap.Time("expiresAt", event.ExpiresAt),
	)

	return nil
}

// SaveURLAccessed logs at debug level.
func (n *Noop) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	n.accessed.Add(1)
	n.logger.Debug("short url accessed",
		zap.String("code", event.Code),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Counts returns how many created and accessed events were received.
func (n *Noop) Counts() (created, accessed int64) {
	return n.created.Load(), n.accessed.Load()
}
