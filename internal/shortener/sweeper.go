package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often expired entries are evicted in bulk.
const DefaultSweepInterval = time.Hour

// Sweepable is anything that can evict its expired entries.
type Sweepable interface {
	Sweep(ctx context.Context) int
}

// Sweeper runs Sweep on a fixed interval, independent of request traffic.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper. A non-positive interval selects DefaultSweepInterval.
func NewSweeper(target Sweepable, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		target:   target,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in the background.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.cancel != nil {
		return errors.New("sweeper already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)

	go s.loop(ctx)

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))

	return nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. A panicking sweep is logged and swallowed
// so the loop keeps running.
func (s *Sweeper) RunOnce(ctx context.Context) (evicted int) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("sweep failed", zap.Any("panic", rec))

			evicted = 0
		}
	}()

	evicted = s.target.Sweep(ctx)

	s.logger.Debug("sweep finished", zap.Int("evicted", evicted))

	return evicted
}

// Shutdown stops the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Shutdown() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
