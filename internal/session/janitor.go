package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the janitor removes expired sessions.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper is a Store that needs expired sessions removed explicitly.
// Stores with native expiry (Redis) do not implement it.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Janitor periodically removes expired sessions from a Sweeper.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewJanitor creates a Janitor sweeping every interval.
func NewJanitor(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With("component", "session.janitor"),
	}
}

// Run sweeps on every tick. Blocks until ctx is cancelled or Shutdown is called.
func (j *Janitor) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.started {
		j.mu.Unlock()
		return errors.New("janitor already started")
	}
	j.started = true
	j.done = make(chan struct{})
	ctx, j.cancel = context.WithCancel(ctx)
	j.mu.Unlock()

	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("session janitor started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopping")
			return nil
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.sweeper.DeleteExpired(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		j.logger.Error("expired session sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("expired sessions removed", "count", n)
	}
}

// Shutdown stops the janitor and waits for an in-flight sweep.
// It implements server.ShutdownFunc.
func (j *Janitor) Shutdown(ctx context.Context) error {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return nil
	}
	cancel := j.cancel
	done := j.done
	j.mu.Unlock()

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		j.logger.Warn("session janitor shutdown timed out")
		return ctx.Err()
	}
}
