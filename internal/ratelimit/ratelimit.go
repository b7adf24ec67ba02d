// Package ratelimit limits login and signup attempts per client.
// Memory keeps one token bucket per key in-process; Redis shares buckets
// across instances through the cache package.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wellpath/portal/internal/cache"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// idleTimeout is how long an unused bucket is kept.
const idleTimeout = 3 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// Memory is an in-process Limiter. Idle buckets are pruned lazily on access.
type Memory struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

// NewMemory creates a Memory limiter allowing rps requests per second with burst.
func NewMemory(rps float64, burst int) *Memory {
	return &Memory{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.seen = now

	if b.lim.AllowN(now, 1) {
		return Result{Allowed: true, Remaining: int64(math.Floor(b.lim.TokensAt(now)))}, nil
	}

	r := b.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	if delay < time.Second {
		delay = time.Second
	}
	return Result{Allowed: false, RetryAfter: delay.Round(time.Second)}, nil
}

// Len returns the number of tracked buckets.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *Memory) prune(now time.Time) {
	if now.Sub(m.lastPrune) < time.Minute {
		return
	}
	m.lastPrune = now
	for key, b := range m.buckets {
		if now.Sub(b.seen) > idleTimeout {
			delete(m.buckets, key)
		}
	}
}

// Redis is a Limiter backed by the shared Redis token bucket.
type Redis struct {
	cache *cache.Cache
	rps   int
	burst int
}

// NewRedis creates a Redis limiter.
func NewRedis(c *cache.Cache, rps, burst int) *Redis {
	return &Redis{cache: c, rps: rps, burst: burst}
}

// Allow consumes one token from key's shared bucket.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	res, err := r.cache.CheckLoginRateLimit(ctx, key, r.rps, r.burst)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:    res.Allowed,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}, nil
}
