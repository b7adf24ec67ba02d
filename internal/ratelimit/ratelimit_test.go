package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemory_AllowsBurstThenLimits(t *testing.T) {
	t.Parallel()

	m := NewMemory(1, 3)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := m.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	res, _ := m.Allow(ctx, "10.0.0.1")
	if res.Allowed {
		t.Fatal("attempt beyond burst should be limited")
	}
	if res.RetryAfter < time.Second {
		t.Errorf("RetryAfter = %s, want >= 1s", res.RetryAfter)
	}

	if res, _ := m.Allow(ctx, "10.0.0.2"); !res.Allowed {
		t.Error("other clients must have their own bucket")
	}

	now = now.Add(2 * time.Second)
	if res, _ := m.Allow(ctx, "10.0.0.1"); !res.Allowed {
		t.Error("bucket should refill over time")
	}
}

func TestMemory_PrunesIdleBuckets(t *testing.T) {
	t.Parallel()

	m := NewMemory(1, 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = m.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
	}
	if m.Len() != 5 {
		t.Fatalf("Len = %d, want 5", m.Len())
	}

	now = now.Add(idleTimeout + time.Minute)
	_, _ = m.Allow(ctx, "10.0.0.99")
	if m.Len() != 1 {
		t.Errorf("Len after prune = %d, want 1", m.Len())
	}
}
