//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
	"github.com/wellpath/portal/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	c, err := New(context.Background(), redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = testutil.DeleteRedisKeys(context.Background(), c.client, sessionKeyPrefix+"*")
		_ = testutil.DeleteRedisKeys(context.Background(), c.client, rateLimitLoginPrefix+"*")
		_ = c.Close()
	})
	return c
}

func TestIntegrationSessionStore_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	store := c.Sessions()
	ctx := context.Background()

	sess := testutil.NewTestSession(t, model.RoleAdmin)
	sess.CreatedAt = sess.CreatedAt.Truncate(time.Second)

	if err := store.Save(ctx, sess, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != sess.Token || got.User.Email != sess.User.Email || !got.IsAdmin() {
		t.Errorf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Load after delete err = %v, want ErrNotFound", err)
	}
}

func TestIntegrationLoginRateLimit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	ip := "203.0.113." + time.Now().Format("150405")

	for i := 0; i < 3; i++ {
		res, err := c.CheckLoginRateLimit(ctx, ip, 1, 3)
		if err != nil {
			t.Fatalf("CheckLoginRateLimit: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	res, err := c.CheckLoginRateLimit(ctx, ip, 1, 3)
	if err != nil {
		t.Fatalf("CheckLoginRateLimit: %v", err)
	}
	if res.Allowed {
		t.Error("attempt beyond burst should be limited")
	}
}
