package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

const (
	// sessionKeyPrefix is the Redis key prefix for sessions.
	sessionKeyPrefix = "session:"
)

// storedUser is the value kept under a session's user key.
type storedUser struct {
	User      model.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionStore persists sessions in Redis as two keys per session:
// session:<key>:token and session:<key>:user.
type SessionStore struct {
	client *redis.Client
}

// Sessions returns a session.Store backed by this cache.
func (c *Cache) Sessions() *SessionStore {
	return &SessionStore{client: c.client}
}

func sessionKeys(id string) (tokenKey, userKey string) {
	base := sessionKeyPrefix + session.StorageKey(id)
	return base + ":token", base + ":user"
}

// Load returns the session for id, or session.ErrNotFound when either key is missing.
func (s *SessionStore) Load(ctx context.Context, id string) (*session.Session, error) {
	tokenKey, userKey := sessionKeys(id)

	values, err := s.client.MGet(ctx, tokenKey, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	token, ok1 := values[0].(string)
	rawUser, ok2 := values[1].(string)
	if !ok1 || !ok2 || token == "" {
		return nil, session.ErrNotFound
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(rawUser), &stored); err != nil {
		// Corrupted entry - treat as missing
		return nil, session.ErrNotFound
	}

	return &session.Session{
		ID:        id,
		Token:     token,
		User:      stored.User,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// Save writes both keys atomically with ttl.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	tokenKey, userKey := sessionKeys(sess.ID)

	data, err := json.Marshal(storedUser{User: sess.User, CreatedAt: sess.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey, sess.Token, ttl)
		pipe.Set(ctx, userKey, data, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes both keys.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	tokenKey, userKey := sessionKeys(id)
	if err := s.client.Del(ctx, tokenKey, userKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
