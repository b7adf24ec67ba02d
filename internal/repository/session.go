package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wellpath/portal/internal/model"
	"github.com/wellpath/portal/internal/session"
)

// SessionStore persists sessions in the sessions table.
type SessionStore struct {
	repo *Repository
}

// Sessions returns a session.Store backed by this repository.
func (r *Repository) Sessions() *SessionStore {
	return &SessionStore{repo: r}
}

// Load returns the unexpired session stored for id.
func (s *SessionStore) Load(ctx context.Context, id string) (*session.Session, error) {
	query := `
		SELECT token, user_data, created_at
		FROM sessions
		WHERE session_key = $1 AND expires_at > NOW()
	`

	var (
		token    string
		userData []byte
		created  time.Time
	)
	err := s.repo.pool.QueryRow(ctx, query, session.StorageKey(id)).Scan(&token, &userData, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		// A corrupt row reads as no session.
		return nil, session.ErrNotFound
	}

	return &session.Session{
		ID:        id,
		Token:     token,
		User:      user,
		CreatedAt: created,
	}, nil
}

// Save upserts sess with an expiry ttl from now.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	query := `
		INSERT INTO sessions (session_key, token, user_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_key) DO UPDATE
		SET token = EXCLUDED.token,
			user_data = EXCLUDED.user_data,
			expires_at = EXCLUDED.expires_at
	`

	_, err = s.repo.pool.Exec(ctx, query,
		session.StorageKey(sess.ID),
		sess.Token,
		userData,
		sess.CreatedAt,
		time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the session stored for id. Missing rows are not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.pool.Exec(ctx, `DELETE FROM sessions WHERE session_key = $1`, session.StorageKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// DeleteExpired removes sessions past their expiry and returns how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.repo.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
