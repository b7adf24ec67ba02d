// Package session owns who is logged in: the bearer token and user snapshot
// the portal keeps on the user's behalf, and the lifecycle around them.
package session

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/wellpath/portal/internal/model"
)

// ErrNotFound is returned by a Store when no live session exists for an id.
var ErrNotFound = errors.New("session not found")

// State is where a request's session stands.
type State int

const (
	// StateLoading means hydration has not completed; nothing is known yet.
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is a committed login: the backend token plus the user it belongs to.
type Session struct {
	ID        string
	Token     string
	User      model.User
	CreatedAt time.Time
}

// IsAdmin reports whether the session's cached role is admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// StorageKey derives the key a session is stored under from its cookie id,
// so raw cookie values never reach the persistence layer.
func StorageKey(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
