package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wellpath/portal/internal/model"
)

// ErrEmptyToken is returned when committing a session without a token.
var ErrEmptyToken = errors.New("session token is empty")

// EventType identifies a session change.
type EventType string

const (
	EventCommitted EventType = "committed"
	EventRefreshed EventType = "refreshed"
	EventCleared   EventType = "cleared"
)

// Event describes one committed or cleared session.
type Event struct {
	Type      EventType
	SessionID string
	UserID    string
	At        time.Time
}

// Manager is the application-wide session store: read the current session,
// commit a new one, clear it, and subscribe to changes.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// NewManager creates a Manager persisting sessions to store for ttl.
func NewManager(store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		subs:   make(map[int]func(Event)),
	}
}

// TTL returns how long committed sessions are kept.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Hydrate reads the persisted session for id. The token is not re-validated
// against the backend. A store failure leaves the state at StateLoading.
func (m *Manager) Hydrate(ctx context.Context, id string) (State, *Session) {
	if id == "" {
		return StateUnauthenticated, nil
	}

	s, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
		return StateAuthenticated, s
	case errors.Is(err, ErrNotFound):
		return StateUnauthenticated, nil
	default:
		m.logger.Warn("session hydration failed",
			slog.String("error", err.Error()),
		)
		return StateLoading, nil
	}
}

// Commit persists a new session for token and user and notifies subscribers.
func (m *Manager) Commit(ctx context.Context, token string, user model.User) (*Session, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	now := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	s := &Session{
		ID:        id.String(),
		Token:     token,
		User:      user,
		CreatedAt: now,
	}

	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.publish(Event{Type: EventCommitted, SessionID: s.ID, UserID: user.ID, At: now})
	return s, nil
}

// Refresh replaces the cached user of an existing session, keeping its id
// and token. It returns the updated session.
func (m *Manager) Refresh(ctx context.Context, s *Session, user model.User) (*Session, error) {
	if s == nil || s.ID == "" {
		return nil, ErrNotFound
	}

	updated := *s
	updated.User = user

	if err := m.store.Save(ctx, &updated, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.publish(Event{Type: EventRefreshed, SessionID: s.ID, UserID: user.ID, At: time.Now().UTC()})
	return &updated, nil
}

// Clear deletes the persisted session for id and notifies subscribers.
func (m *Manager) Clear(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return nil
	}

	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	m.publish(Event{Type: EventCleared, SessionID: s.ID, UserID: s.User.ID, At: time.Now().UTC()})
	return nil
}

// Subscribe registers fn for every future session change. Callbacks run
// synchronously on the goroutine that made the change. The returned func
// removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Ping checks the persistence backend.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) publish(e Event) {
	m.mu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
