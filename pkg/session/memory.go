package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/observability"
)

// MemoryStore is an in-process session registry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// WithIDs replaces the session id generator.
func WithIDs(gen func() string) MemoryOption {
	return func(m *MemoryStore) { m.newID = gen }
}

// NewMemoryStore creates a registry whose sessions expire after ttl of
// inactivity. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Create(ctx context.Context, opts ...gradient.Option) (*Session, error) {
	sess := newSession(m.newID(), m.now, opts...)

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	observability.Session().OnSessionCreate(ctx, sess.ID)
	return sess, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if sess.expired(m.now(), m.ttl) {
		m.expire(id, sess)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	return sess, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		observability.Session().OnSessionDelete(ctx, id)
	}
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) int {
	now := m.now()

	m.mu.RLock()
	var stale []*Session
	for _, sess := range m.sessions {
		if sess.expired(now, m.ttl) {
			stale = append(stale, sess)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, sess := range stale {
		if m.expire(sess.ID, sess) {
			n++
		}
	}
	return n
}

// expire removes sess if it is still the registered session for id.
func (m *MemoryStore) expire(id string, sess *Session) bool {
	m.mu.Lock()
	cur, ok := m.sessions[id]
	if ok && cur == sess {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok && cur == sess {
		observability.Session().OnSessionExpire(id, m.now().Sub(sess.LastUsed()))
		return true
	}
	return false
}

// Len returns the number of registered sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup(ctx)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
