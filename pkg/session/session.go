// Package session keeps independent editor sessions in memory.
//
// Each session owns its own gradient.Store and interact.Controller, so two
// sessions never share ids, randomness or drag state. Sessions live only in
// process memory and are dropped after an idle TTL; there is no persistence.
//
// # Usage
//
//	reg := session.NewMemoryStore(session.DefaultTTL)
//	go reg.Run(ctx, time.Minute) // periodic expiry sweep
//
//	sess, _ := reg.Create(ctx)
//	sess.Do(func(st *gradient.Store, c *interact.Controller) {
//	    st.Randomize()
//	})
//	state := sess.State()
package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/interact"
	"github.com/matzehuels/meshgrad/pkg/proximity"
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 2 * time.Hour

// DefaultSurface is the editing surface assumed until a client reports its
// own geometry. It matches the raster export.
var DefaultSurface = interact.Surface{Width: 1920, Height: 1080}

// Session is one editor instance. All access to its store and controller
// goes through Do, which serializes callers.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    *gradient.Store
	ctrl     *interact.Controller
	lastUsed time.Time
	now      func() time.Time
}

func newSession(id string, now func() time.Time, opts ...gradient.Option) *Session {
	store := gradient.NewStore(opts...)
	t := now()
	return &Session{
		ID:        id,
		CreatedAt: t,
		store:     store,
		ctrl:      interact.NewController(store, DefaultSurface),
		lastUsed:  t,
		now:       now,
	}
}

// Do runs fn with exclusive access to the session's store and controller.
func (s *Session) Do(fn func(*gradient.Store, *interact.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	fn(s.store, s.ctrl)
}

// State returns a snapshot of the session's gradient.
func (s *Session) State() gradient.State {
	var st gradient.State
	s.Do(func(store *gradient.Store, _ *interact.Controller) { st = store.State() })
	return st
}

// Snapshot returns the gradient together with the current selection.
func (s *Session) Snapshot() (gradient.State, proximity.Focus) {
	var (
		st    gradient.State
		focus proximity.Focus
	)
	s.Do(func(store *gradient.Store, c *interact.Controller) {
		st, focus = store.State(), c.Focus()
	})
	return st, focus
}

// LastUsed returns the time of the most recent Do.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.LastUsed()) > ttl
}

// Store is the interface for session registries.
type Store interface {
	// Create starts a new session. Options configure its gradient store.
	Create(ctx context.Context, opts ...gradient.Option) (*Session, error)

	// Get returns the session with the given id, or an error coded
	// SESSION_NOT_FOUND when it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) int
}
