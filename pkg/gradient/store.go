package gradient

import (
	"math/rand/v2"
	"time"
)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the blob id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.nextID = gen
		}
	}
}

// WithSeed makes the randomizer and generated colors reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Store) { s.rng = newRand(seed) }
}

// WithState seeds the store with an initial gradient. Blob ids are reissued.
func WithState(st State) Option {
	return func(s *Store) { s.initial = &st }
}

// Store is the single writer of gradient state. Every mutation replaces the
// current State with a new value; State returns a copy.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines (for example an HTTP session) must serialize access.
type Store struct {
	state   State
	nextID  IDGenerator
	rng     *rand.Rand
	initial *State
}

// NewStore creates a store holding an empty gradient on DefaultBackground.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:  State{Background: DefaultBackground},
		nextID: UUIDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRand(uint64(time.Now().UnixNano()))
	}
	if s.initial != nil {
		s.ReplaceAll(s.initial.Background, s.initial.Blobs)
		s.initial = nil
	}
	return s
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// State returns a snapshot of the current gradient.
func (s *Store) State() State {
	return s.state.Clone()
}

// Len returns the number of blobs.
func (s *Store) Len() int { return s.state.Len() }

// Full reports whether the store is at capacity.
func (s *Store) Full() bool { return s.state.Full() }

// Add appends b with a freshly minted id. Any id on b is ignored, and a
// blob without a size gets DefaultSize. It reports false, leaving the store
// unchanged, when the store already holds MaxBlobs.
func (s *Store) Add(b Blob) bool {
	if s.state.Full() {
		return false
	}
	b.ID = s.nextID()
	if b.Size == 0 {
		b.Size = DefaultSize
	}
	next, ok := s.state.WithBlob(b)
	if ok {
		s.state = next
	}
	return ok
}

// AddAt creates a blob at (x, y) with a random color and DefaultSize.
// It returns the new blob's id, or "" when the store is full.
func (s *Store) AddAt(x, y float64) string {
	if s.state.Full() {
		return ""
	}
	b := s.NewBlobAt(x, y)
	if !s.Add(b) {
		return ""
	}
	return s.state.Blobs[len(s.state.Blobs)-1].ID
}

// Update merges p into the blob with the given id and re-clamps it.
// It reports false when the id is unknown.
func (s *Store) Update(id string, p Patch) bool {
	next, ok := s.state.WithUpdate(id, p)
	if ok {
		s.state = next
	}
	return ok
}

// Remove deletes the blob with the given id. It reports false when the id
// is unknown.
func (s *Store) Remove(id string) bool {
	next, ok := s.state.Without(id)
	if ok {
		s.state = next
	}
	return ok
}

// SetBackground replaces the background color.
func (s *Store) SetBackground(color string) {
	s.state = State{Background: color, Blobs: s.state.Blobs}.Clone()
}

// ReplaceAll swaps in a whole new gradient. Every incoming blob gets a new
// id and clamped coordinates. The list length is not checked; callers
// building the list are responsible for the MaxBlobs cap.
func (s *Store) ReplaceAll(background string, blobs []Blob) {
	next := State{Background: background, Blobs: make([]Blob, 0, len(blobs))}
	for _, b := range blobs {
		b.ID = s.nextID()
		next.Blobs = append(next.Blobs, b.Clamped())
	}
	s.state = next
}

// Reset clears all blobs and restores DefaultBackground.
func (s *Store) Reset() {
	s.ReplaceAll(DefaultBackground, nil)
}

// ApplyPreset replaces the gradient with the named preset. It reports false
// when no preset has that name.
func (s *Store) ApplyPreset(name string) bool {
	p, ok := LookupPreset(name)
	if !ok {
		return false
	}
	s.ReplaceAll(p.Background, p.Blobs)
	return true
}
