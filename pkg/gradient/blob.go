package gradient

import (
	"math"
	"slices"
)

// Model limits.
const (
	// MaxBlobs is the capacity of a gradient.
	MaxBlobs = 6

	MinCoord = 0.0
	MaxCoord = 100.0
	MinSize  = 20.0
	MaxSize  = 100.0

	// DefaultSize is the radius given to blobs created without one.
	DefaultSize = 50.0
)

// DefaultBackground is the background color after a reset.
const DefaultBackground = "#0a0a0a"

// Blob is a positioned, sized, colored radial gradient source.
type Blob struct {
	ID    string  `json:"id"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Clamped returns b with X and Y clamped to [0, 100] and Size to [20, 100].
func (b Blob) Clamped() Blob {
	b.X = clamp(b.X, MinCoord, MaxCoord)
	b.Y = clamp(b.Y, MinCoord, MaxCoord)
	b.Size = clamp(b.Size, MinSize, MaxSize)
	return b
}

// Patch is a partial blob update. Nil fields are left unchanged.
type Patch struct {
	Color *string  `json:"color,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Size  *float64 `json:"size,omitempty"`
}

// Apply merges p into b and re-clamps the result.
func (p Patch) Apply(b Blob) Blob {
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.Size != nil {
		b.Size = *p.Size
	}
	return b.Clamped()
}

// Position builds a Patch that moves a blob.
func Position(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize builds a Patch that changes a blob's radius.
func Resize(size float64) Patch {
	return Patch{Size: &size}
}

// Recolor builds a Patch that changes a blob's color.
func Recolor(color string) Patch {
	return Patch{Color: &color}
}

// State is a complete gradient: background plus ordered blobs.
// Methods on State never modify the receiver.
type State struct {
	Background string `json:"background"`
	Blobs      []Blob `json:"blobs"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Blobs = slices.Clone(s.Blobs)
	return s
}

// Len returns the number of blobs.
func (s State) Len() int { return len(s.Blobs) }

// Full reports whether s is at capacity.
func (s State) Full() bool { return len(s.Blobs) >= MaxBlobs }

// Index returns the position of the blob with the given id, or -1.
func (s State) Index(id string) int {
	return slices.IndexFunc(s.Blobs, func(b Blob) bool { return b.ID == id })
}

// Blob returns the blob with the given id.
func (s State) Blob(id string) (Blob, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Blobs[i], true
	}
	return Blob{}, false
}

// WithBlob returns s with b appended. It reports false and returns s
// unchanged when s is already at capacity.
func (s State) WithBlob(b Blob) (State, bool) {
	if s.Full() {
		return s, false
	}
	out := s.Clone()
	out.Blobs = append(out.Blobs, b.Clamped())
	return out, true
}

// WithUpdate returns s with p merged into the blob with the given id.
// It reports false when no such blob exists.
func (s State) WithUpdate(id string, p Patch) (State, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	out.Blobs[i] = p.Apply(out.Blobs[i])
	return out, true
}

// Without returns s minus the blob with the given id.
// It reports false when no such blob exists.
func (s State) Without(id string) (State, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	out.Blobs = slices.Delete(out.Blobs, i, i+1)
	return out, true
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(v, hi))
}
