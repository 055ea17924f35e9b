package gradient

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
)

func newTestStore(opts ...Option) *Store {
	return NewStore(append([]Option{WithSeed(42), WithIDGenerator(Sequence("b"))}, opts...)...)
}

func TestNewStoreDefaults(t *testing.T) {
	s := newTestStore()
	st := s.State()
	if st.Background != DefaultBackground {
		t.Errorf("Background = %q, want %q", st.Background, DefaultBackground)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}

func TestStoreAddCapacity(t *testing.T) {
	s := newTestStore()
	for i := range MaxBlobs {
		if !s.Add(Blob{Color: "#ff0000", X: float64(i * 10), Y: 50, Size: 50}) {
			t.Fatalf("Add #%d rejected below capacity", i)
		}
	}
	before := s.State()

	if s.Add(Blob{Color: "#00ff00", X: 1, Y: 1, Size: 30}) {
		t.Error("Add at capacity should report false")
	}
	if id := s.AddAt(10, 10); id != "" {
		t.Errorf("AddAt at capacity = %q, want empty id", id)
	}
	if diff := cmp.Diff(before, s.State()); diff != "" {
		t.Errorf("state changed after rejected add (-before +after):\n%s", diff)
	}
	if s.Len() != MaxBlobs {
		t.Errorf("Len() = %d, want %d", s.Len(), MaxBlobs)
	}
}

func TestStoreAddClampsAndMintsID(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{ID: "caller-id", Color: "#123456", X: -20, Y: 140, Size: 5})

	got := s.State().Blobs[0]
	want := Blob{ID: "b1", Color: "#123456", X: 0, Y: 100, Size: MinSize}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("added blob mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{Color: "#ff0000", X: 10, Y: 20, Size: 30})
	id := s.State().Blobs[0].ID

	if !s.Update(id, Position(250, -3)) {
		t.Fatal("Update of existing blob reported false")
	}
	got := s.State().Blobs[0]
	want := Blob{ID: id, Color: "#ff0000", X: 100, Y: 0, Size: 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("after move (-want +got):\n%s", diff)
	}

	s.Update(id, Resize(400))
	s.Update(id, Recolor("#00ff00"))
	got = s.State().Blobs[0]
	if got.Size != MaxSize || got.Color != "#00ff00" || got.X != 100 {
		t.Errorf("partial updates leaked or failed: %+v", got)
	}

	sizes := []struct {
		name string
		size float64
		want float64
	}{
		{"zero clamps to min", 0, MinSize},
		{"negative clamps to min", -15, MinSize},
		{"below min", 12, MinSize},
		{"in range", 64, 64},
	}
	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			s.Update(id, Resize(80))
			s.Update(id, Resize(tt.size))
			if got := s.State().Blobs[0].Size; got != tt.want {
				t.Errorf("size after Resize(%v) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}

	before := s.State()
	if s.Update("missing", Position(1, 1)) {
		t.Error("Update of unknown id should report false")
	}
	if diff := cmp.Diff(before, s.State()); diff != "" {
		t.Errorf("unknown-id update changed state:\n%s", diff)
	}
}

func TestStoreAddDefaultsMissingSize(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{Color: "#ff0000", X: 10, Y: 10})
	s.Add(Blob{Color: "#00ff00", X: 10, Y: 10, Size: -5})

	st := s.State()
	if got := st.Blobs[0].Size; got != DefaultSize {
		t.Errorf("blob without size got %v, want %v", got, DefaultSize)
	}
	if got := st.Blobs[1].Size; got != MinSize {
		t.Errorf("negative size got %v, want %v", got, MinSize)
	}
	if got := (Blob{}).Clamped().Size; got != MinSize {
		t.Errorf("Clamped() of a zero size = %v, want %v", got, MinSize)
	}
}

func TestStoreRemove(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{Color: "#111111", X: 1, Y: 1})
	s.Add(Blob{Color: "#222222", X: 2, Y: 2})
	s.Add(Blob{Color: "#333333", X: 3, Y: 3})

	if !s.Remove("b2") {
		t.Fatal("Remove(b2) reported false")
	}
	var ids []string
	for _, b := range s.State().Blobs {
		ids = append(ids, b.ID)
	}
	if diff := cmp.Diff([]string{"b1", "b3"}, ids); diff != "" {
		t.Errorf("remaining ids (-want +got):\n%s", diff)
	}
	if s.Remove("b2") {
		t.Error("second Remove(b2) should be a no-op")
	}
}

func TestStoreSnapshotsAreIndependent(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{Color: "#ff0000", X: 50, Y: 50, Size: 50})
	snap := s.State()

	s.Update(snap.Blobs[0].ID, Position(0, 0))
	s.Add(Blob{Color: "#00ff00"})
	snap.Blobs[0].Color = "#000000"

	if snap.Blobs[0].X != 50 || len(snap.Blobs) != 1 {
		t.Errorf("snapshot observed a later mutation: %+v", snap)
	}
	if s.State().Blobs[0].Color != "#ff0000" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestStoreReplaceAllReissuesIDs(t *testing.T) {
	s := newTestStore()
	s.Add(Blob{Color: "#ff0000"})
	first := s.State().Blobs[0].ID

	s.ReplaceAll("#ffffff", []Blob{
		{ID: first, Color: "#00ff00", X: 120, Y: 50, Size: 50},
		{ID: first, Color: "#0000ff", X: 10, Y: 50, Size: 10},
	})

	st := s.State()
	if st.Background != "#ffffff" || st.Len() != 2 {
		t.Fatalf("ReplaceAll state = %+v", st)
	}
	seen := map[string]bool{first: true}
	for _, b := range st.Blobs {
		if seen[b.ID] {
			t.Errorf("id %q reused", b.ID)
		}
		seen[b.ID] = true
	}
	if st.Blobs[0].X != 100 || st.Blobs[1].Size != MinSize {
		t.Errorf("ReplaceAll did not clamp: %+v", st.Blobs)
	}
}

func TestStoreReset(t *testing.T) {
	s := newTestStore()
	s.Randomize()
	s.Reset()
	st := s.State()
	if st.Background != DefaultBackground || st.Len() != 0 {
		t.Errorf("after Reset: %+v", st)
	}
}

func TestStoreApplyPreset(t *testing.T) {
	s := newTestStore()
	if s.ApplyPreset("does-not-exist") {
		t.Error("unknown preset should report false")
	}
	if !s.ApplyPreset("Sunset") {
		t.Fatal("ApplyPreset(Sunset) reported false")
	}
	p, _ := LookupPreset("sunset")
	st := s.State()
	if st.Background != p.Background || st.Len() != len(p.Blobs) {
		t.Errorf("preset not applied: %+v", st)
	}
	for i, b := range st.Blobs {
		if b.ID == "" {
			t.Errorf("blob %d has no id", i)
		}
		if b.Color != p.Blobs[i].Color {
			t.Errorf("blob %d color = %s, want %s", i, b.Color, p.Blobs[i].Color)
		}
	}
}

func TestStoreInvariantsUnderRandomOperations(t *testing.T) {
	s := newTestStore()
	rng := rand.New(rand.NewPCG(7, 7))
	ids := map[string]bool{}

	for step := range 2000 {
		st := s.State()
		switch rng.IntN(7) {
		case 0, 1:
			s.Add(Blob{Color: "#abcdef", X: rng.Float64()*300 - 100, Y: rng.Float64()*300 - 100, Size: rng.Float64() * 200})
		case 2:
			if st.Len() > 0 {
				b := st.Blobs[rng.IntN(st.Len())]
				s.Update(b.ID, Position(rng.Float64()*300-100, rng.Float64()*300-100))
			}
		case 3:
			if st.Len() > 0 {
				s.Update(st.Blobs[rng.IntN(st.Len())].ID, Resize(rng.Float64()*300-100))
			}
		case 4:
			if st.Len() > 0 {
				s.Remove(st.Blobs[rng.IntN(st.Len())].ID)
			}
		case 5:
			s.Randomize()
		case 6:
			s.ApplyPreset(PresetNames()[rng.IntN(len(PresetNames()))])
		}

		st = s.State()
		if st.Len() > MaxBlobs {
			t.Fatalf("step %d: %d blobs exceeds capacity", step, st.Len())
		}
		for _, b := range st.Blobs {
			if b.X < 0 || b.X > 100 || b.Y < 0 || b.Y > 100 || b.Size < 20 || b.Size > 100 {
				t.Fatalf("step %d: blob out of range: %+v", step, b)
			}
			ids[b.ID] = true
		}
	}

	if len(ids) < MaxBlobs {
		t.Errorf("only %d distinct ids observed", len(ids))
	}
}

func TestIDsUniqueAcrossReplaceAll(t *testing.T) {
	s := newTestStore()
	seen := map[string]bool{}
	for range 50 {
		s.Randomize()
		for _, b := range s.State().Blobs {
			if seen[b.ID] {
				t.Fatalf("id %q reissued", b.ID)
			}
			seen[b.ID] = true
		}
	}
}

func TestIndependentStoresDoNotShareCounters(t *testing.T) {
	a := NewStore(WithIDGenerator(Sequence("x")))
	b := NewStore(WithIDGenerator(Sequence("x")))
	a.Add(Blob{})
	a.Add(Blob{})
	b.Add(Blob{})
	if got := b.State().Blobs[0].ID; got != "x1" {
		t.Errorf("second store first id = %q, want x1", got)
	}
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	s := NewStore()
	s.Add(Blob{})
	s.Add(Blob{})
	st := s.State()
	if len(st.Blobs[0].ID) != 36 || st.Blobs[0].ID == st.Blobs[1].ID {
		t.Errorf("unexpected ids: %q, %q", st.Blobs[0].ID, st.Blobs[1].ID)
	}
}

func TestRandomize(t *testing.T) {
	s := newTestStore()
	for range 200 {
		s.Randomize()
		st := s.State()
		if st.Len() < 3 || st.Len() > 5 {
			t.Fatalf("blob count %d outside [3,5]", st.Len())
		}

		bg, err := colorconv.ParseHex(st.Background)
		if err != nil {
			t.Fatalf("background %q: %v", st.Background, err)
		}
		if m := max(bg.R, bg.G, bg.B); m > 25 {
			t.Errorf("background %s too bright (max channel %d)", st.Background, m)
		}

		for _, b := range st.Blobs {
			if b.X < 15 || b.X > 85 || b.Y < 15 || b.Y > 85 {
				t.Errorf("position out of [15,85]: %+v", b)
			}
			if b.Size < 40 || b.Size > 75 {
				t.Errorf("size out of [40,75]: %+v", b)
			}
			c, err := colorconv.ParseHex(b.Color)
			if err != nil {
				t.Fatalf("blob color %q: %v", b.Color, err)
			}
			if m := max(c.R, c.G, c.B); m < 102 {
				t.Errorf("blob %s darker than 40%% lightness allows", b.Color)
			}
		}
	}
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	a := newTestStore()
	b := newTestStore()
	a.Randomize()
	b.Randomize()
	if diff := cmp.Diff(a.State(), b.State()); diff != "" {
		t.Errorf("same seed produced different gradients:\n%s", diff)
	}
}

func TestRandomHuesAreSpread(t *testing.T) {
	opts := DefaultRandomOptions()
	opts.MinCount, opts.MaxCount = 4, 4
	opts.HueJitter = 0
	st := Random(rand.New(rand.NewPCG(1, 2)), &opts)
	if st.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", st.Len())
	}
	seen := map[string]bool{}
	for _, b := range st.Blobs {
		seen[b.Color] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct colors, got %v", seen)
	}
}

func TestNewBlobAt(t *testing.T) {
	s := newTestStore()
	b := s.NewBlobAt(150, -5)
	if b.X != 100 || b.Y != 0 || b.Size != DefaultSize || !colorconv.Valid(b.Color) {
		t.Errorf("NewBlobAt = %+v", b)
	}
	id := s.AddAt(30, 40)
	if id == "" {
		t.Fatal("AddAt returned empty id")
	}
	got, ok := s.State().Blob(id)
	if !ok || got.X != 30 || got.Y != 40 {
		t.Errorf("AddAt blob = %+v, %v", got, ok)
	}
}

func TestWithState(t *testing.T) {
	s := newTestStore(WithState(State{Background: "#ffffff", Blobs: []Blob{{ID: "keep?", Color: "#000000", X: 5, Y: 5, Size: 25}}}))
	st := s.State()
	if st.Background != "#ffffff" || st.Len() != 1 || st.Blobs[0].ID != "b1" {
		t.Errorf("WithState = %+v", st)
	}
}

func TestPresetsWithinCapacity(t *testing.T) {
	for _, p := range Presets() {
		if len(p.Blobs) > MaxBlobs {
			t.Errorf("preset %s has %d blobs", p.Name, len(p.Blobs))
		}
		if !colorconv.Valid(p.Background) {
			t.Errorf("preset %s background %q invalid", p.Name, p.Background)
		}
		for _, b := range p.Blobs {
			if b != b.Clamped() {
				t.Errorf("preset %s blob out of range: %+v", p.Name, b)
			}
		}
	}
}

func TestPresetsAreCopies(t *testing.T) {
	p := Presets()[0]
	p.Blobs[0].Color = "#000000"
	again, _ := LookupPreset(p.Name)
	if again.Blobs[0].Color == "#000000" {
		t.Error("Presets() exposed the catalog's backing array")
	}
}
