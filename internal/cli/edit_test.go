package cli

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/meshgrad/pkg/config"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	gio "github.com/matzehuels/meshgrad/pkg/io"
)

// newTestEditor returns an editor on a 40x23 terminal, which leaves a
// 40x20 cell canvas starting on row 1.
func newTestEditor(t *testing.T, path string, export exportFunc) editorModel {
	t.Helper()
	store := gradient.NewStore(gradient.WithIDGenerator(gradient.Sequence("b")), gradient.WithSeed(1))
	m := newEditorModel(context.Background(), store, path, export)
	return send(t, m, tea.WindowSizeMsg{Width: 40, Height: 23})
}

func send(t *testing.T, m editorModel, msg tea.Msg) editorModel {
	t.Helper()
	next, _ := m.Update(msg)
	em, ok := next.(editorModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEditorDragMovesBlobAndSwallowsClick(t *testing.T) {
	m := newTestEditor(t, "", nil)
	m = send(t, m, key("a"))

	// The blob at 50/50 has its marker on canvas cell (20, 10), screen row 11.
	m = send(t, m, mouse(tea.MouseActionPress, 20, 11))
	if m.ctrl.Dragging() != "b1" {
		t.Fatalf("Dragging() = %q after press on marker", m.ctrl.Dragging())
	}
	m = send(t, m, mouse(tea.MouseActionMotion, 30, 6))
	m = send(t, m, mouse(tea.MouseActionRelease, 30, 6))

	st := m.store.State()
	if st.Len() != 1 {
		t.Fatalf("drag release created a blob: %d blobs", st.Len())
	}
	b := st.Blobs[0]
	if !near(b.X, 76.25) || !near(b.Y, 27.5) {
		t.Errorf("blob at (%v, %v), want (76.25, 27.5)", b.X, b.Y)
	}
	if m.ctrl.Dragging() != "" || m.ctrl.Active() != "b1" {
		t.Errorf("after release: dragging %q, active %q", m.ctrl.Dragging(), m.ctrl.Active())
	}
}

func TestEditorClickAddsBlob(t *testing.T) {
	m := newTestEditor(t, "", nil)
	m = send(t, m, mouse(tea.MouseActionPress, 5, 16))
	m = send(t, m, mouse(tea.MouseActionRelease, 5, 16))

	st := m.store.State()
	if st.Len() != 1 {
		t.Fatalf("click produced %d blobs, want 1", st.Len())
	}
	if b := st.Blobs[0]; !near(b.X, 13.75) || !near(b.Y, 77.5) || b.Size != gradient.DefaultSize {
		t.Errorf("new blob = %+v", b)
	}
	if m.ctrl.Active() != "b1" || m.status != "added blob" {
		t.Errorf("active %q, status %q", m.ctrl.Active(), m.status)
	}
}

func TestEditorIgnoresOtherButtons(t *testing.T) {
	tests := []struct {
		name   string
		button tea.MouseButton
	}{
		{"right", tea.MouseButtonRight},
		{"middle", tea.MouseButtonMiddle},
		{"wheel", tea.MouseButtonWheelUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestEditor(t, "", nil)
			m = send(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tt.button})
			m = send(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
			if m.store.Len() != 0 {
				t.Errorf("%s click created %d blobs", tt.name, m.store.Len())
			}
		})
	}
}

func TestEditorWheelDuringDrag(t *testing.T) {
	m := newTestEditor(t, "", nil)
	m = send(t, m, key("a"))
	m = send(t, m, mouse(tea.MouseActionPress, 20, 11))
	m = send(t, m, tea.MouseMsg{X: 20, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = send(t, m, mouse(tea.MouseActionRelease, 20, 11))
	if m.ctrl.Dragging() != "" {
		t.Errorf("Dragging() = %q after release", m.ctrl.Dragging())
	}
}

func TestEditorKeys(t *testing.T) {
	m := newTestEditor(t, "", nil)

	m = send(t, m, key("a"))
	m = send(t, m, key("+"))
	m = send(t, m, key("-"))
	m = send(t, m, key("-"))
	m = send(t, m, key("right"))
	m = send(t, m, key("down"))
	b, _ := m.store.State().Blob("b1")
	if diff := cmp.Diff(gradient.Blob{ID: "b1", Color: b.Color, X: 51, Y: 51, Size: 45}, b); diff != "" {
		t.Errorf("blob after resize and nudge (-want +got):\n%s", diff)
	}

	m = send(t, m, key("a"))
	if m.ctrl.Active() != "b2" {
		t.Fatalf("Active() = %q after add", m.ctrl.Active())
	}
	m = send(t, m, key("tab"))
	if m.ctrl.Active() != "b1" {
		t.Errorf("tab selected %q, want b1", m.ctrl.Active())
	}
	m = send(t, m, key("d"))
	if _, ok := m.store.State().Blob("b1"); ok || m.ctrl.Active() != "" {
		t.Errorf("d did not remove the selected blob")
	}

	m = send(t, m, key("x"))
	if st := m.store.State(); st.Len() != 0 || st.Background != gradient.DefaultBackground {
		t.Errorf("x left %+v", st)
	}

	names := gradient.PresetNames()
	m = send(t, m, key("p"))
	p, _ := gradient.LookupPreset(names[0])
	if m.store.Len() != len(p.Blobs) || m.status != "preset "+names[0] {
		t.Errorf("p applied %d blobs, status %q", m.store.Len(), m.status)
	}
	m = send(t, m, key("p"))
	if m.status != "preset "+names[1%len(names)] {
		t.Errorf("second p status %q", m.status)
	}

	m = send(t, m, key("r"))
	if n := m.store.Len(); n < 3 || n > 5 {
		t.Errorf("r produced %d blobs", n)
	}

	m = send(t, m, key("w"))
	if !m.wireframe {
		t.Error("w did not enable the wireframe")
	}
}

func TestEditorAddAtCapacity(t *testing.T) {
	m := newTestEditor(t, "", nil)
	for range gradient.MaxBlobs + 1 {
		m = send(t, m, key("a"))
	}
	if m.store.Len() != gradient.MaxBlobs {
		t.Errorf("Len() = %d", m.store.Len())
	}
	if !strings.HasPrefix(m.status, "at capacity") {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditorQuit(t *testing.T) {
	m := newTestEditor(t, "", nil)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestEditorSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.json")
	m := newTestEditor(t, path, nil)
	m = send(t, m, key("p"))
	m = send(t, m, key("s"))

	if m.saved != path {
		t.Fatalf("saved = %q", m.saved)
	}
	st, err := gio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.store.State(), st); diff != "" {
		t.Errorf("saved document mismatch (-want +got):\n%s", diff)
	}
}

func TestEditorExport(t *testing.T) {
	var gotBase string
	export := func(_ context.Context, st gradient.State, base string) ([]string, error) {
		gotBase = base
		return []string{base + ".css"}, nil
	}

	m := newTestEditor(t, "work/hero.json", export)
	next, cmd := m.Update(key("e"))
	if cmd == nil {
		t.Fatal("e returned no command")
	}
	m = send(t, next.(editorModel), cmd())
	if gotBase != "work/hero" {
		t.Errorf("export base = %q", gotBase)
	}
	if m.status != "exported work/hero.css" {
		t.Errorf("status = %q", m.status)
	}

	failing := func(context.Context, gradient.State, string) ([]string, error) {
		return nil, errors.New("disk full")
	}
	m = newTestEditor(t, "", failing)
	next, cmd = m.Update(key("e"))
	m = send(t, next.(editorModel), cmd())
	if m.err == nil || !strings.Contains(m.View(), "disk full") {
		t.Errorf("export error not shown, err = %v", m.err)
	}
}

func TestEditorView(t *testing.T) {
	store := gradient.NewStore(gradient.WithIDGenerator(gradient.Sequence("b")))
	m := newEditorModel(context.Background(), store, "", nil)
	if got := m.View(); got != "terminal too small" {
		t.Errorf("View() before size = %q", got)
	}

	m = newTestEditor(t, "hero.json", nil)
	m = send(t, m, key("a"))
	m = send(t, m, key("w"))
	view := m.View()
	for _, want := range []string{"meshgrad", "hero.json", "1/6 blobs", "▀", "added blob", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	// Title, 20 canvas rows, status and help.
	if got := strings.Count(view, "\n") + 1; got != 23 {
		t.Errorf("View() has %d lines, want 23", got)
	}
}

func TestMarkerAt(t *testing.T) {
	m := newTestEditor(t, "", nil)
	m.store.Add(gradient.Blob{Color: "#ff0000", X: 50, Y: 50, Size: 50})
	m.store.Add(gradient.Blob{Color: "#00ff00", X: 52.5, Y: 50, Size: 50})

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"on first marker", 20, 11, "b1"},
		{"neighbor cell", 19, 12, "b1"},
		{"overlap favors first blob", 21, 11, "b1"},
		{"second marker only", 22, 11, "b2"},
		{"empty", 5, 5, ""},
		{"header row", 20, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.markerAt(tt.x, tt.y); got != tt.want {
				t.Errorf("markerAt(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNextID(t *testing.T) {
	st := gradient.State{Blobs: []gradient.Blob{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	tests := []struct{ cur, want string }{
		{"", "a"},
		{"a", "b"},
		{"c", "a"},
		{"missing", "a"},
	}
	for _, tt := range tests {
		if got := nextID(st, tt.cur); got != tt.want {
			t.Errorf("nextID(%q) = %q, want %q", tt.cur, got, tt.want)
		}
	}
	if got := nextID(gradient.State{}, "a"); got != "" {
		t.Errorf("nextID on empty state = %q", got)
	}
}

func TestExporterWritesConfiguredFormats(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Export.Formats = []string{"css", "png"}
	c.Config.Export.Width, c.Config.Export.Height = 32, 18

	dir := t.TempDir()
	p, _ := gradient.LookupPreset("ocean")
	paths, err := c.exporter()(context.Background(), p.State(), filepath.Join(dir, "hero"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "hero.css"), filepath.Join(dir, c.Config.Raster.Filename)}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", path, err)
		}
	}
}
