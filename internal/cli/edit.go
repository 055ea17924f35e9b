package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	gio "github.com/matzehuels/meshgrad/pkg/io"
	"github.com/matzehuels/meshgrad/pkg/interact"
	"github.com/matzehuels/meshgrad/pkg/pipeline"
	"github.com/matzehuels/meshgrad/pkg/proximity"
	"github.com/matzehuels/meshgrad/pkg/raster"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [gradient.json]",
		Short: "Edit a gradient interactively in the terminal",
		Long: `Edit opens a full-screen editor. Drag the numbered markers with the mouse
to move blobs, click empty space to add one.

Keys: r randomize · a add · d delete · p next preset · x reset
      +/- resize · arrows nudge · tab select next · w wireframe
      s save · e export · q quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd.Context(), path)
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, path string) error {
	var opts []gradient.Option
	if c.Config.Random.Seed != 0 {
		opts = append(opts, gradient.WithSeed(c.Config.Random.Seed))
	}
	if path != "" {
		st, err := gio.ImportJSON(path)
		if err != nil {
			return err
		}
		opts = append(opts, gradient.WithState(st))
	}

	m := newEditorModel(ctx, gradient.NewStore(opts...), path, c.exporter())
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if em, ok := final.(editorModel); ok && em.saved != "" {
		printSuccess("Saved %s", em.saved)
	}
	return nil
}

// exporter returns the function the editor uses for the export key. It
// writes the configured formats next to base; png uses the configured
// download file name.
func (c *CLI) exporter() exportFunc {
	return func(ctx context.Context, st gradient.State, base string) ([]string, error) {
		formats := c.Config.Export.Formats
		artifacts, _, err := c.newRunner().Render(ctx, st, pipeline.Options{
			Formats: formats,
			Width:   c.Config.Export.Width,
			Height:  c.Config.Export.Height,
			Logger:  loggerFromContext(ctx),
		})
		if err != nil {
			return nil, err
		}
		var paths []string
		for _, f := range formats {
			path := base + pipeline.Extensions[f]
			if f == pipeline.FormatPNG {
				path = filepath.Join(filepath.Dir(base), c.Config.Raster.Filename)
			}
			if err := writeOutput(path, artifacts[f]); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}
}

// =============================================================================
// editorModel - interactive gradient editor
// =============================================================================

// exportFunc writes st and returns the written paths.
type exportFunc func(ctx context.Context, st gradient.State, base string) ([]string, error)

// Layout of the editor screen: one title row, the canvas, two status rows.
const (
	editorHeaderRows = 1
	editorFooterRows = 2
	mousePointerID   = 1
	nudgeStep        = 1.0
	resizeStep       = 5.0
)

var (
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorStatusStyle = lipgloss.NewStyle().Foreground(colorGreen)
	editorErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

type exportDoneMsg struct {
	paths []string
	err   error
}

type editorModel struct {
	ctx    context.Context
	store  *gradient.Store
	ctrl   *interact.Controller
	path   string
	export exportFunc

	width, height int
	wireframe     bool
	leftDown      bool
	preset        int

	status string
	err    error
	saved  string
}

func newEditorModel(ctx context.Context, store *gradient.Store, path string, export exportFunc) editorModel {
	return editorModel{
		ctx:    ctx,
		store:  store,
		ctrl:   interact.NewController(store, interact.Surface{}),
		path:   path,
		export: export,
		preset: -1,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// canvasSize returns the canvas size in cells.
func (m editorModel) canvasSize() (int, int) {
	return max(m.width, 0), max(m.height-editorHeaderRows-editorFooterRows, 0)
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := m.canvasSize()
		m.ctrl.SetSurface(interact.Surface{Y: editorHeaderRows, Width: float64(w), Height: float64(h)})

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.setStatus("exported " + strings.Join(msg.paths, ", "))
		}
	}
	return m, nil
}

// handleMouse turns terminal mouse events into pointer events. A release
// is followed by a click, the order browsers use.
func (m *editorModel) handleMouse(msg tea.MouseMsg) {
	if !m.leftButton(msg) {
		return
	}
	ev := interact.PointerEvent{
		PointerID: mousePointerID,
		Target:    m.markerAt(msg.X, msg.Y),
		ClientX:   float64(msg.X) + 0.5,
		ClientY:   float64(msg.Y) + 0.5,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.ctrl.PointerDown(ev)
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(ev)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(ev)
		if id := m.ctrl.Click(ev); id != "" {
			m.ctrl.Select(id)
			m.setStatus("added blob")
		}
	}
}

// leftButton reports whether msg belongs to a left-button gesture. Terminals
// report releases with no button, so a release counts only while the left
// button is down.
func (m *editorModel) leftButton(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if tea.MouseEvent(msg).IsWheel() {
			return false
		}
		m.leftDown = msg.Button == tea.MouseButtonLeft
		return m.leftDown
	case tea.MouseActionMotion:
		return m.leftDown
	case tea.MouseActionRelease:
		down := m.leftDown
		m.leftDown = false
		return down && (msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonNone)
	}
	return false
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.ctrl.Active()
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.store.Randomize()
		m.ctrl.Select("")
		m.setStatus("randomized")
	case "a":
		if id := m.store.AddAt(50, 50); id != "" {
			m.ctrl.Select(id)
			m.setStatus("added blob")
		} else {
			m.setStatus(fmt.Sprintf("at capacity (%d blobs)", gradient.MaxBlobs))
		}
	case "d", "delete", "backspace":
		if m.store.Remove(active) {
			m.ctrl.Select("")
			m.setStatus("removed blob")
		}
	case "p":
		names := gradient.PresetNames()
		m.preset = (m.preset + 1) % len(names)
		m.store.ApplyPreset(names[m.preset])
		m.ctrl.Select("")
		m.setStatus("preset " + names[m.preset])
	case "x":
		m.store.Reset()
		m.ctrl.Select("")
		m.setStatus("reset")
	case "+", "=":
		m.resize(active, resizeStep)
	case "-", "_":
		m.resize(active, -resizeStep)
	case "up":
		m.nudge(active, 0, -nudgeStep)
	case "down":
		m.nudge(active, 0, nudgeStep)
	case "left":
		m.nudge(active, -nudgeStep, 0)
	case "right":
		m.nudge(active, nudgeStep, 0)
	case "tab":
		m.ctrl.Select(nextID(m.store.State(), active))
	case "w":
		m.wireframe = !m.wireframe
	case "s":
		path := m.savePath()
		if err := gio.ExportJSON(m.store.State(), path); err != nil {
			m.err = err
		} else {
			m.saved = path
			m.setStatus("saved " + path)
		}
	case "e":
		st, base, export, ctx := m.store.State(), strings.TrimSuffix(m.savePath(), ".json"), m.export, m.ctx
		m.setStatus("exporting…")
		return m, func() tea.Msg {
			paths, err := export(ctx, st, base)
			return exportDoneMsg{paths: paths, err: err}
		}
	}
	return m, nil
}

func (m *editorModel) setStatus(s string) {
	m.status = s
}

func (m *editorModel) resize(id string, delta float64) {
	if b, ok := m.store.State().Blob(id); ok {
		m.store.Update(id, gradient.Resize(b.Size+delta))
	}
}

func (m *editorModel) nudge(id string, dx, dy float64) {
	if b, ok := m.store.State().Blob(id); ok {
		m.store.Update(id, gradient.Position(b.X+dx, b.Y+dy))
	}
}

func (m editorModel) savePath() string {
	if m.path != "" {
		return m.path
	}
	return "gradient.json"
}

// nextID returns the id after cur in blob order, wrapping around.
func nextID(st gradient.State, cur string) string {
	if st.Len() == 0 {
		return ""
	}
	return st.Blobs[(st.Index(cur)+1)%st.Len()].ID
}

// markerCell returns the canvas cell of a blob's marker.
func markerCell(b gradient.Blob, w, h int) (col, row int) {
	col = min(int(b.X/100*float64(w)), w-1)
	row = min(int(b.Y/100*float64(h)), h-1)
	return col, row
}

// markerAt returns the id of the marker under the screen cell (x, y), or
// "". Markers accept hits on neighboring cells; the first blob in order
// wins, matching the stacking of the preview.
func (m editorModel) markerAt(x, y int) string {
	w, h := m.canvasSize()
	if w == 0 || h == 0 {
		return ""
	}
	row := y - editorHeaderRows
	for _, b := range m.store.State().Blobs {
		bc, br := markerCell(b, w, h)
		if abs(bc-x) <= 1 && abs(br-row) <= 1 {
			return b.ID
		}
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// Rendering
// =============================================================================

func (m editorModel) View() string {
	w, h := m.canvasSize()
	if w == 0 || h == 0 {
		return "terminal too small"
	}
	st := m.store.State()

	var b strings.Builder
	title := StyleTitle.Render(appName)
	if m.path != "" {
		title += " " + StyleDim.Render(m.path)
	}
	b.WriteString(title + " " + StyleDim.Render(fmt.Sprintf("%d/%d blobs", st.Len(), gradient.MaxBlobs)))
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(st, w, h))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(editorErrorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(editorStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("drag markers · click to add · r random · a add · d delete · p preset · w wireframe · s save · e export · q quit"))
	return b.String()
}

// renderCanvas draws the gradient with half-block cells, two raster pixels
// per cell, then overlays the markers and, when enabled, the proximity
// edges.
func (m editorModel) renderCanvas(st gradient.State, w, h int) string {
	img := raster.Render(st, raster.WithSize(w, h*2))

	cells := make([][]string, h)
	for row := range cells {
		cells[row] = make([]string, w)
		for col := range cells[row] {
			top := img.RGBAAt(col, row*2)
			bottom := img.RGBAAt(col, row*2+1)
			cells[row][col] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorconv.RGBToHex(top.R, top.G, top.B))).
				Background(lipgloss.Color(colorconv.RGBToHex(bottom.R, bottom.G, bottom.B))).
				Render("▀")
		}
	}

	if m.wireframe {
		for _, e := range proximity.Build(st, m.ctrl.Focus()) {
			drawEdge(cells, e, w, h)
		}
	}

	active, dragging := m.ctrl.Active(), m.ctrl.Dragging()
	// Draw in reverse so the first blob's marker ends up on top.
	for i, blob := range slices.Backward(st.Blobs) {
		col, row := markerCell(blob, w, h)
		style := lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(markerContrast(blob.Color))).
			Background(lipgloss.Color(blob.Color))
		if blob.ID == active || blob.ID == dragging {
			style = style.Reverse(true)
		}
		cells[row][col] = style.Render(strconv.Itoa(i + 1))
	}

	lines := make([]string, h)
	for row := range cells {
		lines[row] = strings.Join(cells[row], "")
	}
	return strings.Join(lines, "\n")
}

// drawEdge plots a dotted line between two blob markers.
func drawEdge(cells [][]string, e proximity.Edge, w, h int) {
	glyph := StyleDim.Render("·")
	if e.Active {
		glyph = StyleHighlight.Render("•")
	}
	x1, y1 := e.X1/100*float64(w), e.Y1/100*float64(h)
	x2, y2 := e.X2/100*float64(w), e.Y2/100*float64(h)
	steps := max(abs(int(x2-x1)), abs(int(y2-y1)))
	for s := 1; s < steps; s += 2 {
		t := float64(s) / float64(steps)
		col := min(int(x1+(x2-x1)*t), w-1)
		row := min(int(y1+(y2-y1)*t), h-1)
		cells[row][col] = glyph
	}
}

// markerContrast picks black or white text for a marker on color.
func markerContrast(hex string) string {
	if colorconv.IsLight(hex) {
		return "#000000"
	}
	return "#ffffff"
}
