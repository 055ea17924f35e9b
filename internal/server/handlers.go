package server

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meshgrad/pkg/buildinfo"
	"github.com/matzehuels/meshgrad/pkg/compose"
	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/interact"
	"github.com/matzehuels/meshgrad/pkg/pipeline"
	"github.com/matzehuels/meshgrad/pkg/proximity"
	"github.com/matzehuels/meshgrad/pkg/raster"
	"github.com/matzehuels/meshgrad/pkg/session"
)

// sessionView is the JSON form of a session.
type sessionView struct {
	ID       string         `json:"id"`
	State    gradient.State `json:"state"`
	Active   string         `json:"active,omitempty"`
	Dragging string         `json:"dragging,omitempty"`
}

func view(sess *session.Session) sessionView {
	st, focus := sess.Snapshot()
	return sessionView{ID: sess.ID, State: st, Active: focus.Active, Dragging: focus.Dragging}
}

// lookup resolves the {id} URL parameter, writing the error response when
// the session does not exist.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

type presetView struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Background  string          `json:"background"`
	Blobs       []gradient.Blob `json:"blobs"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := gradient.Presets()
	out := make([]presetView, len(presets))
	for i, p := range presets {
		out[i] = presetView{Name: p.Name, Description: p.Description, Background: p.Background, Blobs: p.Blobs}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Sessions
// =============================================================================

type createRequest struct {
	Preset string  `json:"preset,omitempty"`
	Seed   *uint64 `json:"seed,omitempty"`
	Random bool    `json:"random,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Preset != "" {
		if err := validatePreset(req.Preset); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var opts []gradient.Option
	switch {
	case req.Seed != nil:
		opts = append(opts, gradient.WithSeed(*req.Seed))
	case s.seed != 0:
		opts = append(opts, gradient.WithSeed(s.seed))
	}

	sess, err := s.sessions.Create(r.Context(), opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Do(func(st *gradient.Store, _ *interact.Controller) {
		switch {
		case req.Preset != "":
			st.ApplyPreset(req.Preset)
		case req.Random:
			st.Randomize()
		}
	})
	s.logger.Debug("session created", "id", sess.ID, "preset", req.Preset)
	writeJSON(w, http.StatusCreated, view(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Blobs
// =============================================================================

type addRequest struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Color string   `json:"color,omitempty"`
	Size  float64  `json:"size,omitempty"`
}

func (s *Server) handleAddBlob(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := decode(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Color != "" {
		if err := errors.ValidateColor(req.Color); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var (
		blob  gradient.Blob
		added bool
	)
	sess.Do(func(st *gradient.Store, _ *interact.Controller) {
		x, y := 50.0, 50.0
		if req.X != nil {
			x = *req.X
		}
		if req.Y != nil {
			y = *req.Y
		}
		b := st.NewBlobAt(x, y)
		if req.Color != "" {
			b.Color = req.Color
		}
		if req.Size != 0 {
			b.Size = req.Size
		}
		if added = st.Add(b); added {
			cur := st.State()
			blob = cur.Blobs[cur.Len()-1]
		}
	})
	if !added {
		s.writeError(w, r, errors.New(errors.ErrCodeCapacity, "gradient already has %d blobs", gradient.MaxBlobs))
		return
	}
	writeJSON(w, http.StatusCreated, blob)
}

func (s *Server) handleUpdateBlob(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var patch gradient.Patch
	if err := decode(r, &patch, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if patch.Color != nil {
		if err := errors.ValidateColor(*patch.Color); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	id := chi.URLParam(r, "blobID")
	var (
		blob    gradient.Blob
		updated bool
	)
	sess.Do(func(st *gradient.Store, _ *interact.Controller) {
		if updated = st.Update(id, patch); updated {
			blob, _ = st.State().Blob(id)
		}
	})
	if !updated {
		s.writeError(w, r, errors.New(errors.ErrCodeBlobNotFound, "blob %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, blob)
}

func (s *Server) handleRemoveBlob(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "blobID")
	var removed bool
	sess.Do(func(st *gradient.Store, _ *interact.Controller) { removed = st.Remove(id) })
	if !removed {
		s.writeError(w, r, errors.New(errors.ErrCodeBlobNotFound, "blob %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type backgroundRequest struct {
	Color string `json:"color"`
}

func (s *Server) handleSetBackground(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req backgroundRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateColor(req.Color); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Do(func(st *gradient.Store, _ *interact.Controller) { st.SetBackground(req.Color) })
	writeJSON(w, http.StatusOK, view(sess))
}

// =============================================================================
// Whole-gradient operations
// =============================================================================

func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(st *gradient.Store) { st.Randomize() })
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(st *gradient.Store) { st.Reset() })
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validatePreset(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(st *gradient.Store) { st.ApplyPreset(name) })
}

// mutate applies fn to the session's store and responds with the session.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*gradient.Store)) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.Do(func(st *gradient.Store, _ *interact.Controller) { fn(st) })
	writeJSON(w, http.StatusOK, view(sess))
}

func validatePreset(name string) error {
	if err := errors.ValidatePresetName(name); err != nil {
		return err
	}
	if _, ok := gradient.LookupPreset(name); !ok {
		return errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q", name)
	}
	return nil
}

// =============================================================================
// Pointer input
// =============================================================================

// Pointer event types accepted by the pointer endpoint.
const (
	pointerDown  = "down"
	pointerMove  = "move"
	pointerUp    = "up"
	pointerLeave = "leave"
	pointerClick = "click"
)

type surfaceRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointerRequest struct {
	Type string `json:"type"`
	interact.PointerEvent
	Surface *surfaceRequest `json:"surface,omitempty"`
}

type pointerResponse struct {
	Handled bool   `json:"handled"`
	Created string `json:"created,omitempty"`
	sessionView
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		resp  pointerResponse
		known = true
	)
	sess.Do(func(_ *gradient.Store, c *interact.Controller) {
		if req.Surface != nil {
			c.SetSurface(interact.Surface(*req.Surface))
		}
		switch req.Type {
		case pointerDown:
			resp.Handled = c.PointerDown(req.PointerEvent)
		case pointerMove:
			resp.Handled = c.PointerMove(req.PointerEvent)
		case pointerUp:
			resp.Handled = c.PointerUp(req.PointerEvent)
		case pointerLeave:
			resp.Handled = c.PointerLeave(req.PointerEvent)
		case pointerClick:
			resp.Created = c.Click(req.PointerEvent)
			resp.Handled = resp.Created != ""
		default:
			known = false
		}
	})
	if !known {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"unknown pointer event type %q (must be down, move, up, leave or click)", req.Type))
		return
	}
	resp.sessionView = view(sess)
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Derived views and exports
// =============================================================================

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, compose.Composite(sess.State()))
}

func (s *Server) handleWireframe(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, focus := sess.Snapshot()
	writeJSON(w, http.StatusOK, proximity.Build(st, focus))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	width, height, err := sizeParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, focus := sess.Snapshot()
	artifacts, _, err := s.runner.Render(r.Context(), st, pipeline.Options{
		Formats:  []string{format},
		Width:    width,
		Height:   height,
		Focus:    focus,
		Selector: r.URL.Query().Get("selector"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	img := raster.Render(sess.State())
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.filename+`"`)
	s.writePNG(w, r, img)
}

// Default preview bounds. The preview keeps the download's aspect ratio.
const (
	previewWidth  = 320
	previewHeight = 180
)

// handlePreview serves a scaled-down copy of the download image, fit
// within the width and height query parameters.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	width, height, err := sizeParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if width == 0 {
		width, height = previewWidth, previewHeight
	}
	s.writePNG(w, r, raster.Thumbnail(raster.Render(sess.State()), width, height))
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode png"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// sizeParams reads the optional width and height query parameters. Zero
// means the format's default.
func sizeParams(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	if q.Get("width") == "" && q.Get("height") == "" {
		return 0, 0, nil
	}
	w, errW := strconv.Atoi(q.Get("width"))
	h, errH := strconv.Atoi(q.Get("height"))
	if errW != nil || errH != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidSize, "width and height must both be integers")
	}
	if err := errors.ValidateDimensions(w, h); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
