// Package interact maps pointer input on an editing surface into gradient
// mutations: drag a blob marker to move it, click the empty surface to
// create a blob.
//
// A drag starts when a pointer goes down on a marker. The controller
// captures that pointer; until it is released, events from any other
// pointer are ignored, so two gestures never interleave. Moves update the
// dragged blob's position; pointer-up or pointer-leave ends the drag and
// keeps the blob selected.
//
// Platforms usually deliver a click right after the pointer-up that ends a
// drag. That click is swallowed instead of creating a blob.
package interact

import (
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/proximity"
)

// Surface is the editing area in client coordinates.
type Surface struct {
	X, Y          float64
	Width, Height float64
}

// Valid reports whether the surface has an area.
func (s Surface) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Percent converts a client position into clamped percent-space
// coordinates.
func (s Surface) Percent(clientX, clientY float64) (x, y float64) {
	if !s.Valid() {
		return 0, 0
	}
	return clampPct((clientX - s.X) / s.Width * 100), clampPct((clientY - s.Y) / s.Height * 100)
}

func clampPct(v float64) float64 { return max(0, min(v, 100)) }

// PointerEvent is one pointer sample. Target is the id of the blob marker
// under the pointer, or empty for the bare surface.
type PointerEvent struct {
	PointerID int     `json:"pointer_id"`
	Target    string  `json:"target,omitempty"`
	ClientX   float64 `json:"x"`
	ClientY   float64 `json:"y"`
}

// Controller drives a gradient.Store from pointer events. It is not safe
// for concurrent use.
type Controller struct {
	store   *gradient.Store
	surface Surface

	active   string
	dragging string

	captured   bool
	capturedBy int

	// swallowClick is set when a drag ends and cleared by the next click
	// or the next press on the bare surface.
	swallowClick bool
}

// NewController returns a controller writing to store.
func NewController(store *gradient.Store, surface Surface) *Controller {
	return &Controller{store: store, surface: surface}
}

// SetSurface updates the surface geometry, for example after a resize.
func (c *Controller) SetSurface(s Surface) { c.surface = s }

// Surface returns the current surface geometry.
func (c *Controller) Surface() Surface { return c.surface }

// Active returns the selected blob id.
func (c *Controller) Active() string { return c.active }

// Dragging returns the id of the blob being dragged, if any.
func (c *Controller) Dragging() string { return c.dragging }

// Focus returns the selection for wireframe highlighting.
func (c *Controller) Focus() proximity.Focus {
	return proximity.Focus{Active: c.active, Dragging: c.dragging}
}

// Select marks id as active without starting a drag. An unknown id clears
// the selection.
func (c *Controller) Select(id string) {
	if _, ok := c.store.State().Blob(id); !ok {
		id = ""
	}
	c.active = id
}

// PointerDown starts a drag when ev lands on a known blob marker. It
// reports whether a drag started.
func (c *Controller) PointerDown(ev PointerEvent) bool {
	if c.captured {
		return false
	}
	if ev.Target == "" {
		c.swallowClick = false
		return false
	}
	if _, ok := c.store.State().Blob(ev.Target); !ok {
		return false
	}
	c.captured, c.capturedBy = true, ev.PointerID
	c.active, c.dragging = ev.Target, ev.Target
	return true
}

// PointerMove moves the dragged blob to the pointer position. Events from
// pointers other than the captured one are ignored. It reports whether the
// store was updated.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	if !c.owns(ev) || c.dragging == "" || !c.surface.Valid() {
		return false
	}
	x, y := c.surface.Percent(ev.ClientX, ev.ClientY)
	return c.store.Update(c.dragging, gradient.Position(x, y))
}

// PointerUp ends the drag and releases capture. The active blob stays
// selected.
func (c *Controller) PointerUp(ev PointerEvent) bool {
	if !c.owns(ev) {
		return false
	}
	c.release()
	return true
}

// PointerLeave ends the drag like PointerUp.
func (c *Controller) PointerLeave(ev PointerEvent) bool {
	return c.PointerUp(ev)
}

// Click creates a blob at the click position when ev lands on the bare
// surface. It is a no-op while a drag is in progress, right after a drag
// ended, on a marker, or when the store is full. It returns the new blob's
// id, or "".
func (c *Controller) Click(ev PointerEvent) string {
	swallow := c.swallowClick
	c.swallowClick = false
	if swallow || c.dragging != "" || ev.Target != "" || c.store.Full() || !c.surface.Valid() {
		return ""
	}
	x, y := c.surface.Percent(ev.ClientX, ev.ClientY)
	return c.store.AddAt(x, y)
}

func (c *Controller) owns(ev PointerEvent) bool {
	return c.captured && ev.PointerID == c.capturedBy
}

func (c *Controller) release() {
	if c.dragging != "" {
		c.swallowClick = true
	}
	c.captured = false
	c.dragging = ""
}
