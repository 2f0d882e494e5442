// Package viewport implements pan and zoom of the board view.
package viewport

import (
	"math"

	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/input"
)

// ZoomStep is the scale change per wheel event.
const ZoomStep = 0.1

// State is a snapshot of the view for renderers.
type State struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
	// Panning is set once the pointer moves while a background press is
	// held. A press released without moving never sets it.
	Panning bool `json:"panning"`
	// LastPointer is the screen position of the last event of the active
	// gesture, or nil when idle.
	LastPointer *geometry.Point `json:"lastPointer,omitempty"`
}

// Controller owns the pan/zoom state of one board view. It moves between
// idle, held (pressed on the background, not yet moved) and panning.
//
// Zoom is anchored at the viewport origin, not at the pointer.
type Controller struct {
	surface   input.Surface
	transform geometry.Transform
	size      geometry.Size

	held    bool
	panning bool
	last    geometry.Point
	release func()

	onClick  func()
	onChange func()
}

// New creates a controller at the identity transform.
func New(surface input.Surface, size geometry.Size) *Controller {
	return &Controller{
		surface:   surface,
		transform: geometry.IdentityTransform(),
		size:      size,
	}
}

// OnClick registers fn to run when a background gesture ends without
// panning.
func (c *Controller) OnClick(fn func()) {
	c.onClick = fn
}

// OnChange registers fn to run whenever the view state changes.
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// PointerDown starts a background gesture at screen position p. It
// reports false if a gesture is already held.
func (c *Controller) PointerDown(p geometry.Point) bool {
	if c.held {
		return false
	}

	c.held = true
	c.last = p
	c.release = c.surface.Attach(gesture{c})
	c.changed()

	return true
}

// gesture receives surface events only while a press is held.
type gesture struct {
	c *Controller
}

func (g gesture) PointerMove(p geometry.Point) { g.c.pan(p) }
func (g gesture) PointerUp(geometry.Point)     { g.c.end(true) }

func (c *Controller) pan(p geometry.Point) {
	if !c.held {
		return
	}

	delta := p.Sub(c.last)
	c.transform.TranslateX += delta.X
	c.transform.TranslateY += delta.Y
	c.last = p
	c.panning = true
	c.changed()
}

// end leaves the held state and releases the gesture's listeners.
// clicked is false when the gesture is abandoned rather than released.
func (c *Controller) end(clicked bool) {
	if !c.held {
		return
	}

	wasPanning := c.panning
	c.held = false
	c.panning = false
	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.changed()

	if clicked && !wasPanning && c.onClick != nil {
		c.onClick()
	}
}

// Cancel abandons an active gesture without treating it as a click.
func (c *Controller) Cancel() {
	c.end(false)
}

// Wheel zooms in by ZoomStep when deltaY is negative and out otherwise.
// Scale is kept within [geometry.MinScale, geometry.MaxScale].
func (c *Controller) Wheel(deltaY float64) {
	step := -ZoomStep
	if deltaY < 0 {
		step = ZoomStep
	}

	// Snap to tenths so repeated steps don't accumulate float error.
	scale := math.Round((c.transform.Scale+step)*10) / 10
	scale = geometry.ClampScale(scale)
	if scale == c.transform.Scale {
		return
	}
	c.transform.Scale = scale
	c.changed()
}

// Resize records the viewport's pixel size.
func (c *Controller) Resize(size geometry.Size) {
	if size == c.size {
		return
	}
	c.size = size
	c.changed()
}

// Held reports whether a background press is active.
func (c *Controller) Held() bool {
	return c.held
}

// Size returns the viewport's pixel size.
func (c *Controller) Size() geometry.Size {
	return c.size
}

// Transform returns the current pan/zoom transform.
func (c *Controller) Transform() geometry.Transform {
	return c.transform
}

// ScreenToWorld maps a viewport pixel to world space.
func (c *Controller) ScreenToWorld(p geometry.Point) geometry.Point {
	return c.transform.ScreenToWorld(p)
}

// VisibleRect returns the world region currently in view.
func (c *Controller) VisibleRect() geometry.Rect {
	return c.transform.VisibleRect(c.size)
}

// State returns a snapshot of the view.
func (c *Controller) State() State {
	st := State{
		TranslateX: c.transform.TranslateX,
		TranslateY: c.transform.TranslateY,
		Scale:      c.transform.Scale,
		Panning:    c.panning,
	}
	if c.held {
		last := c.last
		st.LastPointer = &last
	}
	return st
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
