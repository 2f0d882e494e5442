package engine

import (
	"encoding/json"
	"log/slog"
	"math"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/cull"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/input"
	"github.com/virtualboard/board/internal/tool"
	"github.com/virtualboard/board/internal/viewport"
)

// Engine is the board view: it owns the pan/zoom state and the drawing
// tool, mutates the injected item store in response to host pointer
// events, and derives what the renderer should draw.
//
// All methods must be called from one goroutine, in the order the host
// delivers events.
type Engine struct {
	store    *board.Store
	surface  *input.Dispatcher
	viewport *viewport.Controller
	tools    *tool.Machine

	// Active item drag, if any
	drag *itemDrag

	unsubscribe func()

	// Dirty flag - the frame changed since the last Render
	dirty bool
}

// New creates an engine over store for a viewport of the given size.
func New(store *board.Store, size geometry.Size) *Engine {
	surface := input.NewDispatcher()
	vp := viewport.New(surface, size)

	e := &Engine{
		store:    store,
		surface:  surface,
		viewport: vp,
		tools:    tool.New(store, surface, vp),
		dirty:    true,
	}

	markDirty := func() { e.dirty = true }
	e.unsubscribe = store.Subscribe(func(board.Change) { markDirty() })
	vp.OnChange(markDirty)
	e.tools.OnChange(markDirty)

	// A press on the background that never turned into a pan deselects.
	vp.OnClick(func() {
		if err := store.SetSelected(""); err != nil {
			slog.Warn("clear selection", "error", err)
		}
	})
	e.tools.OnCommit(func(id string, err error) {
		if err != nil {
			slog.Warn("commit rectangle", "error", err)
			return
		}
		slog.Debug("rectangle committed", "item", id)
	})

	return e
}

// Close abandons any active gesture and stops observing the store.
func (e *Engine) Close() {
	e.cancelGestures()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Store returns the item store the engine mutates.
func (e *Engine) Store() *board.Store {
	return e.store
}

// --- Host events ---

// PointerDown routes a press at screen position p. A press on an item
// selects it and starts dragging it. A press on the background either
// starts a rectangle (Rectangle tool) or a pan (Move tool). Presses while
// a gesture is active are ignored.
func (e *Engine) PointerDown(p geometry.Point) {
	if e.gestureActive() {
		slog.Debug("pointer down ignored, gesture active")
		return
	}

	world := e.viewport.ScreenToWorld(p)
	if hit, ok := e.store.ItemAt(world); ok {
		if err := e.store.SetSelected(hit.ID); err != nil {
			slog.Warn("select item", "item", hit.ID, "error", err)
			return
		}
		e.startDrag(hit, p)
		return
	}

	if e.tools.PointerDown(p) {
		return
	}
	e.viewport.PointerDown(p)
}

// PointerMove forwards a move seen anywhere on the input surface.
func (e *Engine) PointerMove(p geometry.Point) {
	e.surface.PointerMove(p)
}

// PointerUp forwards a release seen anywhere on the input surface.
func (e *Engine) PointerUp(p geometry.Point) {
	e.surface.PointerUp(p)
}

// Wheel zooms the view.
func (e *Engine) Wheel(deltaY float64) {
	e.viewport.Wheel(deltaY)
}

// Resize records the viewport element's new pixel size. Sizes without
// area are ignored.
func (e *Engine) Resize(size geometry.Size) {
	if size.IsZero() {
		return
	}
	e.viewport.Resize(size)
}

// SetTool switches the interaction mode, discarding a rectangle being
// drawn.
func (e *Engine) SetTool(t tool.Tool) {
	e.tools.SetTool(t)
}

// Tool returns the active interaction mode.
func (e *Engine) Tool() tool.Tool {
	return e.tools.Tool()
}

// SetStyle sets the style of rectangles drawn from now on.
func (e *Engine) SetStyle(s tool.Style) {
	e.tools.SetStyle(s)
}

func (e *Engine) gestureActive() bool {
	return e.drag != nil || e.viewport.Held() || e.tools.Drawing()
}

func (e *Engine) cancelGestures() {
	e.stopDrag()
	e.viewport.Cancel()
	e.tools.Cancel()
}

// --- Item drag ---

type itemDrag struct {
	e       *Engine
	id      string
	start   board.Position
	origin  geometry.Point
	release func()
}

func (e *Engine) startDrag(it board.Item, p geometry.Point) {
	d := &itemDrag{
		e:      e,
		id:     it.ID,
		start:  board.Position{Top: it.Top, Left: it.Left},
		origin: p,
	}
	d.release = e.surface.Attach(d)
	e.drag = d
	slog.Debug("drag started", "item", it.ID)
}

// PointerMove moves the item by the total screen delta since the press,
// converted to world units.
func (d *itemDrag) PointerMove(p geometry.Point) {
	scale := d.e.viewport.Transform().Scale
	delta := p.Sub(d.origin)
	pos := board.Position{
		Top:  d.start.Top + int(math.Round(delta.Y/scale)),
		Left: d.start.Left + int(math.Round(delta.X/scale)),
	}
	if err := d.e.store.SetPosition(d.id, pos); err != nil {
		// The item went away mid-drag.
		slog.Warn("drag item", "item", d.id, "error", err)
		d.e.stopDrag()
	}
}

func (d *itemDrag) PointerUp(geometry.Point) {
	d.e.stopDrag()
}

func (e *Engine) stopDrag() {
	if e.drag == nil {
		return
	}
	e.drag.release()
	e.drag = nil
}

// --- Queries ---

// Frame is everything a renderer needs to draw the board.
type Frame struct {
	Viewport viewport.State `json:"viewport"`
	Size     geometry.Size  `json:"size"`
	Visible  geometry.Rect  `json:"visible"`
	Items    []board.Item   `json:"items"`
	Draft    *tool.Draft    `json:"draft,omitempty"`
	Selected string         `json:"selected,omitempty"`
	Tool     tool.Tool      `json:"tool"`
}

// Frame derives the current frame. Culling runs on every call.
func (e *Engine) Frame() Frame {
	f := Frame{
		Viewport: e.viewport.State(),
		Size:     e.viewport.Size(),
		Visible:  e.viewport.VisibleRect(),
		Selected: e.store.SelectedID(),
		Tool:     e.tools.Tool(),
		Items:    []board.Item{},
	}
	if !f.Size.IsZero() {
		f.Items = cull.Collect(e.store.All(), f.Visible)
	}
	if d, ok := e.tools.Draft(); ok {
		f.Draft = &d
	}
	return f
}

// Dirty reports whether the frame changed since the last Render.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// Flush derives the current frame and its draw commands and clears the
// dirty flag.
func (e *Engine) Flush() (Frame, []DrawCommand) {
	f := e.Frame()
	e.dirty = false
	return f, CompileDrawCommands(f)
}

// Render compiles the current frame to draw commands as JSON and clears
// the dirty flag.
func (e *Engine) Render() string {
	_, commands := e.Flush()

	result, err := DrawCommandsToJSON(commands)
	if err != nil {
		slog.Error("encode draw commands", "error", err)
	}
	return result
}

// HitTest returns the id of the topmost item under screen position p, or
// an empty string.
func (e *Engine) HitTest(p geometry.Point) string {
	it, ok := e.store.ItemAt(e.viewport.ScreenToWorld(p))
	if !ok {
		return ""
	}
	return it.ID
}

// SelectionBounds returns the world box of the selected item.
func (e *Engine) SelectionBounds() geometry.Rect {
	it, ok := e.store.Selected()
	if !ok {
		return geometry.Rect{}
	}
	return it.Bounds()
}

// FrameJSON returns the current frame as JSON.
func (e *Engine) FrameJSON() string {
	data, err := json.Marshal(e.Frame())
	if err != nil {
		slog.Error("encode frame", "error", err)
		return "{}"
	}
	return string(data)
}
