// Package tool implements the board's interaction modes: moving things
// around, and drawing new rectangles.
package tool

import (
	"errors"
	"fmt"
	"math"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/input"
)

var ErrUnknownTool = errors.New("unknown tool")

// Tool is an interaction mode.
type Tool string

const (
	Move      Tool = "move"
	Rectangle Tool = "rectangle"
)

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case Move, Rectangle:
		return Tool(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
}

// SeedSize is the width and height of a rectangle when drawing starts.
const SeedSize = 8

// Draft is a rectangle being drawn. Width and Height are measured from
// the anchor to the pointer and are negative when the pointer is above or
// left of the anchor.
type Draft struct {
	AnchorLeft int `json:"anchorLeft"`
	AnchorTop  int `json:"anchorTop"`
	Width      int `json:"width"`
	Height     int `json:"height"`
}

// Normalized returns the draft as a box with positive extents. A zero
// extent becomes SeedSize.
func (d Draft) Normalized() (board.Position, board.Dimensions) {
	left, width := normalizeSpan(d.AnchorLeft, d.Width)
	top, height := normalizeSpan(d.AnchorTop, d.Height)
	return board.Position{Top: top, Left: left}, board.Dimensions{Width: width, Height: height}
}

// Bounds returns the normalized draft box in world space.
func (d Draft) Bounds() geometry.Rect {
	pos, dim := d.Normalized()
	return geometry.RectFromBox(float64(pos.Left), float64(pos.Top), float64(dim.Width), float64(dim.Height))
}

func normalizeSpan(anchor, extent int) (start, size int) {
	switch {
	case extent == 0:
		return anchor, SeedSize
	case extent < 0:
		return anchor + extent, -extent
	default:
		return anchor, extent
	}
}

// Style is applied to committed rectangles.
type Style struct {
	Color  string
	Filled bool
}

// DefaultStyle draws black outlines.
var DefaultStyle = Style{Color: "black"}

// Projector maps screen positions into world space.
type Projector interface {
	ScreenToWorld(p geometry.Point) geometry.Point
}

// Machine tracks the active tool and any rectangle being drawn.
type Machine struct {
	store   *board.Store
	surface input.Surface
	view    Projector
	tool    Tool
	style   Style

	draft   *Draft
	release func()

	onChange func()
	onCommit func(id string, err error)
}

// New returns a machine with the Move tool active.
func New(store *board.Store, surface input.Surface, view Projector) *Machine {
	return &Machine{
		store:   store,
		surface: surface,
		view:    view,
		tool:    Move,
		style:   DefaultStyle,
	}
}

// OnChange registers fn to run when the tool or draft changes.
func (m *Machine) OnChange(fn func()) {
	m.onChange = fn
}

// OnCommit registers fn to run after a draft has been committed to the
// store.
func (m *Machine) OnCommit(fn func(id string, err error)) {
	m.onCommit = fn
}

// Tool returns the active tool.
func (m *Machine) Tool() Tool {
	return m.tool
}

// SetTool switches tools. A rectangle being drawn is discarded.
func (m *Machine) SetTool(t Tool) {
	if t == m.tool {
		return
	}
	m.Cancel()
	m.tool = t
	m.changed()
}

// SetStyle sets the style of rectangles committed from now on.
func (m *Machine) SetStyle(s Style) {
	m.style = s
}

// Drawing reports whether a rectangle is being drawn.
func (m *Machine) Drawing() bool {
	return m.draft != nil
}

// Draft returns the rectangle being drawn, if any.
func (m *Machine) Draft() (Draft, bool) {
	if m.draft == nil {
		return Draft{}, false
	}
	return *m.draft, true
}

// PointerDown starts a draft at screen position p when the Rectangle
// tool is active. It reports whether a draft was started.
func (m *Machine) PointerDown(p geometry.Point) bool {
	if m.tool != Rectangle || m.draft != nil {
		return false
	}

	w := m.view.ScreenToWorld(p)
	m.draft = &Draft{
		AnchorLeft: round(w.X),
		AnchorTop:  round(w.Y),
		Width:      SeedSize,
		Height:     SeedSize,
	}
	m.release = m.surface.Attach(drawing{m})
	m.changed()

	return true
}

type drawing struct {
	m *Machine
}

func (d drawing) PointerMove(p geometry.Point) { d.m.resize(p) }
func (d drawing) PointerUp(geometry.Point)     { d.m.commit() }

func (m *Machine) resize(p geometry.Point) {
	if m.draft == nil {
		return
	}
	w := m.view.ScreenToWorld(p)
	m.draft.Width = round(w.X) - m.draft.AnchorLeft
	m.draft.Height = round(w.Y) - m.draft.AnchorTop
	m.changed()
}

func (m *Machine) commit() {
	d := m.draft
	if d == nil {
		return
	}
	m.stop()

	pos, dim := d.Normalized()
	id, err := m.store.AddItem(board.ItemSpec{
		Type:   string(board.KindRectangle),
		Top:    pos.Top,
		Left:   pos.Left,
		Width:  dim.Width,
		Height: dim.Height,
		Color:  m.style.Color,
		Filled: m.style.Filled,
	})
	m.changed()

	if m.onCommit != nil {
		m.onCommit(id, err)
	}
}

// Cancel discards a draft without committing it.
func (m *Machine) Cancel() {
	if m.draft == nil {
		return
	}
	m.stop()
	m.changed()
}

func (m *Machine) stop() {
	m.draft = nil
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

func (m *Machine) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
