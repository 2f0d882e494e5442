package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/tool"
)

func newEngine(t *testing.T, items ...board.Item) *Engine {
	t.Helper()
	store, err := board.NewStore(items)
	require.NoError(t, err)
	e := New(store, geometry.Size{Width: 800, Height: 600})
	t.Cleanup(e.Close)
	return e
}

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func farBox() board.Item {
	return board.Item{ID: "far", Top: 5000, Left: 5000, Width: 100, Height: 100, Color: "red", Variant: board.Rectangle{Filled: true}}
}

func itemIDs(items []board.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFrameCullsToViewport(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea(), farBox())

	f := e.Frame()
	assert.Equal(t, geometry.Rect{Left: 0, Top: 0, Right: 800, Bottom: 600}, f.Visible)
	assert.Equal(t, []string{"welcome"}, itemIDs(f.Items))
	assert.Equal(t, tool.Move, f.Tool)
	assert.Nil(t, f.Draft)
}

func TestPanRevealsItems(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea(), farBox())

	e.PointerDown(pt(700, 500))
	e.PointerMove(pt(-4300, -4500))
	e.PointerUp(pt(-4300, -4500))

	f := e.Frame()
	assert.Equal(t, -5000.0, f.Viewport.TranslateX)
	assert.Equal(t, -5000.0, f.Viewport.TranslateY)
	assert.Equal(t, []string{"far"}, itemIDs(f.Items))
	assert.False(t, f.Viewport.Panning)
}

func TestZoomOutRevealsItems(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea(), farBox())

	for i := 0; i < 9; i++ {
		e.Wheel(1)
	}
	f := e.Frame()
	assert.Equal(t, geometry.MinScale, f.Viewport.Scale)
	assert.Equal(t, geometry.Rect{Left: 0, Top: 0, Right: 8000, Bottom: 6000}, f.Visible)
	assert.Equal(t, []string{"welcome", "far"}, itemIDs(f.Items))
}

func TestClickBackgroundDeselects(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())

	e.PointerDown(pt(350, 50))
	e.PointerUp(pt(350, 50))
	assert.Equal(t, "welcome", e.Store().SelectedID())

	e.PointerDown(pt(10, 500))
	e.PointerUp(pt(10, 500))
	assert.Equal(t, "", e.Store().SelectedID())
}

func TestPanKeepsSelection(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	require.NoError(t, e.Store().SetSelected("welcome"))

	e.PointerDown(pt(10, 500))
	e.PointerMove(pt(20, 510))
	e.PointerUp(pt(20, 510))
	assert.Equal(t, "welcome", e.Store().SelectedID())
}

func TestDragItem(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	e.Wheel(-1) // scale 1.1
	e.Wheel(-1) // scale 1.2

	start, _ := e.Store().Get("welcome")
	screen := geometry.Transform{Scale: 1.2}.WorldToScreen(geometry.Point{X: float64(start.Left) + 5, Y: float64(start.Top) + 5})

	e.PointerDown(screen)
	assert.Equal(t, "welcome", e.Store().SelectedID())

	e.PointerMove(pt(screen.X+24, screen.Y-12))
	e.PointerMove(pt(screen.X+60, screen.Y+120))
	e.PointerUp(pt(screen.X+60, screen.Y+120))

	moved, _ := e.Store().Get("welcome")
	assert.Equal(t, start.Left+50, moved.Left)
	assert.Equal(t, start.Top+100, moved.Top)
	assert.Equal(t, 1.2, e.Frame().Viewport.Scale)
	assert.Equal(t, 0.0, e.Frame().Viewport.TranslateX, "dragging an item does not pan")

	e.PointerMove(pt(0, 0))
	after, _ := e.Store().Get("welcome")
	assert.Equal(t, moved, after, "drag ended")
}

func TestDrawRectangleThroughEngine(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	e.SetTool(tool.Rectangle)

	e.PointerDown(pt(10, 300))
	e.PointerMove(pt(60, 340))

	f := e.Frame()
	require.NotNil(t, f.Draft)
	assert.Equal(t, 50, f.Draft.Width)
	assert.Equal(t, 0.0, f.Viewport.TranslateX, "drawing does not pan")

	e.PointerUp(pt(60, 340))
	assert.Equal(t, 2, e.Store().Len())
	assert.Nil(t, e.Frame().Draft)

	items := e.Frame().Items
	require.Len(t, items, 2)
	assert.Equal(t, board.KindRectangle, items[1].Kind())
	assert.Equal(t, 50, items[1].Width)
	assert.Equal(t, 40, items[1].Height)
}

func TestRectangleToolStillSelectsItems(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	e.SetTool(tool.Rectangle)

	e.PointerDown(pt(350, 50))
	e.PointerUp(pt(350, 50))

	assert.Equal(t, "welcome", e.Store().SelectedID())
	assert.Equal(t, 1, e.Store().Len())
}

func TestSwitchToolMidDrawCancels(t *testing.T) {
	e := newEngine(t)
	e.SetTool(tool.Rectangle)

	e.PointerDown(pt(10, 10))
	e.PointerMove(pt(80, 80))
	e.SetTool(tool.Move)
	e.PointerUp(pt(80, 80))

	assert.Equal(t, 0, e.Store().Len())
	assert.Nil(t, e.Frame().Draft)
}

func TestPressDuringGestureIgnored(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())

	e.PointerDown(pt(10, 500))
	e.PointerDown(pt(350, 50))
	assert.Equal(t, "", e.Store().SelectedID())

	e.PointerUp(pt(10, 500))
}

func TestResizeIgnoresEmptySize(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())

	e.Resize(geometry.Size{Width: 0, Height: 400})
	assert.Equal(t, geometry.Size{Width: 800, Height: 600}, e.Frame().Size)

	e.Resize(geometry.Size{Width: 200, Height: 100})
	f := e.Frame()
	assert.Equal(t, geometry.Rect{Left: 0, Top: 0, Right: 200, Bottom: 100}, f.Visible)
	assert.Empty(t, f.Items, "welcome idea starts at x=300")
}

func TestEmptyViewportHasNoItems(t *testing.T) {
	store, err := board.NewStore([]board.Item{board.WelcomeIdea()})
	require.NoError(t, err)
	e := New(store, geometry.Size{})
	defer e.Close()

	assert.Empty(t, e.Frame().Items)
}

func TestDirtyTracking(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	assert.True(t, e.Dirty())

	e.Render()
	assert.False(t, e.Dirty())

	e.Wheel(-1)
	assert.True(t, e.Dirty())
	e.Render()

	require.NoError(t, e.Store().SetPosition("welcome", board.Position{Top: 1, Left: 1}))
	assert.True(t, e.Dirty(), "store changes dirty the frame")
	e.Render()

	e.PointerMove(pt(5, 5))
	assert.False(t, e.Dirty(), "stray moves change nothing")
}

func TestCloseStopsObserving(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())
	e.PointerDown(pt(10, 500))
	e.Close()

	assert.False(t, e.Frame().Viewport.Panning)
	assert.Nil(t, e.Frame().Viewport.LastPointer)

	e.Render()
	require.NoError(t, e.Store().SetPosition("welcome", board.Position{Top: 2, Left: 2}))
	assert.False(t, e.Dirty())
}

func TestRender(t *testing.T) {
	e := newEngine(t,
		board.WelcomeIdea(),
		board.Item{ID: "outline", Top: 0, Left: 0, Width: 10, Height: 10, Color: "black", Variant: board.Rectangle{}},
	)
	require.NoError(t, e.Store().SetSelected("outline"))
	e.SetTool(tool.Rectangle)
	e.PointerDown(pt(100, 400))

	var commands []DrawCommand
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &commands))
	require.Len(t, commands, 3)

	assert.Equal(t, "idea", commands[0].Op)
	assert.Equal(t, "welcome", commands[0].ObjectID)
	assert.Equal(t, "yellow", commands[0].Fill)
	assert.NotEmpty(t, commands[0].Text)
	assert.False(t, commands[0].Selected)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, commands[0].Transform)

	assert.Equal(t, "rect", commands[1].Op)
	assert.Equal(t, "black", commands[1].Stroke)
	assert.Empty(t, commands[1].Fill)
	assert.True(t, commands[1].Selected)

	assert.Equal(t, "draft", commands[2].Op)
	assert.Equal(t, 100.0, commands[2].X)
	assert.Equal(t, float64(tool.SeedSize), commands[2].Width)
}

func TestHitTestAndSelectionBounds(t *testing.T) {
	e := newEngine(t, board.WelcomeIdea())

	assert.Equal(t, "welcome", e.HitTest(pt(300, 10)))
	assert.Equal(t, "", e.HitTest(pt(0, 0)))

	assert.Equal(t, geometry.Rect{}, e.SelectionBounds())
	require.NoError(t, e.Store().SetSelected("welcome"))
	assert.Equal(t, geometry.Rect{Left: 300, Top: 10, Right: 460, Bottom: 210}, e.SelectionBounds())
	assert.JSONEq(t, `{"x":300,"y":10,"width":160,"height":200}`, RectToJSON(e.SelectionBounds()))
}
