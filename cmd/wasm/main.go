//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"syscall/js"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/engine"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/tool"
)

const (
	sampleItems = 10000
	sampleSeed  = 1
)

var eng *engine.Engine

func main() {
	rng := rand.New(rand.NewPCG(sampleSeed, sampleSeed))
	store, err := board.NewStore(append(board.SampleItems(sampleItems, rng), board.WelcomeIdea()))
	if err != nil {
		slog.Error("seed board", "error", err)
		return
	}
	eng = engine.New(store, geometry.Size{Width: 800, Height: 600})

	// Create the engine API object
	boardEngine := js.Global().Get("Object").New()

	// --- Host events (frontend → engine) ---
	boardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	boardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	boardEngine.Set("pointerUp", js.FuncOf(pointerUp))
	boardEngine.Set("wheel", js.FuncOf(wheel))
	boardEngine.Set("resize", js.FuncOf(resize))
	boardEngine.Set("setTool", js.FuncOf(setTool))
	boardEngine.Set("addItem", js.FuncOf(addItem))
	boardEngine.Set("setSelected", js.FuncOf(setSelected))

	// --- Queries (frontend ← engine) ---
	boardEngine.Set("isDirty", js.FuncOf(isDirty))
	boardEngine.Set("render", js.FuncOf(render))
	boardEngine.Set("getFrame", js.FuncOf(getFrame))
	boardEngine.Set("getSelected", js.FuncOf(getSelected))
	boardEngine.Set("hitTest", js.FuncOf(hitTest))
	boardEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))

	// Register on global scope
	js.Global().Set("boardEngine", boardEngine)

	// Signal that WASM is ready
	js.Global().Set("boardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func point(args []js.Value) (geometry.Point, bool) {
	if len(args) < 2 {
		return geometry.Point{}, false
	}
	return geometry.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

// --- Event Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	if p, ok := point(args); ok {
		eng.PointerDown(p)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if p, ok := point(args); ok {
		eng.PointerMove(p)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if p, ok := point(args); ok {
		eng.PointerUp(p)
	}
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Wheel(args[0].Float())
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(geometry.Size{Width: args[0].Float(), Height: args[1].Float()})
	return nil
}

// setTool takes the tool name and, optionally, the color and fill of
// rectangles drawn with it.
func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tool"})
	}

	t, err := tool.ParseTool(args[0].String())
	if err != nil {
		return errorValue(err)
	}
	if len(args) >= 3 {
		eng.SetStyle(tool.Style{Color: args[1].String(), Filled: args[2].Bool()})
	}
	eng.SetTool(t)

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func addItem(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing item JSON"})
	}

	var spec board.ItemSpec
	if err := json.Unmarshal([]byte(args[0].String()), &spec); err != nil {
		return errorValue(err)
	}

	id, err := eng.Store().AddItem(spec)
	if err != nil {
		return errorValue(err)
	}

	return js.ValueOf(map[string]interface{}{"id": id})
}

func setSelected(this js.Value, args []js.Value) interface{} {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}

	if err := eng.Store().SetSelected(id); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func isDirty(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Dirty())
}

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func getFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.FrameJSON())
}

func getSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Store().SelectedID())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(p))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(engine.RectToJSON(eng.SelectionBounds()))
}
