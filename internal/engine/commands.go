package engine

import (
	"encoding/json"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/geometry"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// Boxes are in world space; Transform maps them to viewport pixels.
type DrawCommand struct {
	Op          string    `json:"op"`                    // Operation: "idea", "rect", "draft"
	ObjectID    string    `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64 `json:"transform"`             // [a, b, c, d, e, f] affine matrix
	X           float64   `json:"x"`                     // World-space left
	Y           float64   `json:"y"`                     // World-space top
	Width       float64   `json:"width"`                 // World-space width
	Height      float64   `json:"height"`                // World-space height
	Fill        string    `json:"fill,omitempty"`        // Fill color
	Stroke      string    `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64   `json:"strokeWidth,omitempty"` // Stroke width
	Text        string    `json:"text,omitempty"`        // Idea text
	Selected    bool      `json:"selected,omitempty"`    // Draw selection outline
}

const (
	outlineWidth = 2.0
	draftStroke  = "#3b82f6"
)

// CompileDrawCommands generates a draw command buffer from a frame.
// Commands are in painter's order (back to front), with the rectangle
// being drawn last.
func CompileDrawCommands(f Frame) []DrawCommand {
	view := geometry.Transform{
		TranslateX: f.Viewport.TranslateX,
		TranslateY: f.Viewport.TranslateY,
		Scale:      f.Viewport.Scale,
	}.Matrix().ToSlice()

	commands := make([]DrawCommand, 0, len(f.Items)+1)
	for _, it := range f.Items {
		cmd := DrawCommand{
			ObjectID:  it.ID,
			Transform: view,
			X:         float64(it.Left),
			Y:         float64(it.Top),
			Width:     float64(it.Width),
			Height:    float64(it.Height),
			Selected:  it.ID == f.Selected,
		}

		switch v := it.Variant.(type) {
		case board.Idea:
			cmd.Op = "idea"
			cmd.Fill = it.Color
			cmd.Text = v.Text
		case board.Rectangle:
			cmd.Op = "rect"
			if v.Filled {
				cmd.Fill = it.Color
			} else {
				cmd.Stroke = it.Color
				cmd.StrokeWidth = outlineWidth
			}
		default:
			continue
		}

		commands = append(commands, cmd)
	}

	if f.Draft != nil {
		b := f.Draft.Bounds()
		commands = append(commands, DrawCommand{
			Op:          "draft",
			Transform:   view,
			X:           b.Left,
			Y:           b.Top,
			Width:       b.Width(),
			Height:      b.Height(),
			Stroke:      draftStroke,
			StrokeWidth: outlineWidth,
		})
	}

	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geometry.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.Left,
		"y":      r.Top,
		"width":  r.Width(),
		"height": r.Height(),
	})
	return string(data)
}
