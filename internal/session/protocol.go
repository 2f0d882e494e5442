package session

import (
	"encoding/json"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/engine"
	"github.com/virtualboard/board/internal/geometry"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Host input (client → server)
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeWheel       = "wheel"
	TypeResize      = "resize"
	TypeToolSet     = "tool.set"

	// Item mutations (client → server)
	TypeItemAdd    = "item.add"
	TypeItemMove   = "item.move"
	TypeItemResize = "item.resize"
	TypeItemSelect = "item.select"
	TypeItemRemove = "item.remove"

	// Server → client
	TypeItemAdded = "item.added"
	TypeFrame     = "frame"
)

// Error codes sent in error payloads.
const (
	CodeBadMessage          = "bad_message"
	CodeInvalidReference    = "invalid_reference"
	CodeUnknownItemType     = "unknown_item_type"
	CodeInvalidItem         = "invalid_item"
	CodeInvalidDimensions   = "invalid_dimensions"
	CodeImmutableDimensions = "immutable_dimensions"
	CodeUnknownTool         = "unknown_tool"
	CodeInternal            = "internal"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
	Seq    int64  `json:"seq,omitempty"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PointerPayload) point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

type WheelPayload struct {
	DeltaY float64 `json:"deltaY"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ToolPayload struct {
	Tool   string `json:"tool"`
	Color  string `json:"color,omitempty"`
	Filled bool   `json:"filled,omitempty"`
}

type ItemAddPayload struct {
	Item board.ItemSpec `json:"item"`
}

type ItemAddedPayload struct {
	ID string `json:"id"`
}

type ItemMovePayload struct {
	ID   string `json:"id"`
	Top  int    `json:"top"`
	Left int    `json:"left"`
}

type ItemResizePayload struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ItemRefPayload names an item for select and remove. An empty ID in
// item.select clears the selection.
type ItemRefPayload struct {
	ID string `json:"id"`
}

type FramePayload struct {
	Frame    engine.Frame          `json:"frame"`
	Commands []engine.DrawCommand `json:"commands"`
}
