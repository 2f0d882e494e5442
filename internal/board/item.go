package board

import (
	"encoding/json"
	"fmt"

	"github.com/virtualboard/board/internal/geometry"
)

// Kind is the item type discriminant.
type Kind string

const (
	KindIdea      Kind = "IDEA"
	KindRectangle Kind = "RECTANGLE"
)

// Placeholder size of an Idea until the renderer reports its measured size.
const (
	IdeaDefaultWidth  = 160
	IdeaDefaultHeight = 200
)

// ParseKind validates a type discriminant. Unknown values are rejected
// rather than defaulting to an Idea.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIdea, KindRectangle:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
	}
}

// Variant holds the fields that only exist for one item kind.
// Implementations are Idea and Rectangle.
type Variant interface {
	Kind() Kind
}

// Idea is a note whose size comes from its rendered content.
type Idea struct {
	Text string
}

func (Idea) Kind() Kind { return KindIdea }

// Rectangle is a user-drawn box. Its size is fixed once committed.
type Rectangle struct {
	Filled bool
}

func (Rectangle) Kind() Kind { return KindRectangle }

// Item is a spatial element of the board, positioned in world space by
// its top-left corner.
type Item struct {
	ID      string
	Top     int
	Left    int
	Width   int
	Height  int
	Color   string
	Variant Variant
}

// Kind returns the item's type discriminant.
func (it Item) Kind() Kind {
	return it.Variant.Kind()
}

// Bounds returns the item's box in world space.
func (it Item) Bounds() geometry.Rect {
	return geometry.RectFromBox(float64(it.Left), float64(it.Top), float64(it.Width), float64(it.Height))
}

// Contains reports whether the world point lies inside the item's box.
func (it Item) Contains(p geometry.Point) bool {
	return it.Bounds().Contains(p)
}

func (it Item) validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if it.Variant == nil {
		return fmt.Errorf("%w: item %s has no variant", ErrInvalidItem, it.ID)
	}
	if it.Width <= 0 || it.Height <= 0 {
		return fmt.Errorf("%w: item %s is %dx%d", ErrInvalidDimensions, it.ID, it.Width, it.Height)
	}
	return nil
}

// itemJSON is the flat snapshot shape used on the wire.
type itemJSON struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Top    int    `json:"top"`
	Left   int    `json:"left"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
	Text   string `json:"text,omitempty"`
	Filled *bool  `json:"filled,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:     it.ID,
		Top:    it.Top,
		Left:   it.Left,
		Width:  it.Width,
		Height: it.Height,
		Color:  it.Color,
	}

	switch v := it.Variant.(type) {
	case Idea:
		out.Type = string(KindIdea)
		out.Text = v.Text
	case Rectangle:
		out.Type = string(KindRectangle)
		filled := v.Filled
		out.Filled = &filled
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownItemType, it.Variant)
	}

	return json.Marshal(out)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var in itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	kind, err := ParseKind(in.Type)
	if err != nil {
		return err
	}

	*it = Item{
		ID:     in.ID,
		Top:    in.Top,
		Left:   in.Left,
		Width:  in.Width,
		Height: in.Height,
		Color:  in.Color,
	}

	switch kind {
	case KindIdea:
		it.Variant = Idea{Text: in.Text}
		if it.Width == 0 || it.Height == 0 {
			it.Width, it.Height = IdeaDefaultWidth, IdeaDefaultHeight
		}
	case KindRectangle:
		it.Variant = Rectangle{Filled: in.Filled != nil && *in.Filled}
	}

	return nil
}
