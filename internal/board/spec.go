package board

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ItemSpec describes an item to add. The store assigns the id.
// Width and Height may be left zero for an Idea, which then gets the
// placeholder size until it is measured.
type ItemSpec struct {
	Type   string `json:"type" validate:"required"`
	Top    int    `json:"top"`
	Left   int    `json:"left"`
	Width  int    `json:"width" validate:"gte=0"`
	Height int    `json:"height" validate:"gte=0"`
	Color  string `json:"color" validate:"required"`
	Text   string `json:"text,omitempty"`
	Filled bool   `json:"filled,omitempty"`
}

// build checks the spec and turns it into an item with the given id.
func (s ItemSpec) build(id string) (Item, error) {
	kind, err := ParseKind(s.Type)
	if err != nil {
		return Item{}, err
	}

	if err := validate.Struct(s); err != nil {
		return Item{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	it := Item{
		ID:     id,
		Top:    s.Top,
		Left:   s.Left,
		Width:  s.Width,
		Height: s.Height,
		Color:  s.Color,
	}

	switch kind {
	case KindIdea:
		it.Variant = Idea{Text: s.Text}
		if it.Width == 0 || it.Height == 0 {
			it.Width, it.Height = IdeaDefaultWidth, IdeaDefaultHeight
		}
	case KindRectangle:
		it.Variant = Rectangle{Filled: s.Filled}
		if it.Width <= 0 || it.Height <= 0 {
			return Item{}, fmt.Errorf("%w: rectangle is %dx%d", ErrInvalidDimensions, s.Width, s.Height)
		}
	}

	return it, nil
}

// idPrefix returns the prefix used for generated ids of a kind.
func idPrefix(kind Kind) string {
	switch kind {
	case KindIdea:
		return "i"
	case KindRectangle:
		return "r"
	default:
		return "x"
	}
}
