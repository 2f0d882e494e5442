package board

import (
	"math"
	"math/rand/v2"
	"strconv"
)

// SampleItems returns a demo board of n rectangles: three fixed ones
// near the origin followed by randomly sized and placed filler spread
// over roughly 20000x20000 world units. If n is less than three, only
// the first n fixed items are returned.
func SampleItems(n int, rng *rand.Rand) []Item {
	fixed := []Item{
		{ID: "1", Width: 300, Height: 450, Top: -50, Left: 300, Color: "blue", Variant: Rectangle{Filled: true}},
		{ID: "2", Width: 160, Height: 240, Top: 250, Left: 700, Color: "yellow", Variant: Rectangle{Filled: true}},
		{ID: "3", Width: 160, Height: 240, Top: -500, Left: -1700, Color: "yellow", Variant: Rectangle{Filled: true}},
	}
	if n <= len(fixed) {
		return fixed[:max(n, 0)]
	}

	items := make([]Item, 0, n)
	items = append(items, fixed...)
	for i := len(fixed); i < n; i++ {
		items = append(items, Item{
			ID:      strconv.Itoa(i + 1),
			Width:   max(200, int(math.Round(500*rng.Float64()))),
			Height:  max(200, int(math.Round(500*rng.Float64()))),
			Top:     randomCoord(rng),
			Left:    randomCoord(rng),
			Color:   "yellow",
			Variant: Rectangle{Filled: true},
		})
	}

	return items
}

func randomCoord(rng *rand.Rand) int {
	v := int(math.Round(10000 * rng.Float64()))
	if rng.Float64() < 0.5 {
		return -v
	}
	return v
}

// WelcomeIdea returns a note placed in the default viewport.
func WelcomeIdea() Item {
	return Item{
		ID:      "welcome",
		Top:     10,
		Left:    300,
		Width:   IdeaDefaultWidth,
		Height:  IdeaDefaultHeight,
		Color:   "yellow",
		Variant: Idea{Text: "Drag the background to pan, scroll to zoom."},
	}
}
