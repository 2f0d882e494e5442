// Package cull selects the items that fall inside the visible part of
// the board.
package cull

import (
	"iter"
	"slices"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/geometry"
)

// Overlaps reports whether the item's box overlaps view. Items that only
// touch an edge of view are outside it.
func Overlaps(it board.Item, view geometry.Rect) bool {
	return view.Overlaps(it.Bounds())
}

// Visible lazily filters items down to those overlapping view, keeping
// their order. Each range over the result re-reads items, so it is
// restartable whenever items is.
func Visible(items iter.Seq[board.Item], view geometry.Rect) iter.Seq[board.Item] {
	return func(yield func(board.Item) bool) {
		for it := range items {
			if !Overlaps(it, view) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// Collect returns the visible items as a slice.
func Collect(items iter.Seq[board.Item], view geometry.Rect) []board.Item {
	return slices.Collect(Visible(items, view))
}
