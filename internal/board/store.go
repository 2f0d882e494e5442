// Package board holds the items of a board and the mutations that can be
// applied to them.
package board

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/virtualboard/board/internal/geometry"
)

// Position is the world-space top-left corner of an item.
type Position struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Dimensions is the size of an item.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Op identifies the kind of mutation reported to observers.
type Op string

const (
	OpAdd    Op = "add"
	OpMove   Op = "move"
	OpResize Op = "resize"
	OpSelect Op = "select"
	OpRemove Op = "remove"
)

// Change describes a mutation that has been applied to the store.
// For OpSelect, ItemID is the new selection and may be empty.
type Change struct {
	Op     Op
	ItemID string
}

type observer struct {
	id int
	fn func(Change)
}

// Store owns an ordered set of items. Insertion order is z-order: later
// items are drawn on top. The selection is held by id and always names
// an item present in the store, or nothing.
//
// A Store is not safe for concurrent use; callers drive it from a single
// event loop.
type Store struct {
	items    []Item
	index    map[string]int // item id -> position in items
	selected string
	nextID   int

	observers      []observer
	nextObserverID int
}

// NewStore creates a store seeded with the given items, in order.
func NewStore(seed []Item) (*Store, error) {
	s := &Store{
		items: make([]Item, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}

	for _, it := range seed {
		if err := it.validate(); err != nil {
			return nil, err
		}
		if _, ok := s.index[it.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
		}
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
	}
	s.nextID = len(s.items)

	return s, nil
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (Item, error) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrInvalidReference, id)
	}
	return s.items[i], nil
}

// All returns the items in z-order. The sequence reads the store each
// time it is iterated, so it can be ranged over repeatedly. The store
// must not be mutated during iteration.
func (s *Store) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, it := range s.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Items returns a copy of the items in z-order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// SelectedID returns the id of the selected item, or "" when nothing is
// selected.
func (s *Store) SelectedID() string {
	return s.selected
}

// Selected returns the selected item, if any.
func (s *Store) Selected() (Item, bool) {
	if s.selected == "" {
		return Item{}, false
	}
	return s.items[s.index[s.selected]], true
}

// AddItem appends a new item built from spec and returns its id.
func (s *Store) AddItem(spec ItemSpec) (string, error) {
	kind, err := ParseKind(spec.Type)
	if err != nil {
		return "", err
	}

	id := s.newID(kind)
	it, err := spec.build(id)
	if err != nil {
		return "", err
	}

	s.index[id] = len(s.items)
	s.items = append(s.items, it)
	s.notify(Change{Op: OpAdd, ItemID: id})

	return id, nil
}

// newID returns an id that has never been generated by this store and is
// not held by any current item. The counter only grows, so ids stay
// unique across removals.
func (s *Store) newID(kind Kind) string {
	for {
		s.nextID++
		id := idPrefix(kind) + strconv.Itoa(s.nextID)
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// SetPosition moves an item. The board is unbounded, so no clamping is
// applied.
func (s *Store) SetPosition(id string, pos Position) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("set position: %w: %s", ErrInvalidReference, id)
	}

	it := &s.items[i]
	if it.Top == pos.Top && it.Left == pos.Left {
		return nil
	}
	it.Top, it.Left = pos.Top, pos.Left
	s.notify(Change{Op: OpMove, ItemID: id})

	return nil
}

// SetDimensions records the measured size of a content-sized item.
// Rectangles keep the size they were drawn with.
func (s *Store) SetDimensions(id string, dim Dimensions) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("set dimensions: %w: %s", ErrInvalidReference, id)
	}
	if dim.Width <= 0 || dim.Height <= 0 {
		return fmt.Errorf("set dimensions of %s: %w: %dx%d", id, ErrInvalidDimensions, dim.Width, dim.Height)
	}

	it := &s.items[i]
	switch it.Variant.(type) {
	case Idea:
	case Rectangle:
		return fmt.Errorf("set dimensions of %s: %w", id, ErrImmutableDimensions)
	default:
		return fmt.Errorf("set dimensions of %s: %w: %T", id, ErrUnknownItemType, it.Variant)
	}

	if it.Width == dim.Width && it.Height == dim.Height {
		return nil
	}
	it.Width, it.Height = dim.Width, dim.Height
	s.notify(Change{Op: OpResize, ItemID: id})

	return nil
}

// SetSelected replaces the selection. An empty id clears it. On error the
// selection is left unchanged.
func (s *Store) SetSelected(id string) error {
	if id != "" {
		if _, ok := s.index[id]; !ok {
			return fmt.Errorf("select: %w: %s", ErrInvalidReference, id)
		}
	}
	if s.selected == id {
		return nil
	}
	s.selected = id
	s.notify(Change{Op: OpSelect, ItemID: id})

	return nil
}

// Remove deletes an item. If it was selected the selection is cleared
// first, so the selection never names a missing item.
func (s *Store) Remove(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("remove: %w: %s", ErrInvalidReference, id)
	}

	if s.selected == id {
		s.selected = ""
		s.notify(Change{Op: OpSelect})
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	s.notify(Change{Op: OpRemove, ItemID: id})

	return nil
}

// ItemAt returns the topmost item containing the world point.
func (s *Store) ItemAt(p geometry.Point) (Item, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Contains(p) {
			return s.items[i], true
		}
	}
	return Item{}, false
}

// Subscribe registers fn to be called synchronously after every
// successful mutation. The returned function unregisters it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.nextObserverID++
	id := s.nextObserverID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	for _, o := range s.observers {
		o.fn(c)
	}
}
