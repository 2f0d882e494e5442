package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualboard/board/internal/geometry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore([]Item{
		WelcomeIdea(),
		{ID: "box", Top: 100, Left: 100, Width: 50, Height: 50, Color: "black", Variant: Rectangle{}},
	})
	require.NoError(t, err)
	return s
}

func TestNewStore(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewStore([]Item{WelcomeIdea(), WelcomeIdea()})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("rejects empty boxes", func(t *testing.T) {
		_, err := NewStore([]Item{{ID: "a", Color: "red", Variant: Rectangle{}}})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})

	t.Run("rejects missing variant", func(t *testing.T) {
		_, err := NewStore([]Item{{ID: "a", Width: 1, Height: 1}})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("keeps seed order", func(t *testing.T) {
		s := newTestStore(t)
		ids := []string{}
		for it := range s.All() {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []string{"welcome", "box"}, ids)
	})
}

func TestStoreAddItem(t *testing.T) {
	s := newTestStore(t)
	before := s.Len()

	id, err := s.AddItem(ItemSpec{Type: "RECTANGLE", Top: 0, Left: 0, Width: 50, Height: 50, Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, before+1, s.Len())
	assert.NotEqual(t, "welcome", id)
	assert.NotEqual(t, "box", id)

	it, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Filled: false}, it.Variant)
	assert.Equal(t, 50, it.Width)

	items := s.Items()
	assert.Equal(t, id, items[len(items)-1].ID, "new items go on top")
}

func TestStoreAddItemRejects(t *testing.T) {
	tests := []struct {
		name string
		spec ItemSpec
		err  error
	}{
		{"unknown type", ItemSpec{Type: "CIRCLE", Color: "red", Width: 1, Height: 1}, ErrUnknownItemType},
		{"missing type", ItemSpec{Color: "red", Width: 1, Height: 1}, ErrUnknownItemType},
		{"missing color", ItemSpec{Type: "RECTANGLE", Width: 1, Height: 1}, ErrInvalidItem},
		{"negative width", ItemSpec{Type: "IDEA", Color: "red", Width: -1, Height: 1}, ErrInvalidItem},
		{"rectangle without size", ItemSpec{Type: "RECTANGLE", Color: "red"}, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.AddItem(tt.spec)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 2, s.Len())
		})
	}
}

func TestStoreAddIdeaUsesPlaceholder(t *testing.T) {
	s := newTestStore(t)
	id, err := s.AddItem(ItemSpec{Type: "IDEA", Top: 5, Left: 5, Color: "yellow", Text: "new"})
	require.NoError(t, err)

	it, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, IdeaDefaultWidth, it.Width)
	assert.Equal(t, IdeaDefaultHeight, it.Height)
	assert.Equal(t, Idea{Text: "new"}, it.Variant)
}

func TestStoreIDsStayUniqueAfterRemoval(t *testing.T) {
	s := newTestStore(t)
	seen := map[string]bool{"welcome": true, "box": true}

	for i := 0; i < 20; i++ {
		id, err := s.AddItem(ItemSpec{Type: "RECTANGLE", Width: 10, Height: 10, Color: "red"})
		require.NoError(t, err)
		require.False(t, seen[id], "id %s reused", id)
		seen[id] = true

		if i%3 == 0 {
			require.NoError(t, s.Remove(id))
		}
	}
}

func TestStoreIDSkipsSeededCollision(t *testing.T) {
	s, err := NewStore([]Item{{ID: "r2", Width: 1, Height: 1, Color: "red", Variant: Rectangle{}}})
	require.NoError(t, err)

	id, err := s.AddItem(ItemSpec{Type: "RECTANGLE", Width: 10, Height: 10, Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, "r3", id)
}

func TestStoreSetPosition(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetPosition("box", Position{Top: 5, Left: 5}))
	once := s.Items()
	require.NoError(t, s.SetPosition("box", Position{Top: 5, Left: 5}))
	assert.Equal(t, once, s.Items())

	require.NoError(t, s.SetPosition("box", Position{Top: -1e6, Left: 1e6}))
	it, _ := s.Get("box")
	assert.Equal(t, -1000000, it.Top)
	assert.Equal(t, 1000000, it.Left)

	assert.ErrorIs(t, s.SetPosition("missing", Position{}), ErrInvalidReference)
}

func TestStoreSetDimensions(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetDimensions("welcome", Dimensions{Width: 180, Height: 90}))
	it, _ := s.Get("welcome")
	assert.Equal(t, 180, it.Width)
	assert.Equal(t, 90, it.Height)

	assert.ErrorIs(t, s.SetDimensions("welcome", Dimensions{Width: 0, Height: 90}), ErrInvalidDimensions)
	assert.ErrorIs(t, s.SetDimensions("box", Dimensions{Width: 10, Height: 10}), ErrImmutableDimensions)
	assert.ErrorIs(t, s.SetDimensions("missing", Dimensions{Width: 10, Height: 10}), ErrInvalidReference)
}

func TestStoreSetSelected(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetSelected("box"))
	assert.Equal(t, "box", s.SelectedID())

	err := s.SetSelected("nonexistent-id")
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, "box", s.SelectedID(), "selection unchanged on error")

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "box", sel.ID)

	require.NoError(t, s.SetSelected(""))
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestStoreRemoveClearsSelection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetSelected("welcome"))

	require.NoError(t, s.Remove("welcome"))
	assert.Equal(t, "", s.SelectedID())
	assert.Equal(t, 1, s.Len())

	it, err := s.Get("box")
	require.NoError(t, err, "index rebuilt after removal")
	assert.Equal(t, "box", it.ID)

	assert.ErrorIs(t, s.Remove("welcome"), ErrInvalidReference)
}

func TestStoreItemAt(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddItem(ItemSpec{Type: "RECTANGLE", Top: 110, Left: 110, Width: 10, Height: 10, Color: "red"})
	require.NoError(t, err)

	top, ok := s.ItemAt(geometry.Point{X: 115, Y: 115})
	require.True(t, ok)
	assert.Equal(t, "r3", top.ID, "topmost item wins")

	under, ok := s.ItemAt(geometry.Point{X: 101, Y: 101})
	require.True(t, ok)
	assert.Equal(t, "box", under.ID)

	_, ok = s.ItemAt(geometry.Point{X: -5000, Y: -5000})
	assert.False(t, ok)
}

func TestStoreSubscribe(t *testing.T) {
	s := newTestStore(t)

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	id, err := s.AddItem(ItemSpec{Type: "IDEA", Color: "yellow"})
	require.NoError(t, err)
	require.NoError(t, s.SetPosition(id, Position{Top: 1, Left: 1}))
	require.NoError(t, s.SetPosition(id, Position{Top: 1, Left: 1}))
	require.NoError(t, s.SetDimensions(id, Dimensions{Width: 20, Height: 20}))
	require.NoError(t, s.SetSelected(id))
	_ = s.SetSelected("nope")
	require.NoError(t, s.Remove(id))

	assert.Equal(t, []Change{
		{Op: OpAdd, ItemID: id},
		{Op: OpMove, ItemID: id},
		{Op: OpResize, ItemID: id},
		{Op: OpSelect, ItemID: id},
		{Op: OpSelect},
		{Op: OpRemove, ItemID: id},
	}, got)

	unsubscribe()
	_, err = s.AddItem(ItemSpec{Type: "IDEA", Color: "yellow"})
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestSampleItems(t *testing.T) {
	items := SampleItems(500, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, items, 500)

	s, err := NewStore(items)
	require.NoError(t, err)
	assert.Equal(t, 500, s.Len())

	first, _ := s.Get("1")
	assert.Equal(t, "blue", first.Color)
	for _, it := range items[3:] {
		assert.GreaterOrEqual(t, it.Width, 200)
		assert.LessOrEqual(t, it.Width, 500)
		assert.LessOrEqual(t, it.Top, 10000)
		assert.GreaterOrEqual(t, it.Top, -10000)
	}

	assert.Len(t, SampleItems(2, nil), 2)
	assert.Empty(t, SampleItems(-1, nil))
}
