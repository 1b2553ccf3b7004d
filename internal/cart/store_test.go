package cart

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func item(id int, price string) Item {
	return Item{
		ID:        id,
		Title:     "product",
		Price:     decimal.RequireFromString(price),
		Thumbnail: "https://cdn.example/thumb.png",
	}
}

func TestAddSameProductAccumulates(t *testing.T) {
	s := NewStore()

	for i := 0; i < 5; i++ {
		s.Add(item(7, "1.00"))
	}

	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 7, lines[0].ID)
	require.Equal(t, 5, lines[0].Quantity)
}

func TestAddKeepsOriginalSnapshot(t *testing.T) {
	s := NewStore()

	s.Add(Item{ID: 1, Title: "old", Price: decimal.RequireFromString("10.00"), Thumbnail: "a"})
	s.Add(Item{ID: 1, Title: "new", Price: decimal.RequireFromString("99.00"), Thumbnail: "b"})

	l, ok := s.Line(1)
	require.True(t, ok)
	require.Equal(t, "old", l.Title)
	require.Equal(t, "a", l.Thumbnail)
	require.True(t, l.Price.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, 2, l.Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := NewStore()

	s.Add(item(3, "1"))
	s.Add(item(1, "1"))
	s.Add(item(2, "1"))
	s.Add(item(1, "1"))

	var ids []int
	for _, l := range s.Lines() {
		ids = append(ids, l.ID)
	}
	require.Equal(t, []int{3, 1, 2}, ids)
}

func TestAddAddIncrementScenario(t *testing.T) {
	s := NewStore()

	s.Add(item(1, "10.00"))
	s.Add(item(1, "10.00"))
	s.Increment(1)

	l, ok := s.Line(1)
	require.True(t, ok)
	require.Equal(t, 3, l.Quantity)
	require.Equal(t, "30.00", s.Subtotal().StringFixed(2))
	require.Equal(t, 3, s.TotalItems())
}

func TestIncrementAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(item(1, "1"))

	s.Increment(42)

	_, ok := s.Line(42)
	require.False(t, ok)
	require.Equal(t, 1, s.TotalItems())
}

func TestDecrement(t *testing.T) {
	t.Run("above one decrements", func(t *testing.T) {
		s := NewStore()
		s.Add(item(1, "2.50"))
		s.Add(item(1, "2.50"))

		s.Decrement(1)

		l, ok := s.Line(1)
		require.True(t, ok)
		require.Equal(t, 1, l.Quantity)
	})

	t.Run("at one removes", func(t *testing.T) {
		s := NewStore()
		s.Add(item(2, "5.50"))

		s.Decrement(2)
		s.Decrement(2)

		_, ok := s.Line(2)
		require.False(t, ok)
		require.Empty(t, s.Lines())
		require.True(t, s.Subtotal().IsZero())
	})

	t.Run("increment after removal does not recreate", func(t *testing.T) {
		s := NewStore()
		s.Add(item(2, "5.50"))
		s.Decrement(2)

		s.Increment(2)

		_, ok := s.Line(2)
		require.False(t, ok)
	})

	t.Run("absent is noop", func(t *testing.T) {
		s := NewStore()
		s.Decrement(9)
		require.Empty(t, s.Lines())
	})
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Add(item(1, "1"))
	s.Add(item(2, "1"))
	s.Add(item(3, "1"))

	s.Remove(2)
	once := s.Lines()
	s.Remove(2)

	require.Equal(t, once, s.Lines())
	require.Len(t, once, 2)

	// index must follow the shifted lines
	s.Increment(3)
	l, ok := s.Line(3)
	require.True(t, ok)
	require.Equal(t, 2, l.Quantity)
}

func TestRemoveIgnoresQuantity(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		s.Add(item(5, "1"))
	}

	s.Remove(5)

	require.Zero(t, s.TotalItems())
}

func TestClearZeroesProjections(t *testing.T) {
	s := NewStore()
	id := s.ID()
	s.Add(item(1, "3.33"))
	s.Add(item(2, "4.44"))
	s.Increment(2)

	s.Clear()

	require.Zero(t, s.TotalItems())
	require.True(t, s.Subtotal().IsZero())
	require.Equal(t, "0.00", s.Subtotal().StringFixed(2))
	require.Equal(t, id, s.ID())

	s.Add(item(1, "3.33"))
	require.Equal(t, 1, s.TotalItems())
}

func TestSubtotalIsExact(t *testing.T) {
	s := NewStore()
	s.Add(item(1, "0.10"))
	s.Increment(1)
	s.Increment(1)
	s.Add(item(2, "0.20"))

	require.True(t, s.Subtotal().Equal(decimal.RequireFromString("0.5")))
	require.Equal(t, "0.50", s.Subtotal().StringFixed(2))
}

func TestProjectionsTrackEveryMutation(t *testing.T) {
	s := NewStore()
	steps := []func(){
		func() { s.Add(item(1, "1.25")) },
		func() { s.Add(item(2, "2.00")) },
		func() { s.Increment(1) },
		func() { s.Decrement(2) },
		func() { s.Add(item(3, "0.75")) },
		func() { s.Remove(1) },
	}

	for _, step := range steps {
		step()

		wantItems := 0
		wantSub := decimal.Zero
		for _, l := range s.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			wantItems += l.Quantity
			wantSub = wantSub.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.Equal(t, wantItems, s.TotalItems())
		require.True(t, wantSub.Equal(s.Subtotal()))
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(item(1, "1"))

	lines := s.Lines()
	lines[0].Quantity = 100

	l, _ := s.Line(1)
	require.Equal(t, 1, l.Quantity)
}

func TestSubscribersSeeEveryOperationInOrder(t *testing.T) {
	s := NewStore()

	var got []Event
	unsubscribe := s.Subscribe(func(ev Event) { got = append(got, ev) })

	s.Add(item(1, "1"))
	s.Decrement(1)
	s.Decrement(1)
	s.Remove(99)
	s.Clear()

	require.Len(t, got, 5)
	require.Equal(t, []Op{OpAdd, OpDecrement, OpDecrement, OpRemove, OpClear},
		[]Op{got[0].Op, got[1].Op, got[2].Op, got[3].Op, got[4].Op})

	require.True(t, got[0].Changed)
	require.Equal(t, 1, got[0].Snapshot.Quantity(1))
	require.True(t, got[1].Changed)
	require.True(t, got[1].Snapshot.Empty())
	require.False(t, got[2].Changed)
	require.False(t, got[3].Changed)
	require.False(t, got[4].Changed)

	unsubscribe()
	unsubscribe()
	s.Add(item(1, "1"))
	require.Len(t, got, 5)
}

func TestListenerMayReadStore(t *testing.T) {
	s := NewStore()

	var seen int
	s.Subscribe(func(Event) { seen = s.TotalItems() })

	s.Add(item(1, "1"))
	s.Add(item(1, "1"))

	require.Equal(t, 2, seen)
}

func TestConcurrentOperationsKeepInvariants(t *testing.T) {
	s := NewStore()

	var mu sync.Mutex
	events := 0
	s.Subscribe(func(Event) {
		mu.Lock()
		events++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Add(item(1, "1.00"))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 400, s.TotalItems())
	require.Len(t, s.Lines(), 1)
	require.Equal(t, 400, events)
}

func TestCartIDPrefix(t *testing.T) {
	s := NewStore()
	require.True(t, strings.HasPrefix(s.ID(), "c_"))
	require.NotEqual(t, s.ID(), NewStore().ID())
}
