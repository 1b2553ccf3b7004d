package cart

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store owns the authoritative cart. All mutation goes through Add,
// Increment, Decrement, Remove and Clear; reads return copies.
//
// dispatchMu is held across a mutation and its notifications so events reach
// subscribers in the order operations were invoked. mu guards lines and index
// and is never held while listeners run.
type Store struct {
	id string

	dispatchMu sync.Mutex

	mu    sync.RWMutex
	lines []Line
	index map[int]int

	subMu   sync.RWMutex
	subs    map[uint64]Listener
	nextSub uint64
}

func NewStore() *Store {
	return &Store{
		id:    "c_" + uuid.NewString(),
		index: make(map[int]int),
		subs:  make(map[uint64]Listener),
	}
}

// ID is stable for the lifetime of the store; Clear does not change it.
func (s *Store) ID() string { return s.id }

// Add puts one more unit of it in the cart. An existing line keeps its
// original title, price and thumbnail.
func (s *Store) Add(it Item) {
	s.apply(OpAdd, it.ID, func() bool {
		if i, ok := s.index[it.ID]; ok {
			s.lines[i].Quantity++
			return true
		}
		s.index[it.ID] = len(s.lines)
		s.lines = append(s.lines, Line{
			ID:        it.ID,
			Title:     it.Title,
			Price:     it.Price,
			Thumbnail: it.Thumbnail,
			Quantity:  1,
		})
		return true
	})
}

func (s *Store) Increment(id int) {
	s.apply(OpIncrement, id, func() bool {
		i, ok := s.index[id]
		if !ok {
			return false
		}
		s.lines[i].Quantity++
		return true
	})
}

// Decrement lowers the quantity by one, removing the line instead of letting
// it reach zero.
func (s *Store) Decrement(id int) {
	s.apply(OpDecrement, id, func() bool {
		i, ok := s.index[id]
		if !ok {
			return false
		}
		if s.lines[i].Quantity > 1 {
			s.lines[i].Quantity--
			return true
		}
		s.removeAt(i)
		return true
	})
}

func (s *Store) Remove(id int) {
	s.apply(OpRemove, id, func() bool {
		i, ok := s.index[id]
		if !ok {
			return false
		}
		s.removeAt(i)
		return true
	})
}

func (s *Store) Clear() {
	s.apply(OpClear, 0, func() bool {
		changed := len(s.lines) > 0
		s.lines = nil
		s.index = make(map[int]int)
		return changed
	})
}

// Lines returns the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLines(s.lines)
}

// Line returns the line for id.
func (s *Store) Line(id int) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Line{}, false
	}
	return s.lines[i], true
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.lines)
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtotal(s.lines)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every subsequent event. The returned func
// removes it and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) apply(op Op, id int, mutate func() bool) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	changed := mutate()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Event{Op: op, ProductID: id, Changed: changed, Snapshot: snap})
}

func (s *Store) notify(ev Event) {
	s.subMu.RLock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subMu.RUnlock()

	slices.Sort(ids)

	for _, id := range ids {
		s.subMu.RLock()
		fn, ok := s.subs[id]
		s.subMu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}

// removeAt drops the line at position i and reindexes the lines after it.
// Caller holds mu.
func (s *Store) removeAt(i int) {
	delete(s.index, s.lines[i].ID)
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].ID] = j
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		CartID:     s.id,
		Lines:      cloneLines(s.lines),
		TotalItems: totalItems(s.lines),
		Subtotal:   subtotal(s.lines),
	}
}

func cloneLines(in []Line) []Line {
	out := make([]Line, len(in))
	copy(out, in)
	return out
}
