// Package theme owns the process-wide appearance mode.
package theme

import (
	"slices"
	"sync"
)

type Event struct {
	Mode    Mode
	Palette Palette
}

type Listener func(Event)

// Store holds the current mode. It starts light and changes only on Toggle.
type Store struct {
	dispatchMu sync.Mutex

	mu   sync.RWMutex
	mode Mode

	subMu   sync.RWMutex
	subs    map[uint64]Listener
	nextSub uint64
}

func NewStore() *Store {
	return &Store{
		mode: Light,
		subs: make(map[uint64]Listener),
	}
}

func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Store) Palette() Palette {
	return PaletteFor(s.Mode())
}

// Toggle flips between light and dark and returns the new mode.
func (s *Store) Toggle() Mode {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.mode == Light {
		s.mode = Dark
	} else {
		s.mode = Light
	}
	mode := s.mode
	s.mu.Unlock()

	s.notify(Event{Mode: mode, Palette: PaletteFor(mode)})
	return mode
}

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
