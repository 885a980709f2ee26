// Package observer provides the listener set used by the stateful domain
// stores to publish change events.
package observer

import "sync"

type entry[E any] struct {
	id int
	fn func(E)
}

// Set holds listeners for events of type E. The zero value is ready to use.
type Set[E any] struct {
	mu      sync.RWMutex
	nextID  int
	entries []entry[E] // registration order
}

// Add registers fn and returns a function removing it. The returned
// function is safe to call more than once.
func (s *Set[E]) Add(fn func(E)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, entry[E]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Set[E]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners
func (s *Set[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Publish calls every listener with ev on the caller's goroutine, in
// registration order. Listeners may add or remove listeners.
func (s *Set[E]) Publish(ev E) {
	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	for _, e := range entries {
		e.fn(ev)
	}
}
