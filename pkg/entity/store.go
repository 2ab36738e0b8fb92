package entity

import (
	"fmt"
)

// Store keeps bodies in insertion order with lookup by id. Iteration order is
// stable, which keeps simulation runs reproducible.
type Store struct {
	bodies []*Body
	index  map[uint64]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[uint64]int)}
}

// Add appends body. Adding the same id twice is an error.
func (s *Store) Add(body *Body) error {
	if body == nil {
		return fmt.Errorf("cannot add nil body")
	}
	id := body.ID()
	if _, exists := s.index[id]; exists {
		return fmt.Errorf("body %d already in store", id)
	}
	s.index[id] = len(s.bodies)
	s.bodies = append(s.bodies, body)
	return nil
}

// Remove deletes the body with id and reports whether it was present.
func (s *Store) Remove(id uint64) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.bodies); j++ {
		s.index[s.bodies[j].ID()] = j
	}
	return true
}

// Get returns the body with id.
func (s *Store) Get(id uint64) (*Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// All returns the bodies in insertion order. The slice is shared with the
// store; callers may mutate the bodies but not the slice.
func (s *Store) All() []*Body {
	return s.bodies
}

// Len returns the number of bodies.
func (s *Store) Len() int {
	return len(s.bodies)
}
