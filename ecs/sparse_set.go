package ecs

// componentStore is the type-erased view the world uses to drop components
// of destroyed entities.
type componentStore interface {
	remove(e Entity) bool
}

// sparseSet stores one component type densely, indexed by entity id.
type sparseSet[T any] struct {
	entities []Entity
	values   []*T
	sparse   []int
}

func (s *sparseSet[T]) index(e Entity) int {
	id := int(e.id())
	if id >= len(s.sparse) {
		return -1
	}
	idx := s.sparse[id]
	if idx < 0 || idx >= len(s.entities) || s.entities[idx] != e {
		return -1
	}
	return idx
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx := s.index(e)
	if idx < 0 {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	id := int(e.id())
	for id >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx := s.index(e); idx >= 0 {
		s.values[idx] = v
		return
	}
	// a stale generation in the same slot is overwritten
	if idx := s.sparse[id]; idx >= 0 && idx < len(s.entities) && s.entities[idx].id() == e.id() {
		s.entities[idx] = e
		s.values[idx] = v
		return
	}
	s.entities = append(s.entities, e)
	s.values = append(s.values, v)
	s.sparse[id] = len(s.entities) - 1
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx := s.index(e)
	if idx < 0 {
		return false
	}
	last := len(s.entities) - 1
	moved := s.entities[last]
	s.entities[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()] = idx

	s.entities[last] = 0
	s.values[last] = nil
	s.entities = s.entities[:last]
	s.values = s.values[:last]
	s.sparse[e.id()] = -1
	return true
}

func (s *sparseSet[T]) len() int {
	return len(s.entities)
}
