package ecs

import "github.com/milk9111/charfsm/ecs/component"

// Add stores value for e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	storeFor(w, kind, true).set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store := storeFor(w, kind, false)
	if store == nil {
		return false
	}
	return store.remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	store := storeFor(w, kind, false)
	if store == nil {
		return nil, false
	}
	return store.get(e)
}

// ForEach visits every live entity with a component of kind. The entity list
// is copied first, so the callback may add or remove components of any kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(e Entity, v *T)) {
	store := storeFor(w, kind, false)
	if store == nil {
		return
	}
	ents := append([]Entity(nil), store.entities...)
	for _, e := range ents {
		if v, ok := store.get(e); ok && IsAlive(w, e) {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities that have both kinds, iterating the smaller store.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(e Entity, a *A, b *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	var ents []Entity
	if sa.len() <= sb.len() {
		ents = append(ents, sa.entities...)
	} else {
		ents = append(ents, sb.entities...)
	}
	for _, e := range ents {
		if !IsAlive(w, e) {
			continue
		}
		a, okA := sa.get(e)
		b, okB := sb.get(e)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// First returns the first live entity with a component of kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	store := storeFor(w, kind, false)
	if store == nil {
		return 0, false
	}
	for _, e := range store.entities {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return 0, false
}
