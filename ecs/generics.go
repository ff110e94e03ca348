package ecs

import "github.com/milk9111/topdown/ecs/component"

// KindOf is satisfied by both component handles and component kinds.
type KindOf[T any] interface {
	Kind() component.ComponentKind[T]
}

func Add[T any](w *World, e Entity, k KindOf[T], value *T) error {
	kind := k.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, k KindOf[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(k.Kind().ID(), false).Remove(e.id())
}

func Has[T any](w *World, e Entity, k KindOf[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(k.Kind().ID(), false).Has(e.id())
}

// Get returns the stored component pointer. Mutating it updates the world.
func Get[T any](w *World, e Entity, k KindOf[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	value, ok := w.store(k.Kind().ID(), false).Get(e.id()).(*T)
	return value, ok
}

// ForEach calls fn for every entity holding the component, in id order.
func ForEach[T any](w *World, k KindOf[T], fn func(Entity, *T)) {
	for _, e := range w.Query(k.Kind()) {
		if v, ok := Get(w, e, k); ok {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for every entity holding both components, in id order.
func ForEach2[A, B any](w *World, ka KindOf[A], kb KindOf[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka.Kind(), kb.Kind()) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
