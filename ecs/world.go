package ecs

import (
	"reflect"
	"weak"

	"github.com/kamstrup/intmap"
)

// World is the composition root: it owns the allocator and the archetype
// index and exposes the insert/remove/query surface. A World is not safe
// for concurrent structural mutation from multiple goroutines outside of
// the discipline the Scheduler enforces.
type World struct {
	registry   *Registry
	alloc      *allocator
	archetypes *archetypeIndex
	resources  *resources
	refCache   *intmap.Map[uint32, weak.Pointer[EntityRef]]
}

// NewWorld creates an empty World over reg. reg's component set is
// considered closed from this point on — components to be registered
// should all be registered before constructing any World (registering the
// same component type twice panics).
func NewWorld(reg *Registry) *World {
	return &World{
		registry:   reg,
		alloc:      newAllocator(),
		archetypes: newArchetypeIndex(),
		resources:  newResources(),
		refCache:   newRefCache(),
	}
}

// Registry returns the component registry this World was built from.
func (w *World) Registry() *Registry { return w.registry }

// Len returns the number of currently active entities.
func (w *World) Len() int { return w.alloc.len() }

func normalizeComponent(c any) (reflect.Type, any) {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Ptr {
		return t.Elem(), reflect.ValueOf(c).Elem().Interface()
	}
	return t, c
}

// derefAny turns the `any` holding *T that column.Get returns into an `any`
// holding T, suitable for column.Push/Set on a different column.
func derefAny(ptr any) any {
	return reflect.ValueOf(ptr).Elem().Interface()
}

func (w *World) classify(components []any) ([]ComponentID, map[ComponentID]any) {
	ids := make([]ComponentID, 0, len(components))
	values := make(map[ComponentID]any, len(components))
	for _, c := range components {
		t, v := normalizeComponent(c)
		id := w.registry.MustIndexOf(t)
		ids = append(ids, id)
		values[id] = v
	}
	return ids, values
}

func (w *World) archetypeByID(id ArchetypeID) (*Archetype, bool) {
	return w.archetypes.byID(id)
}

// Insert creates a new entity with the given components and returns its
// identifier.
func (w *World) Insert(components ...any) EntityID {
	ids, values := w.classify(components)
	arche := w.archetypes.getOrCreate(w.registry, ids)

	id := w.alloc.allocate(location{})
	row := arche.push(id, values)
	w.alloc.modify(id, location{archetype: arche.ID(), row: row})
	return id
}

// ComponentColumn is one column of an Extend batch: a component type paired
// with N values, one per entity being created.
type ComponentColumn struct {
	typ    reflect.Type
	values []any
}

// Column builds a ComponentColumn for Extend from a typed slice.
func Column[T any](values []T) ComponentColumn {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return ComponentColumn{typ: reflect.TypeFor[T](), values: vs}
}

// Extend inserts N entities in one batch from N equal-length component
// columns. It panics if the columns are not all the same length.
func (w *World) Extend(columns ...ComponentColumn) []EntityID {
	if len(columns) == 0 {
		return nil
	}
	n := len(columns[0].values)
	for _, c := range columns[1:] {
		if len(c.values) != n {
			panic("ecs: Extend: component columns have unequal lengths")
		}
	}

	ids := make([]ComponentID, len(columns))
	for i, c := range columns {
		ids[i] = w.registry.MustIndexOf(c.typ)
	}
	arche := w.archetypes.getOrCreate(w.registry, ids)

	result := make([]EntityID, n)
	for row := 0; row < n; row++ {
		values := make(map[ComponentID]any, len(columns))
		for i, c := range columns {
			values[ids[i]] = c.values[row]
		}
		id := w.alloc.allocate(location{})
		r := arche.push(id, values)
		w.alloc.modify(id, location{archetype: arche.ID(), row: r})
		result[row] = id
	}
	return result
}

// Remove destroys an entity. It is a no-op (returns false) if id is stale
// or already removed.
func (w *World) Remove(id EntityID) bool {
	loc, ok := w.alloc.get(id)
	if !ok {
		return false
	}
	arche, ok := w.archetypeByID(loc.archetype)
	if !ok {
		return false
	}

	movedEntity, moved := arche.swapRemove(loc.row)
	if moved {
		w.alloc.modifyIndex(movedEntity.Index(), location{archetype: loc.archetype, row: loc.row})
	}
	w.alloc.free(id)
	return true
}

// Get returns a pointer to entity id's component of type T, or nil if id is
// invalid or doesn't carry that component.
func Get[T any](w *World, id EntityID) *T {
	loc, ok := w.alloc.get(id)
	if !ok {
		return nil
	}
	arche, ok := w.archetypeByID(loc.archetype)
	if !ok {
		return nil
	}
	cid, ok := w.registry.IndexOf(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	v := arche.get(loc.row, cid)
	if v == nil {
		return nil
	}
	return v.(*T)
}

// Has reports whether entity id currently carries component type T.
func Has[T any](w *World, id EntityID) bool {
	loc, ok := w.alloc.get(id)
	if !ok {
		return false
	}
	arche, ok := w.archetypeByID(loc.archetype)
	if !ok {
		return false
	}
	cid, ok := w.registry.IndexOf(reflect.TypeFor[T]())
	return ok && arche.HasComponent(cid)
}

// Resources returns the World's singleton resource store, an external
// collaborator crossing the core boundary rather than one of the four
// core subsystems.
func (w *World) Resources() *resources { return w.resources }

// Clear empties every archetype (L=0 for each) and returns every active
// slot to the allocator's free list.
func (w *World) Clear() {
	for _, a := range w.archetypes.archetypes() {
		a.clear()
	}
	w.alloc.clear()
}

// ShrinkToFit releases excess column capacity across every archetype
// without changing any archetype's length.
func (w *World) ShrinkToFit() {
	for _, a := range w.archetypes.archetypes() {
		a.shrinkToFit()
	}
}
