package ecs

import "reflect"

// Entry is a handle for structural edits to one entity: add/remove
// components, moving it between archetypes as needed while its EntityID
// stays the same. Obtain one via World.Entry.
type Entry struct {
	world *World
	id    EntityID
}

// Entry returns an edit handle for id. The handle is valid only as long as
// id itself resolves; edits on an invalid Entry are no-ops.
func (w *World) Entry(id EntityID) Entry {
	return Entry{world: w, id: id}
}

// ID returns the entity this entry edits.
func (e Entry) ID() EntityID { return e.id }

// Valid reports whether the underlying entity is still alive.
func (e Entry) Valid() bool {
	_, ok := e.world.alloc.get(e.id)
	return ok
}

// Add attaches component to the entity, moving it to the archetype for its
// new component set. If the entity already carries that component type the
// value is overwritten in place with no structural change. A no-op if the
// entity is invalid.
func (e Entry) Add(component any) Entry {
	loc, ok := e.world.alloc.get(e.id)
	if !ok {
		return e
	}
	arche, ok := e.world.archetypeByID(loc.archetype)
	if !ok {
		return e
	}

	t, v := normalizeComponent(component)
	cid := e.world.registry.MustIndexOf(t)

	if idx := arche.columnIndex(cid); idx != -1 {
		arche.columns[idx].Set(int(loc.row), v)
		return e
	}

	newIDs := make([]ComponentID, len(arche.componentIDs)+1)
	copy(newIDs, arche.componentIDs)
	newIDs[len(arche.componentIDs)] = cid

	values := make(map[ComponentID]any, len(newIDs))
	for _, existing := range arche.componentIDs {
		values[existing] = derefAny(arche.get(loc.row, existing))
	}
	values[cid] = v

	e.world.transfer(e.id, arche, loc, newIDs, values)
	return e
}

// RemoveType detaches the component of type t, moving the entity to the
// archetype for its remaining component set. A no-op if the entity is
// invalid or doesn't carry t.
func (e Entry) RemoveType(t reflect.Type) Entry {
	loc, ok := e.world.alloc.get(e.id)
	if !ok {
		return e
	}
	arche, ok := e.world.archetypeByID(loc.archetype)
	if !ok {
		return e
	}
	cid, ok := e.world.registry.IndexOf(t)
	if !ok || arche.columnIndex(cid) == -1 {
		return e
	}

	newIDs := make([]ComponentID, 0, len(arche.componentIDs)-1)
	values := make(map[ComponentID]any, len(arche.componentIDs)-1)
	for _, existing := range arche.componentIDs {
		if existing == cid {
			continue
		}
		newIDs = append(newIDs, existing)
		values[existing] = derefAny(arche.get(loc.row, existing))
	}

	e.world.transfer(e.id, arche, loc, newIDs, values)
	return e
}

// RemoveComponent detaches component type C from e's entity.
func RemoveComponent[C any](e Entry) Entry {
	return e.RemoveType(reflect.TypeFor[C]())
}

// transfer moves the row at loc in src to the (possibly new) archetype for
// newIDs, preserving id, then fixes up the swap-remove ripple left behind
// in src.
func (w *World) transfer(id EntityID, src *Archetype, loc location, newIDs []ComponentID, values map[ComponentID]any) {
	dst := w.archetypes.getOrCreate(w.registry, newIDs)
	newRow := dst.push(id, values)

	movedEntity, moved := src.swapRemove(loc.row)
	if moved {
		w.alloc.modifyIndex(movedEntity.Index(), location{archetype: loc.archetype, row: loc.row})
	}

	w.alloc.modify(id, location{archetype: dst.ID(), row: newRow})
}
