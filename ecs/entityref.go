package ecs

import (
	"weak"

	"github.com/kamstrup/intmap"
)

// EntityRef is a stable, cacheable handle to an entity. Unlike EntityID,
// which is a plain value meant to be copied and re-validated on every use,
// an EntityRef is heap-allocated so the World's cache can hold it behind a
// weak.Pointer: the cached pointer clears once no caller holds the ref any
// more, and a lookup for a slot whose cached ref names an earlier
// generation mints a fresh ref. An EntityRef does not observe the entity's
// death itself; it defers its validity check, by generation, to Resolve.
type EntityRef struct {
	world *World
	id    EntityID
}

// Resolve reports the ref's EntityID and whether that entity is still
// alive. A dead ref's EntityID is still returned for diagnostics, but ok
// is false.
func (r *EntityRef) Resolve() (EntityID, bool) {
	if r == nil {
		return EntityID{}, false
	}
	_, ok := r.world.alloc.get(r.id)
	return r.id, ok
}

// EntityRefFor returns a cached EntityRef for id, minting one if this slot
// has no live ref cached (or its previous occupant's ref was already
// collected). The cache key is the slot index, not the full EntityID: a
// slot can only be occupied by one generation at a time, and Resolve itself
// re-checks the generation, so reusing the index as key is safe and keeps
// the cache a plain intmap of machine integers.
func (w *World) EntityRefFor(id EntityID) *EntityRef {
	if weakPtr, ok := w.refCache.Get(id.index); ok {
		if ref := weakPtr.Value(); ref != nil && ref.id == id {
			return ref
		}
		w.refCache.Del(id.index)
	}

	ref := &EntityRef{world: w, id: id}
	w.refCache.Put(id.index, weak.Make(ref))
	return ref
}

func newRefCache() *intmap.Map[uint32, weak.Pointer[EntityRef]] {
	return intmap.New[uint32, weak.Pointer[EntityRef]](256)
}
