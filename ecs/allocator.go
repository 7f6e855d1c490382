package ecs

// slot is one allocator entry. It is active iff hasLocation is true.
// Deactivation only clears hasLocation/loc; generation is bumped again only
// on the slot's next activation.
type slot struct {
	generation  uint64
	loc         location
	hasLocation bool
}

// allocator is the dense slot table plus free list: it is the only source
// of truth for "does this EntityID still refer to something, and if so
// where".
type allocator struct {
	slots    []slot
	freeList []uint32
}

func newAllocator() *allocator {
	return &allocator{}
}

// allocate activates a slot (recycled from the free list if one is
// available, else a brand new one), records loc, and returns the resulting
// identifier.
func (a *allocator) allocate(loc location) EntityID {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx]
		s.generation++
		s.loc = loc
		s.hasLocation = true
		return EntityID{index: idx, generation: s.generation}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot{generation: 1, loc: loc, hasLocation: true})
	return EntityID{index: idx, generation: 1}
}

// free deactivates the slot backing id, if id is currently valid. Returns
// false as a no-op if id is stale or already inactive.
func (a *allocator) free(id EntityID) bool {
	if int(id.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[id.index]
	if !s.hasLocation || s.generation != id.generation {
		return false
	}
	s.hasLocation = false
	s.loc = location{}
	a.freeList = append(a.freeList, id.index)
	return true
}

// get resolves id to its current location, generation-checked.
func (a *allocator) get(id EntityID) (location, bool) {
	if int(id.index) >= len(a.slots) {
		return location{}, false
	}
	s := &a.slots[id.index]
	if !s.hasLocation || s.generation != id.generation {
		return location{}, false
	}
	return s.loc, true
}

// modify updates the location recorded for a still-valid id. Used by
// archetype moves and by swap-remove fix-ups elsewhere in the package.
func (a *allocator) modify(id EntityID, loc location) bool {
	if int(id.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[id.index]
	if !s.hasLocation || s.generation != id.generation {
		return false
	}
	s.loc = loc
	return true
}

// modifyIndex is modify addressed by slot index directly, without the
// generation check. The swap-remove fix-ups in World.Remove and
// World.transfer use it for the entity that backfilled the vacated row.
func (a *allocator) modifyIndex(index uint32, loc location) {
	a.slots[index].loc = loc
}

// len reports the number of currently active slots.
func (a *allocator) len() int {
	return len(a.slots) - len(a.freeList)
}

// clear deactivates every slot and returns all of them to the free list,
// without touching generations.
func (a *allocator) clear() {
	a.freeList = a.freeList[:0]
	for i := range a.slots {
		if a.slots[i].hasLocation {
			a.slots[i].hasLocation = false
			a.slots[i].loc = location{}
		}
		a.freeList = append(a.freeList, uint32(i))
	}
}
