package ecs

import "fmt"

// EntityID is a value identifier for an entity: a slot index paired with the
// generation counter that was active when the slot was last activated.
// EntityIDs are plain values — copy them freely, store them outside the
// World, compare them with ==.
type EntityID struct {
	index      uint32
	generation uint64
}

// Index returns the allocator slot this identifier names.
func (e EntityID) Index() uint32 { return e.index }

// Generation returns the activation counter recorded at allocation time.
func (e EntityID) Generation() uint64 { return e.generation }

// IsZero reports whether e is the zero EntityID, which never names a live
// entity.
func (e EntityID) IsZero() bool { return e == EntityID{} }

func (e EntityID) String() string {
	return fmt.Sprintf("EntityID(%d,%d)", e.index, e.generation)
}

// location is where an active entity's row lives.
type location struct {
	archetype ArchetypeID
	row       uint32
}
