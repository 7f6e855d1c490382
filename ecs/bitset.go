package ecs

import "github.com/bits-and-blooms/bitset"

// ArchetypeID is the presence-mask identifier of an archetype: bit idx(C)
// is set iff the archetype stores component C. Two archetypes are
// identical iff their ArchetypeIDs are equal.
type ArchetypeID struct {
	bits *bitset.BitSet
}

// newArchetypeID returns an all-clear ArchetypeID sized for a registry of
// bitLen component types.
func newArchetypeID(bitLen uint) ArchetypeID {
	return ArchetypeID{bits: bitset.New(bitLen)}
}

// archetypeIDFor builds the ArchetypeID for an exact set of components.
func archetypeIDFor(bitLen uint, ids []ComponentID) ArchetypeID {
	a := newArchetypeID(bitLen)
	for _, id := range ids {
		a.bits.Set(uint(id))
	}
	return a
}

// Has reports whether bit idx(C) is set.
func (a ArchetypeID) Has(id ComponentID) bool {
	return a.bits.Test(uint(id))
}

// Clone returns an independent copy, since BitSet is mutated in place by
// Set/Clear.
func (a ArchetypeID) Clone() ArchetypeID {
	return ArchetypeID{bits: a.bits.Clone()}
}

// Equal reports whether two archetype identifiers have the same set bits.
func (a ArchetypeID) Equal(b ArchetypeID) bool {
	return a.bits.Equal(b.bits)
}

// key returns a stable, comparable representation suitable for use as a map
// key; two ArchetypeIDs with the same set bits always produce the same key.
func (a ArchetypeID) key() string {
	data, err := a.bits.MarshalBinary()
	if err != nil {
		panic("ecs: failed to marshal archetype identifier: " + err.Error())
	}
	return string(data)
}

// count returns the number of set bits (the archetype's component count).
func (a ArchetypeID) count() uint {
	return a.bits.Count()
}
