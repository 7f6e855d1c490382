package ecs

import "sort"

// archetypeIndex is a hash map from bitset identifier to Archetype. Lookup
// either returns an existing archetype or constructs one for a bitset it
// hasn't seen before.
type archetypeIndex struct {
	byKey map[string]*Archetype
	all   []*Archetype
}

func newArchetypeIndex() *archetypeIndex {
	return &archetypeIndex{byKey: make(map[string]*Archetype)}
}

// getOrCreate returns the archetype for the exact set of componentIDs,
// creating it (and registering it under its bitset key) if this is the
// first time that combination has been seen. componentIDs need not arrive
// sorted; getOrCreate canonicalizes them.
func (x *archetypeIndex) getOrCreate(reg *Registry, componentIDs []ComponentID) *Archetype {
	sorted := append([]ComponentID(nil), componentIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	id := archetypeIDFor(reg.bitLen(), sorted)
	key := id.key()

	if a, ok := x.byKey[key]; ok {
		return a
	}

	a := newArchetype(reg, id, sorted)
	x.byKey[key] = a
	x.all = append(x.all, a)
	return a
}

// lookup returns the archetype for componentIDs if it has already been
// created, without creating it.
func (x *archetypeIndex) lookup(reg *Registry, componentIDs []ComponentID) (*Archetype, bool) {
	sorted := append([]ComponentID(nil), componentIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	id := archetypeIDFor(reg.bitLen(), sorted)
	a, ok := x.byKey[id.key()]
	return a, ok
}

// byID returns the archetype already registered under id, if any.
func (x *archetypeIndex) byID(id ArchetypeID) (*Archetype, bool) {
	a, ok := x.byKey[id.key()]
	return a, ok
}

// archetypes returns every archetype created so far.
func (x *archetypeIndex) archetypes() []*Archetype {
	return x.all
}
