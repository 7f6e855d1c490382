package ecs

import (
	"fmt"
	"reflect"
)

// ComponentID is the canonical position of a component type within a
// Registry. idx(C) in spec terms: a component's ComponentID never changes
// once assigned, and is the bit position used in every ArchetypeID.
type ComponentID int

// componentDescriptor is the runtime stand-in for the compile-time
// registry entry a statically typed implementation would generate. Go has
// no variadic-template mechanism to derive idx(C) at compile time, so the
// registry keeps a type->id map instead.
type componentDescriptor struct {
	typ       reflect.Type
	id        ComponentID
	zeroSized bool
	newColumn func() column
}

// Registry is the ordered, load-time-fixed list of component types a World
// supports. Registration order is canonical order: the first registered
// type gets ComponentID 0, the next gets 1, and so on.
type Registry struct {
	byType map[reflect.Type]ComponentID
	descs  []componentDescriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]ComponentID)}
}

// RegisterComponent adds component type C to r and returns its canonical
// ComponentID. It panics if C was already registered: the same type may not
// appear twice in a registry.
func RegisterComponent[C any](r *Registry) ComponentID {
	typ := reflect.TypeFor[C]()
	if _, exists := r.byType[typ]; exists {
		panic(fmt.Sprintf("ecs: component type %s already registered", typ))
	}

	id := ComponentID(len(r.descs))
	r.byType[typ] = id
	r.descs = append(r.descs, componentDescriptor{
		typ:       typ,
		id:        id,
		zeroSized: typ.Size() == 0,
		newColumn: newColumnFactory[C](),
	})
	return id
}

// IndexOf returns the canonical ComponentID for a registered type.
func (r *Registry) IndexOf(t reflect.Type) (ComponentID, bool) {
	id, ok := r.byType[t]
	return id, ok
}

// MustIndexOf is IndexOf but panics for a type the registry never saw. Used
// on paths where the caller already proved (via a typed wrapper such as
// Ref[C]) that C is supposed to be registered.
func (r *Registry) MustIndexOf(t reflect.Type) ComponentID {
	id, ok := r.IndexOf(t)
	if !ok {
		panic(fmt.Sprintf("ecs: component type %s is not in this registry", t))
	}
	return id
}

// Len returns N, the number of distinct component types in the registry.
func (r *Registry) Len() int {
	return len(r.descs)
}

// bitLen returns N, the number of bits an ArchetypeID needs for this
// registry (one bit per registered component type).
func (r *Registry) bitLen() uint {
	return uint(len(r.descs))
}

func (r *Registry) descriptor(id ComponentID) *componentDescriptor {
	return &r.descs[id]
}

func (r *Registry) newColumn(id ComponentID) column {
	return r.descs[id].newColumn()
}
