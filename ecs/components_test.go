package ecs_test

import "github.com/plus3/archecs/ecs"

// Shared component vocabulary for the package's tests.
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int
}

type Name struct {
	Value string
}

// PlayerTag is zero-sized: it marks an entity without carrying any data,
// exercising the zero-sized-column special case end to end.
type PlayerTag struct{}

type Score int32

func newTestRegistry() *ecs.Registry {
	reg := ecs.NewRegistry()
	ecs.RegisterComponent[Position](reg)
	ecs.RegisterComponent[Velocity](reg)
	ecs.RegisterComponent[Health](reg)
	ecs.RegisterComponent[Name](reg)
	ecs.RegisterComponent[PlayerTag](reg)
	ecs.RegisterComponent[Score](reg)
	return reg
}
