package ecs

import "reflect"

// column is a type-erased component buffer. It backs one archetype's storage
// for exactly one component type. All columns in an archetype, plus the
// archetype's entity-identifier column, share the same length L; growth and
// removal are always requested in lockstep by the owning Archetype.
type column interface {
	Len() int
	Push(value any) int
	// SwapRemove removes row by moving the last element into its place
	// (or simply truncating if row was already last) and reports whether a
	// move happened, mirroring Archetype.swapRemove's contract.
	SwapRemove(row int) (moved bool)
	Get(row int) any
	Set(row int, value any)
	// ShrinkToFit reallocates the backing storage down to exactly Len(),
	// releasing any spare capacity accumulated by growth.
	ShrinkToFit()
}

// typedColumn is the ordinary case: a component with a non-zero size gets a
// real Go slice.
type typedColumn[T any] struct {
	data []T
}

func newTypedColumn[T any]() column {
	return &typedColumn[T]{}
}

func (c *typedColumn[T]) Len() int { return len(c.data) }

func (c *typedColumn[T]) Push(value any) int {
	c.data = append(c.data, value.(T))
	return len(c.data) - 1
}

func (c *typedColumn[T]) SwapRemove(row int) bool {
	last := len(c.data) - 1
	moved := row != last
	if moved {
		c.data[row] = c.data[last]
	}
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	return moved
}

func (c *typedColumn[T]) Get(row int) any {
	return &c.data[row]
}

func (c *typedColumn[T]) Set(row int, value any) {
	c.data[row] = value.(T)
}

func (c *typedColumn[T]) ShrinkToFit() {
	if len(c.data) == cap(c.data) {
		return
	}
	shrunk := make([]T, len(c.data))
	copy(shrunk, c.data)
	c.data = shrunk
}

// zstColumn backs a zero-sized component type (an empty struct, for
// example). There is nothing to store; the column only needs to track how
// many rows exist so Len() stays consistent with its siblings, and Get
// synthesizes a fresh zero value on every call rather than holding any
// backing allocation.
type zstColumn[T any] struct {
	length int
}

func newZSTColumn[T any]() column {
	return &zstColumn[T]{}
}

func (c *zstColumn[T]) Len() int { return c.length }

func (c *zstColumn[T]) Push(value any) int {
	c.length++
	return c.length - 1
}

func (c *zstColumn[T]) SwapRemove(row int) bool {
	last := c.length - 1
	c.length--
	return row != last
}

func (c *zstColumn[T]) Get(row int) any {
	var zero T
	return &zero
}

func (c *zstColumn[T]) Set(row int, value any) {}

func (c *zstColumn[T]) ShrinkToFit() {}

func newColumnFactory[T any]() func() column {
	if reflect.TypeFor[T]().Size() == 0 {
		return newZSTColumn[T]
	}
	return newTypedColumn[T]
}
