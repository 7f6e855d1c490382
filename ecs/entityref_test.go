package ecs_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/archecs/ecs"
)

func TestEntityRefResolvesLiveEntity(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	id := w.Insert(Position{X: 1})

	ref := w.EntityRefFor(id)
	got, ok := ref.Resolve()
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestEntityRefResolveFailsAfterRemoval(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	id := w.Insert(Position{X: 1})

	ref := w.EntityRefFor(id)
	w.Remove(id)

	_, ok := ref.Resolve()
	assert.False(t, ok)
}

func TestEntityRefForReturnsSameHandleWhileLive(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	id := w.Insert(Position{X: 1})

	first := w.EntityRefFor(id)
	second := w.EntityRefFor(id)
	runtime.KeepAlive(first)
	assert.Same(t, first, second, "repeated lookups for the same live entity must return the cached handle")
}

func TestEntityRefForMintsFreshHandleAfterSlotReuse(t *testing.T) {
	w := ecs.NewWorld(newTestRegistry())
	first := w.Insert(Position{X: 1})

	firstRef := w.EntityRefFor(first)
	w.Remove(first)

	second := w.Insert(Position{X: 2})
	require.Equal(t, first.Index(), second.Index(), "allocator must reuse the freed slot")

	secondRef := w.EntityRefFor(second)
	_, firstOK := firstRef.Resolve()
	gotSecond, secondOK := secondRef.Resolve()

	assert.False(t, firstOK)
	assert.True(t, secondOK)
	assert.Equal(t, second, gotSecond)
}
