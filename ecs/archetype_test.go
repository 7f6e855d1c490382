package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archTestPosition struct{ X, Y float32 }
type archTestVelocity struct{ DX, DY float32 }

func newTestArchetype(t *testing.T) (*Registry, *Archetype, ComponentID, ComponentID) {
	t.Helper()
	reg := NewRegistry()
	posID := RegisterComponent[archTestPosition](reg)
	velID := RegisterComponent[archTestVelocity](reg)

	ids := []ComponentID{posID, velID}
	a := newArchetype(reg, archetypeIDFor(reg.bitLen(), ids), ids)
	return reg, a, posID, velID
}

func TestArchetypePushAndGet(t *testing.T) {
	_, a, posID, velID := newTestArchetype(t)

	id := EntityID{index: 1, generation: 1}
	row := a.push(id, map[ComponentID]any{
		posID: archTestPosition{X: 1, Y: 2},
		velID: archTestVelocity{DX: 3, DY: 4},
	})

	assert.Equal(t, uint32(0), row)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, id, a.entityAt(row))

	pos := a.get(row, posID).(*archTestPosition)
	assert.Equal(t, archTestPosition{X: 1, Y: 2}, *pos)
}

func TestArchetypeSwapRemoveFixesUpLastRow(t *testing.T) {
	_, a, posID, velID := newTestArchetype(t)

	ids := []EntityID{
		{index: 0, generation: 1},
		{index: 1, generation: 1},
		{index: 2, generation: 1},
	}
	for i, id := range ids {
		a.push(id, map[ComponentID]any{
			posID: archTestPosition{X: float32(i)},
			velID: archTestVelocity{},
		})
	}

	moved, didMove := a.swapRemove(0)
	require.True(t, didMove)
	assert.Equal(t, ids[2], moved, "swap-remove reports the identifier that used to own the last row")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, ids[2], a.entityAt(0), "last row's data now lives at the removed row")

	pos := a.get(0, posID).(*archTestPosition)
	assert.Equal(t, float32(2), pos.X)
}

func TestArchetypeSwapRemoveOfLastRowDoesNotMove(t *testing.T) {
	_, a, posID, velID := newTestArchetype(t)
	id := EntityID{index: 0, generation: 1}
	a.push(id, map[ComponentID]any{posID: archTestPosition{}, velID: archTestVelocity{}})

	_, moved := a.swapRemove(0)
	assert.False(t, moved)
	assert.Equal(t, 0, a.Len())
}

func TestArchetypeColumnLengthsStayInLockstep(t *testing.T) {
	_, a, posID, velID := newTestArchetype(t)
	for i := 0; i < 10; i++ {
		a.push(EntityID{index: uint32(i), generation: 1}, map[ComponentID]any{
			posID: archTestPosition{},
			velID: archTestVelocity{},
		})
	}

	for _, col := range a.columns {
		assert.Equal(t, a.Len(), col.Len())
	}
	assert.Equal(t, a.Len(), len(a.entities))
}

func TestArchetypeClearZeroesLengthKeepsCapacity(t *testing.T) {
	_, a, posID, velID := newTestArchetype(t)
	for i := 0; i < 8; i++ {
		a.push(EntityID{index: uint32(i), generation: 1}, map[ComponentID]any{
			posID: archTestPosition{},
			velID: archTestVelocity{},
		})
	}

	a.clear()
	assert.Equal(t, 0, a.Len())
	for _, col := range a.columns {
		assert.Equal(t, 0, col.Len())
	}
	assert.GreaterOrEqual(t, cap(a.columns[0].(*typedColumn[archTestPosition]).data), 8)
}
