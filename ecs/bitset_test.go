package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchetypeIDHasAndEqual(t *testing.T) {
	a := archetypeIDFor(8, []ComponentID{1, 3})
	b := archetypeIDFor(8, []ComponentID{3, 1})

	assert.True(t, a.Has(1))
	assert.True(t, a.Has(3))
	assert.False(t, a.Has(2))
	assert.True(t, a.Equal(b), "set membership, not insertion order, defines identity")
	assert.Equal(t, uint(2), a.count())
}

func TestArchetypeIDKeyIsStableAcrossClones(t *testing.T) {
	a := archetypeIDFor(8, []ComponentID{0, 4})
	clone := a.Clone()

	assert.Equal(t, a.key(), clone.key())

	clone.bits.Set(7)
	assert.NotEqual(t, a.key(), clone.key(), "mutating a clone must not affect the original")
}

func TestArchetypeIDDistinctSetsHaveDistinctKeys(t *testing.T) {
	a := archetypeIDFor(8, []ComponentID{0})
	b := archetypeIDFor(8, []ComponentID{1})
	assert.NotEqual(t, a.key(), b.key())
}
