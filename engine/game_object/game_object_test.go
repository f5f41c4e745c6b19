package game_object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameObjectDefaults(t *testing.T) {
	g := NewGameObject()

	assert.True(t, g.Enabled())
	assert.Equal(t, [4]float32{0, 0, 0, 1}, g.LocalRotation())
	assert.Equal(t, [3]float32{1, 1, 1}, g.LocalScale())
	assert.False(t, g.Dirty())
}

func TestFindWalksChildren(t *testing.T) {
	hand := NewGameObject(WithName("hand"))
	arm := NewGameObject(WithName("arm"), WithChildren(hand))
	root := NewGameObject(WithName("root"), WithChildren(arm))

	assert.Same(t, hand, root.Find("hand"))
	assert.Same(t, root, root.Find("root"))
	assert.Nil(t, root.Find("leg"))
	assert.Same(t, arm, hand.Parent())
}

func TestSettersMarkDirty(t *testing.T) {
	g := NewGameObject(WithWeights(0, 0))

	g.SetLocalPosition([3]float32{1, 2, 3})
	assert.True(t, g.Dirty())
	g.ClearDirty()

	in := []float32{0.25, 0.75, 1}
	g.SetWeights(in)
	assert.True(t, g.Dirty())
	require.Len(t, g.Weights(), 2, "weight count is fixed at construction")
	assert.Equal(t, []float32{0.25, 0.75}, g.Weights())

	in[0] = 9
	assert.Equal(t, float32(0.25), g.Weights()[0])
}
