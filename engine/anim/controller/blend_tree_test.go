package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatParams(names ...string) *ParameterSet {
	defaults := make(map[string]Parameter, len(names))
	for _, name := range names {
		defaults[name] = Parameter{Type: ParameterFloat}
	}
	return NewParameterSet(defaults)
}

func newTreeState(t *testing.T, params Parameters, cfg BlendNodeConfig) (*State, *BlendTree) {
	t.Helper()
	s := newState(StateConfig{Name: "Blend", Speed: 1, Loop: true, BlendTree: &cfg}, params, nil)
	require.NotNil(t, s.BlendTree())
	return s, s.BlendTree()
}

func leafWeight(t *testing.T, tree *BlendTree, name string) float32 {
	t.Helper()
	child, ok := tree.Child(name)
	require.True(t, ok, "child %s", name)
	require.NotNil(t, child.Leaf)
	return child.Leaf.Weight()
}

func TestBlendTree1D(t *testing.T) {
	params := floatParams("blend")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"blend"},
		Children: []BlendNodeConfig{
			{Name: "B", Point: []float32{1}},
			{Name: "A", Point: []float32{0}},
		},
	})

	assert.Equal(t, "A", tree.Children()[0].Name(), "children sorted by point")

	tests := []struct {
		value float32
		a, b  float32
	}{
		{0.5, 0.5, 0.5},
		{0.25, 0.75, 0.25},
		{1, 0, 1},
		{0, 1, 0},
		{-2, 1, 0},
		{3, 0, 1},
	}
	for _, tt := range tests {
		require.NoError(t, params.SetFloat("blend", tt.value))
		a := leafWeight(t, tree, "A")
		b := leafWeight(t, tree, "B")
		assert.InDelta(t, tt.a, a, 1e-6, "A at %v", tt.value)
		assert.InDelta(t, tt.b, b, 1e-6, "B at %v", tt.value)
		assert.InDelta(t, 1, a+b, 1e-6)
	}
}

func TestBlendTree1DThreeChildren(t *testing.T) {
	params := floatParams("speed")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"speed"},
		Children: []BlendNodeConfig{
			{Name: "Idle", Point: []float32{0}},
			{Name: "Walk", Point: []float32{1}},
			{Name: "Run", Point: []float32{3}},
		},
	})

	require.NoError(t, params.SetFloat("speed", 2))
	assert.InDelta(t, 0, leafWeight(t, tree, "Idle"), 1e-6)
	assert.InDelta(t, 0.5, leafWeight(t, tree, "Walk"), 1e-6)
	assert.InDelta(t, 0.5, leafWeight(t, tree, "Run"), 1e-6)

	require.NoError(t, params.SetFloat("speed", 1))
	assert.InDelta(t, 0, leafWeight(t, tree, "Idle"), 1e-6)
	assert.InDelta(t, 1, leafWeight(t, tree, "Walk"), 1e-6)
	assert.InDelta(t, 0, leafWeight(t, tree, "Run"), 1e-6)
}

func TestBlendTree1DCoincidentPoints(t *testing.T) {
	params := floatParams("speed")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"speed"},
		Children: []BlendNodeConfig{
			{Name: "IdleA", Point: []float32{0}},
			{Name: "IdleB", Point: []float32{0}},
			{Name: "Run", Point: []float32{1}},
		},
	})

	tests := []struct {
		value        float32
		idleA, idleB float32
		run          float32
	}{
		{0, 0.5, 0.5, 0},
		{0.25, 0, 0.75, 0.25},
		{1, 0, 0, 1},
	}
	for _, tt := range tests {
		require.NoError(t, params.SetFloat("speed", tt.value))
		a := leafWeight(t, tree, "IdleA")
		b := leafWeight(t, tree, "IdleB")
		r := leafWeight(t, tree, "Run")
		assert.InDelta(t, tt.idleA, a, 1e-6, "IdleA at %v", tt.value)
		assert.InDelta(t, tt.idleB, b, 1e-6, "IdleB at %v", tt.value)
		assert.InDelta(t, tt.run, r, 1e-6, "Run at %v", tt.value)
		assert.InDelta(t, 1, a+b+r, 1e-6)
	}
}

func TestBlendTreeCartesian2D(t *testing.T) {
	params := floatParams("x", "y")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeCartesian2D,
		Parameters: []string{"x", "y"},
		Children: []BlendNodeConfig{
			{Name: "A", Point: []float32{0, 1}},
			{Name: "B", Point: []float32{0, -1}},
		},
	})

	tests := []struct {
		y    float32
		a, b float32
	}{
		{0, 0.5, 0.5},
		{0.5, 0.75, 0.25},
		{1, 1, 0},
	}
	for _, tt := range tests {
		require.NoError(t, params.SetFloat("y", tt.y))
		assert.InDelta(t, tt.a, leafWeight(t, tree, "A"), 1e-6, "A at y=%v", tt.y)
		assert.InDelta(t, tt.b, leafWeight(t, tree, "B"), 1e-6, "B at y=%v", tt.y)
	}
}

func TestBlendTreeCartesian2DCoincidentPoints(t *testing.T) {
	params := floatParams("x", "y")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeCartesian2D,
		Parameters: []string{"x", "y"},
		Children: []BlendNodeConfig{
			{Name: "A", Point: []float32{0, 0}},
			{Name: "B", Point: []float32{0, 0}},
		},
	})

	assert.Equal(t, float32(0), leafWeight(t, tree, "A"))
	assert.Equal(t, float32(0), leafWeight(t, tree, "B"))
}

func TestBlendTreeCartesian2DSingleChild(t *testing.T) {
	params := floatParams("x", "y")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeCartesian2D,
		Parameters: []string{"x", "y"},
		Children:   []BlendNodeConfig{{Name: "A", Point: []float32{1, 1}}},
	})
	assert.Equal(t, float32(1), leafWeight(t, tree, "A"))
}

func TestBlendTreeDirectional2D(t *testing.T) {
	params := floatParams("x", "y")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeDirectional2D,
		Parameters: []string{"x", "y"},
		Children: []BlendNodeConfig{
			{Name: "A", Point: []float32{0, 1}},
			{Name: "B", Point: []float32{0, -1}},
		},
	})

	tests := []struct {
		y    float32
		a, b float32
	}{
		{0, 0.5, 0.5},
		{0.5, 1, 0},
		{1, 1, 0},
	}
	for _, tt := range tests {
		require.NoError(t, params.SetFloat("y", tt.y))
		assert.InDelta(t, tt.a, leafWeight(t, tree, "A"), 1e-5, "A at y=%v", tt.y)
		assert.InDelta(t, tt.b, leafWeight(t, tree, "B"), 1e-5, "B at y=%v", tt.y)
	}
}

func TestBlendTreeDirectional2DAllAtOrigin(t *testing.T) {
	params := floatParams("x", "y")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeDirectional2D,
		Parameters: []string{"x", "y"},
		Children: []BlendNodeConfig{
			{Name: "A", Point: []float32{0, 0}},
			{Name: "B", Point: []float32{0, 0}},
		},
	})

	assert.Equal(t, float32(0), leafWeight(t, tree, "A"))
	assert.Equal(t, float32(0), leafWeight(t, tree, "B"))
}

func TestBlendTreeDirect(t *testing.T) {
	params := floatParams("a", "b")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendTypeDirect,
		Parameters: []string{"a", "b"},
		Children: []BlendNodeConfig{
			{Name: "A"},
			{Name: "B"},
		},
	})

	tests := []struct {
		pa, pb float32
		a, b   float32
	}{
		{0.5, 0.5, 0.5, 0.5},
		{0.75, 0.25, 0.75, 0.25},
		{1, 0, 1, 0},
		{0, 0, 0, 0},
		{3, -1, 1, 0},
	}
	for _, tt := range tests {
		require.NoError(t, params.SetFloat("a", tt.pa))
		require.NoError(t, params.SetFloat("b", tt.pb))
		assert.InDelta(t, tt.a, leafWeight(t, tree, "A"), 1e-6)
		assert.InDelta(t, tt.b, leafWeight(t, tree, "B"), 1e-6)
	}
}

func TestBlendTreeNestedWeightsMultiply(t *testing.T) {
	params := floatParams("outer", "inner")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"outer"},
		Children: []BlendNodeConfig{
			{Name: "Idle", Point: []float32{0}},
			{
				Name:       "Move",
				Point:      []float32{1},
				Type:       BlendType1D,
				Parameters: []string{"inner"},
				Children: []BlendNodeConfig{
					{Name: "Walk", Point: []float32{0}},
					{Name: "Run", Point: []float32{1}},
				},
			},
		},
	})

	require.NoError(t, params.SetFloat("outer", 0.5))
	require.NoError(t, params.SetFloat("inner", 0.25))

	move, ok := tree.Child("Move")
	require.True(t, ok)
	require.NotNil(t, move.Tree)
	walk, _ := move.Tree.Child("Walk")
	run, _ := move.Tree.Child("Run")

	assert.Equal(t, 3, tree.NodeCount())
	assert.Equal(t, "Blend.Move.Walk", walk.Leaf.Path())
	assert.InDelta(t, 0.5*0.75, walk.Leaf.Weight(), 1e-6)
	assert.InDelta(t, 0.5*0.25, run.Leaf.Weight(), 1e-6)
	assert.InDelta(t, 0.5, leafWeight(t, tree, "Idle"), 1e-6)
}

func TestBlendTreeUpdateParameterValuesReportsChanges(t *testing.T) {
	params := floatParams("blend")
	_, tree := newTreeState(t, params, BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"blend"},
		Children: []BlendNodeConfig{
			{Name: "A", Point: []float32{0}},
			{Name: "B", Point: []float32{1}},
		},
	})

	assert.False(t, tree.UpdateParameterValues())
	assert.True(t, tree.UpdateParameterValues())
	require.NoError(t, params.SetFloat("blend", 0.3))
	assert.False(t, tree.UpdateParameterValues())
}

func TestBlendTreeMissingChild(t *testing.T) {
	_, tree := newTreeState(t, floatParams("blend"), BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"blend"},
		Children:   []BlendNodeConfig{{Name: "A", Point: []float32{0}}},
	})
	_, ok := tree.Child("missing")
	assert.False(t, ok)
}

func TestBlendTreeMissingParameterPanics(t *testing.T) {
	_, tree := newTreeState(t, floatParams(), BlendNodeConfig{
		Type:       BlendType1D,
		Parameters: []string{"blend"},
		Children:   []BlendNodeConfig{{Name: "A", Point: []float32{0}}},
	})
	assert.Panics(t, func() { tree.CalculateWeights() })
}
