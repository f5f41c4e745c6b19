package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

func constantTrack(t *testing.T, name, path string, value ...float32) *Track {
	t.Helper()
	times := mustData(t, 1, 0)
	values := mustData(t, len(value), value...)
	track, err := NewTrack(name, 1, []*Data{times}, []*Data{values}, []*Curve{
		NewCurve([]string{path}, 0, 0, InterpolationLinear),
	}, nil)
	require.NoError(t, err)
	return track
}

func TestPathRoundTrip(t *testing.T) {
	path := JoinPath(`arm/left\upper`, PropertyLocalRotation)
	node, property, ok := SplitPath(path)
	require.True(t, ok)
	assert.Equal(t, `arm/left\upper`, node)
	assert.Equal(t, PropertyLocalRotation, property)

	_, _, ok = SplitPath("noseparator")
	assert.False(t, ok)
}

func TestEvaluatorWritesSingleClip(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	root := game_object.NewGameObject(game_object.WithName("root"), game_object.WithChildren(hips))
	eval := NewEvaluator(NewDefaultBinder(root, false), false)

	eval.AddClip(NewClip(constantTrack(t, "walk", JoinPath("hips", PropertyLocalPosition), 1, 2, 3)))
	eval.Update(0.1)

	assert.Equal(t, [3]float32{1, 2, 3}, hips.LocalPosition())
	assert.True(t, hips.Dirty())
}

func TestEvaluatorBlendsVectors(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	eval := NewEvaluator(NewDefaultBinder(hips, false), false)
	path := JoinPath("hips", PropertyLocalPosition)

	eval.AddClip(NewClip(constantTrack(t, "a", path, 0, 0, 0), WithBlendWeight(0.5)))
	eval.AddClip(NewClip(constantTrack(t, "b", path, 2, 4, 0), WithBlendWeight(0.5)))
	eval.Update(0.1)

	assert.InDeltaSlice(t, []float32{1, 2, 0}, hips.LocalPosition()[:], 1e-5)
}

func TestEvaluatorBlendsQuaternionsOnShortestArc(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	eval := NewEvaluator(NewDefaultBinder(hips, false), false)
	path := JoinPath("hips", PropertyLocalRotation)

	eval.AddClip(NewClip(constantTrack(t, "a", path, 0, 0, 0, 1), WithBlendWeight(0.5)))
	eval.AddClip(NewClip(constantTrack(t, "b", path, 0, 0, 0, -1), WithBlendWeight(0.5)))
	eval.Update(0.1)

	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, hips.LocalRotation()[:], 1e-5)
}

func TestEvaluatorFullWeightOverrides(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	eval := NewEvaluator(NewDefaultBinder(hips, false), false)
	path := JoinPath("hips", PropertyLocalScale)

	eval.AddClip(NewClip(constantTrack(t, "base", path, 5, 5, 5), WithBlendWeight(0.3)))
	eval.AddClip(NewClip(constantTrack(t, "top", path, 2, 2, 2), WithBlendOrder(1)))
	eval.Update(0.1)

	assert.Equal(t, [3]float32{2, 2, 2}, hips.LocalScale())
}

func TestEvaluatorSkipsZeroWeightClips(t *testing.T) {
	eval := NewEvaluator(nil, false)
	clip := NewClip(rampTrack(t, "walk", 1), WithBlendWeight(0))
	eval.AddClip(clip)

	eval.Update(0.5)
	assert.Equal(t, float32(0), clip.Time())

	clip.SetBlendWeight(1)
	eval.Update(0.5)
	assert.InDelta(t, 0.5, clip.Time(), 1e-6)
	assert.InDelta(t, 0.5, clip.Snapshot().Result(0)[0], 1e-6)
}

func TestEvaluatorMorphWeights(t *testing.T) {
	face := game_object.NewGameObject(game_object.WithName("face"), game_object.WithWeights(0, 0))
	eval := NewEvaluator(NewDefaultBinder(face, false), false)

	eval.AddClip(NewClip(constantTrack(t, "smile", JoinPath("face", PropertyWeights), 0.25, 0.75)))
	eval.Update(0.1)

	assert.Equal(t, []float32{0.25, 0.75}, face.Weights())
}

func TestEvaluatorReleasesBindings(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	binder := NewDefaultBinder(hips, false).(*defaultBinder)
	eval := NewEvaluator(binder, false).(*evaluator)
	path := JoinPath("hips", PropertyLocalPosition)

	eval.AddClip(NewClip(constantTrack(t, "a", path, 1, 1, 1)))
	eval.AddClip(NewClip(constantTrack(t, "b", path, 2, 2, 2)))
	require.Len(t, eval.targets, 1)
	assert.Equal(t, 2, eval.targets[path].curves)

	eval.RemoveClip(0)
	require.Len(t, eval.targets, 1)
	assert.Equal(t, "b", eval.Clips()[0].Name())

	eval.RemoveClips()
	assert.Empty(t, eval.targets)
	assert.Empty(t, binder.targets)
	assert.Empty(t, binder.activeNodes)
}

func TestEvaluatorUnresolvablePathsAreIgnored(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	eval := NewEvaluator(NewDefaultBinder(hips, false), false)

	clip := NewClip(constantTrack(t, "a", JoinPath("missing", PropertyLocalPosition), 1, 1, 1))
	eval.AddClip(clip)
	eval.Update(0.1)

	assert.Equal(t, float32(1), clip.Snapshot().Result(0)[0])
	assert.Equal(t, [3]float32{0, 0, 0}, hips.LocalPosition())
}

func TestEvaluatorFindAndUpdateClipTrack(t *testing.T) {
	hips := game_object.NewGameObject(game_object.WithName("hips"))
	eval := NewEvaluator(NewDefaultBinder(hips, false), false)
	path := JoinPath("hips", PropertyLocalPosition)

	eval.AddClip(NewClip(constantTrack(t, "a", path, 1, 1, 1), WithName("Idle")))
	eval.AddClip(NewClip(constantTrack(t, "a", path, 1, 1, 1), WithName("Idle.previous.0"), WithBlendWeight(0)))
	eval.AddClip(NewClip(constantTrack(t, "a", path, 1, 1, 1), WithName("IdleLong"), WithBlendWeight(0)))

	require.NotNil(t, eval.FindClip("Idle"))
	assert.Nil(t, eval.FindClip("Run"))

	replacement := constantTrack(t, "b", path, 3, 3, 3)
	eval.UpdateClipTrack("Idle", replacement)

	assert.Same(t, replacement, eval.FindClip("Idle").Track())
	assert.Same(t, replacement, eval.FindClip("Idle.previous.0").Track())
	assert.NotSame(t, replacement, eval.FindClip("IdleLong").Track())

	eval.Update(0.1)
	assert.Equal(t, [3]float32{3, 3, 3}, hips.LocalPosition())
}
