package controller

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

func testTrack(t *testing.T, name string, duration float32) *evaluator.Track {
	t.Helper()
	times, err := evaluator.NewData(1, []float32{0, duration})
	require.NoError(t, err)
	values, err := evaluator.NewData(1, []float32{0, duration})
	require.NoError(t, err)
	track, err := evaluator.NewTrack(name, duration, []*evaluator.Data{times}, []*evaluator.Data{values}, []*evaluator.Curve{
		evaluator.NewCurve([]string{name + "/value"}, 0, 0, evaluator.InterpolationLinear),
	}, nil)
	require.NoError(t, err)
	return track
}

func ptr[T any](v T) *T {
	return &v
}

func clipWeightSum(c Controller) float32 {
	var sum float32
	for _, clip := range c.Evaluator().Clips() {
		sum += clip.BlendWeight()
	}
	return sum
}

func newLocomotion(t *testing.T, options ...ControllerBuilderOption) (Controller, *ParameterSet) {
	t.Helper()
	params := NewParameterSet(map[string]Parameter{
		"speed": {Type: ParameterFloat},
		"jump":  {Type: ParameterTrigger},
	})
	states := []StateConfig{
		{Name: "Idle", Speed: 1, Loop: true},
		{Name: "Walk", Speed: 1, Loop: true},
		{Name: "Jump", Speed: 1, Loop: false},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("Idle")},
		{From: Named("Idle"), To: Named("Walk"), Time: 0.5, Conditions: []Condition{
			{ParameterName: "speed", Predicate: PredicateGreaterThan, Value: 0.5},
		}},
		{From: Named("Walk"), To: Named("Idle"), Time: 0.5, Conditions: []Condition{
			{ParameterName: "speed", Predicate: PredicateLessThanEqualTo, Value: 0.5},
		}},
		{From: StateAny, To: Named("Jump"), Time: 0.1, Priority: 1, Conditions: []Condition{
			{ParameterName: "jump", Predicate: PredicateEqualTo, Value: 1},
		}},
		{From: Named("Jump"), To: StateEnd, ExitTime: ptr(float32(1))},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params, options...)
	c.AssignAnimation("Idle", testTrack(t, "idle", 2))
	c.AssignAnimation("Walk", testTrack(t, "walk", 1))
	c.AssignAnimation("Jump", testTrack(t, "jump", 1))
	return c, params
}

func TestStateRef(t *testing.T) {
	assert.Equal(t, StateStart, ParseStateRef("START"))
	assert.Equal(t, StateEnd, ParseStateRef("END"))
	assert.Equal(t, StateAny, ParseStateRef("ANY"))
	assert.True(t, StateAny.IsControl())
	assert.False(t, Named("Idle").IsControl())
	assert.True(t, Named("").IsZero())
	assert.Equal(t, "Idle", Named("Idle").String())
	assert.Equal(t, "", StateRef{}.String())
}

func TestControllerAutoPlaysWhenPlayable(t *testing.T) {
	c, _ := newLocomotion(t)
	assert.True(t, c.Playable())
	assert.True(t, c.Playing())
	assert.Equal(t, "START", c.ActiveStateName())

	c.Update(0.1)
	assert.Equal(t, "Idle", c.ActiveStateName())
	assert.Equal(t, "START", c.PreviousStateName())
	assert.False(t, c.Transitioning())
	require.Len(t, c.Evaluator().Clips(), 1)
	assert.Equal(t, "Idle", c.Evaluator().Clips()[0].Name())
	assert.Equal(t, float32(1), c.Evaluator().Clips()[0].BlendWeight())
}

func TestControllerWithoutActivateWaitsForPlay(t *testing.T) {
	c, _ := newLocomotion(t, WithActivate(false))
	assert.False(t, c.Playing())
	c.Update(0.1)
	assert.Equal(t, "START", c.ActiveStateName())

	c.Play("")
	c.Update(0.1)
	assert.Equal(t, "Idle", c.ActiveStateName())
}

func TestControllerCrossFadeConservesWeight(t *testing.T) {
	c, params := newLocomotion(t)
	c.Update(0.1)

	require.NoError(t, params.SetFloat("speed", 1))
	c.Update(0.1)

	assert.Equal(t, "Walk", c.ActiveStateName())
	assert.Equal(t, "Idle", c.PreviousStateName())
	assert.True(t, c.Transitioning())
	assert.InDelta(t, 0.2, c.TransitionProgress(), 1e-6)

	prev := c.Evaluator().FindClip("Idle.previous.0")
	walk := c.Evaluator().FindClip("Walk")
	require.NotNil(t, prev)
	require.NotNil(t, walk)
	assert.InDelta(t, 0.8, prev.BlendWeight(), 1e-6)
	assert.InDelta(t, 0.2, walk.BlendWeight(), 1e-6)

	for i := 0; i < 3; i++ {
		c.Update(0.1)
		assert.InDelta(t, 1, clipWeightSum(c), 1e-5)
	}

	c.Update(0.2)
	assert.False(t, c.Transitioning())
	require.Len(t, c.Evaluator().Clips(), 1)
	assert.Equal(t, "Walk", c.Evaluator().Clips()[0].Name())
	assert.Equal(t, float32(1), c.Evaluator().Clips()[0].BlendWeight())
}

func TestControllerTriggerIsConsumed(t *testing.T) {
	c, params := newLocomotion(t)
	c.Update(0.1)

	require.NoError(t, params.SetTrigger("jump"))
	c.Update(0.1)

	assert.Equal(t, "Jump", c.ActiveStateName())
	p, ok := params.Get("jump")
	require.True(t, ok)
	assert.False(t, p.Bool())
}

func TestControllerEndRedirectsToStartDestination(t *testing.T) {
	c, params := newLocomotion(t)
	c.Update(0.1)
	require.NoError(t, params.SetTrigger("jump"))
	c.Update(0.1)
	require.Equal(t, "Jump", c.ActiveStateName())

	for i := 0; i < 12 && c.ActiveStateName() == "Jump"; i++ {
		c.Update(0.1)
	}
	assert.Equal(t, "Idle", c.ActiveStateName())

	impl := c.(*controller)
	jumpEdges := impl.findTransitionsFromState(Named("Jump"))
	require.Len(t, jumpEdges, 1)
	assert.Equal(t, StateEnd, jumpEdges[0].To(), "redirect must not rewrite the graph")
}

func TestControllerExitTimeFiresOnCrossingTick(t *testing.T) {
	states := []StateConfig{
		{Name: "Once", Speed: 1, Loop: false},
		{Name: "Idle", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("Idle")},
		{From: Named("Once"), To: Named("Idle"), ExitTime: ptr(float32(0.5))},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, nil, WithActivate(false))
	c.AssignAnimation("Once", testTrack(t, "once", 1))
	c.AssignAnimation("Idle", testTrack(t, "idle", 1))

	c.Play("Once")
	require.Equal(t, "Once", c.ActiveStateName())

	c.Update(0.2)
	assert.Equal(t, "Once", c.ActiveStateName())
	c.Update(0.2)
	assert.Equal(t, "Once", c.ActiveStateName())
	c.Update(0.2)
	assert.Equal(t, "Idle", c.ActiveStateName())
}

func TestControllerExitTimeZeroFiresImmediately(t *testing.T) {
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "B", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: Named("A"), To: Named("B"), ExitTime: ptr(float32(0))},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, nil, WithActivate(false))
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("B", testTrack(t, "b", 1))

	c.Play("A")
	c.Update(0.1)
	assert.Equal(t, "B", c.ActiveStateName())
}

// interruptionGraph leaves the controller half way through a one second A->B fade with
// both B->C and A->D ready to fire.
func interruptionGraph(t *testing.T, source InterruptionSource) (Controller, *ParameterSet) {
	t.Helper()
	params := NewParameterSet(map[string]Parameter{
		"goB": {Type: ParameterBoolean},
		"goC": {Type: ParameterBoolean},
		"goD": {Type: ParameterBoolean},
	})
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "B", Speed: 1, Loop: true},
		{Name: "C", Speed: 1, Loop: true},
		{Name: "D", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("A")},
		{From: Named("A"), To: Named("B"), Time: 1, InterruptionSource: source, Conditions: []Condition{
			{ParameterName: "goB", Predicate: PredicateEqualTo, Value: 1},
		}},
		{From: Named("B"), To: Named("C"), Time: 1, Conditions: []Condition{
			{ParameterName: "goC", Predicate: PredicateEqualTo, Value: 1},
		}},
		{From: Named("A"), To: Named("D"), Time: 1, Conditions: []Condition{
			{ParameterName: "goD", Predicate: PredicateEqualTo, Value: 1},
		}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params)
	for _, name := range []string{"A", "B", "C", "D"} {
		c.AssignAnimation(name, testTrack(t, name, 1))
	}

	c.Update(0.1)
	require.Equal(t, "A", c.ActiveStateName())
	require.NoError(t, params.SetBoolean("goB", true))
	c.Update(0.5)
	require.Equal(t, "B", c.ActiveStateName())
	require.True(t, c.Transitioning())
	require.NoError(t, params.SetBoolean("goC", true))
	require.NoError(t, params.SetBoolean("goD", true))
	return c, params
}

func TestControllerInterruptionNoneBlocksNewTransitions(t *testing.T) {
	c, _ := interruptionGraph(t, InterruptionNone)
	c.Update(0.25)
	assert.Equal(t, "B", c.ActiveStateName())
	assert.InDelta(t, 1, clipWeightSum(c), 1e-5)
}

func TestControllerInterruptionNextState(t *testing.T) {
	c, _ := interruptionGraph(t, InterruptionNextState)
	c.Update(0.25)

	assert.Equal(t, "C", c.ActiveStateName())
	assert.Equal(t, "B", c.PreviousStateName())

	a := c.Evaluator().FindClip("A.previous.0")
	b := c.Evaluator().FindClip("B.previous.1")
	cc := c.Evaluator().FindClip("C")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, cc)

	assert.False(t, a.Playing(), "older previous clips are frozen")
	assert.True(t, b.Playing())
	assert.InDelta(t, 0.375, a.BlendWeight(), 1e-5)
	assert.InDelta(t, 0.375, b.BlendWeight(), 1e-5)
	assert.InDelta(t, 0.25, cc.BlendWeight(), 1e-5)

	c.Update(1)
	assert.False(t, c.Transitioning())
	require.Len(t, c.Evaluator().Clips(), 1)
	assert.Equal(t, "C", c.Evaluator().Clips()[0].Name())
}

func TestControllerInterruptionSourceOrder(t *testing.T) {
	tests := []struct {
		source InterruptionSource
		want   string
	}{
		{InterruptionNone, "B"},
		{InterruptionPrevState, "D"},
		{InterruptionNextState, "C"},
		{InterruptionPrevStateNextState, "D"},
		{InterruptionNextStatePrevState, "C"},
	}
	for _, tt := range tests {
		t.Run(tt.source.String(), func(t *testing.T) {
			c, _ := interruptionGraph(t, tt.source)
			c.Update(0.25)
			assert.Equal(t, tt.want, c.ActiveStateName())
			assert.InDelta(t, 1, clipWeightSum(c), 1e-5)
		})
	}
}

func TestControllerInterruptionPrevStateOnlyReadsPreviousState(t *testing.T) {
	c, params := interruptionGraph(t, InterruptionPrevState)
	require.NoError(t, params.SetBoolean("goD", false))

	c.Update(0.25)
	assert.Equal(t, "B", c.ActiveStateName(), "B->C is not a candidate while fading out of A")
}

func TestControllerTransitionAtFadeEndReleasesPreviousClips(t *testing.T) {
	params := NewParameterSet(map[string]Parameter{
		"toB": {Type: ParameterBoolean},
	})
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "B", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("A")},
		{From: Named("A"), To: Named("B"), Time: 0.5, Conditions: []Condition{
			{ParameterName: "toB", Predicate: PredicateEqualTo, Value: 1},
		}},
		{From: Named("B"), To: Named("A"), Time: 0.5, Conditions: []Condition{
			{ParameterName: "toB", Predicate: PredicateEqualTo, Value: 0},
		}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params)
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("B", testTrack(t, "b", 1))
	c.Update(0.25)
	require.Equal(t, "A", c.ActiveStateName())

	// each toggle lands on the frame where the previous fade has exactly reached its end
	for i, toB := range []bool{true, false, true} {
		require.NoError(t, params.SetBoolean("toB", toB))
		c.Update(0.25)
		assert.True(t, c.Transitioning(), "toggle %d", i)
		assert.InDelta(t, 1, clipWeightSum(c), 1e-5, "toggle %d", i)
		assert.Len(t, c.Evaluator().Clips(), 2, "toggle %d", i)

		c.Update(0.25)
		assert.InDelta(t, 1, clipWeightSum(c), 1e-5, "toggle %d at fade end", i)
	}

	assert.Equal(t, "B", c.ActiveStateName())
	assert.NotNil(t, c.Evaluator().FindClip("A.previous.0"))
	assert.NotNil(t, c.Evaluator().FindClip("B"))
}

func TestControllerTransitionOffsetStartsLater(t *testing.T) {
	params := NewParameterSet(map[string]Parameter{
		"go": {Type: ParameterBoolean},
	})
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "B", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("A")},
		{From: Named("A"), To: Named("B"), TransitionOffset: ptr(float32(0.5)), Conditions: []Condition{
			{ParameterName: "go", Predicate: PredicateEqualTo, Value: 1},
		}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params)
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("B", testTrack(t, "b", 2))
	c.Update(0.1)

	require.NoError(t, params.SetBoolean("go", true))
	c.Update(0.1)

	require.Equal(t, "B", c.ActiveStateName())
	assert.InDelta(t, 1, c.ActiveStateCurrentTime(), 1e-6)
	b := c.Evaluator().FindClip("B")
	require.NotNil(t, b)
	assert.InDelta(t, 1.1, b.Time(), 1e-5)
}

func TestControllerNegativeSpeedStartsAtEnd(t *testing.T) {
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "Rewind", Speed: -1, Loop: true},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, nil, nil, WithActivate(false))
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("Rewind", testTrack(t, "rewind", 2))

	c.Play("Rewind")
	clip := c.Evaluator().FindClip("Rewind")
	require.NotNil(t, clip)
	assert.Equal(t, float32(2), c.ActiveStateDuration())
	assert.Equal(t, float32(2), clip.Time())
}

func TestControllerExitTimeFollowsStateLoopOverride(t *testing.T) {
	params := NewParameterSet(map[string]Parameter{
		"go": {Type: ParameterBoolean},
	})
	states := []StateConfig{
		{Name: "Once", Speed: 1, Loop: true},
		{Name: "Idle", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: Named("Once"), To: Named("Idle"), ExitTime: ptr(float32(0)), Conditions: []Condition{
			{ParameterName: "go", Predicate: PredicateEqualTo, Value: 1},
		}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params, WithActivate(false))
	c.AssignAnimation("Idle", testTrack(t, "idle", 1))
	once := testTrack(t, "once", 1)
	c.AssignAnimation("Once", once)

	c.Play("Once")
	require.NotNil(t, c.Evaluator().FindClip("Once"))
	c.AssignAnimation("Once", once, WithStateLoop(false))

	c.Update(0.6)
	c.Update(0.6)
	require.Equal(t, float32(1), c.ActiveStateCurrentTime(), "non-looping state clamps at its end")

	require.NoError(t, params.SetBoolean("go", true))
	c.Update(0.1)
	assert.Equal(t, "Once", c.ActiveStateName(), "a clamped state never wraps past an exit time of 0")
}

func TestControllerPlayJumpsInstantly(t *testing.T) {
	c, params := newLocomotion(t)
	c.Update(0.1)

	c.Play("Walk")
	assert.Equal(t, "Walk", c.ActiveStateName())
	assert.Equal(t, "", c.PreviousStateName())
	require.Len(t, c.Evaluator().Clips(), 1)

	require.NoError(t, params.SetFloat("speed", 1))
	c.Update(0.1)
	assert.Equal(t, "Walk", c.ActiveStateName())
	assert.False(t, c.Transitioning())
}

func TestControllerPlayUsesGraphEdge(t *testing.T) {
	c, _ := newLocomotion(t)
	c.Update(0.1)

	c.Play("Walk")
	c.Play("Idle")
	assert.Equal(t, "Idle", c.ActiveStateName())
	assert.True(t, c.Transitioning(), "Walk->Idle has a graph edge with a fade")
}

func TestControllerPlayUnknownStateIsNoop(t *testing.T) {
	c, _ := newLocomotion(t)
	c.Update(0.1)
	c.Play("Swim")
	assert.Equal(t, "Idle", c.ActiveStateName())
}

func TestControllerRemoveNodeAnimations(t *testing.T) {
	c, _ := newLocomotion(t)

	assert.False(t, c.RemoveNodeAnimations("START"))
	assert.False(t, c.RemoveNodeAnimations("Swim"))
	assert.True(t, c.RemoveNodeAnimations("Walk"))
	assert.False(t, c.State("Walk").Playable())
	assert.False(t, c.Playable())
}

func TestControllerAssignCreatesMissingState(t *testing.T) {
	c, _ := newLocomotion(t)
	c.AssignAnimation("Swim", testTrack(t, "swim", 3), WithStateSpeed(2), WithStateLoop(false))

	s := c.State("Swim")
	require.NotNil(t, s)
	assert.Equal(t, float32(2), s.Speed())
	assert.False(t, s.Loop())
	assert.Equal(t, float32(3), s.TimelineDuration())
	assert.Contains(t, c.States(), "Swim")
}

func TestControllerAssignReplacesTrack(t *testing.T) {
	c, _ := newLocomotion(t)
	c.Update(0.1)

	replacement := testTrack(t, "idle2", 4)
	c.AssignAnimation("Idle", replacement)

	s := c.State("Idle")
	require.Len(t, s.Animations(), 1)
	assert.Same(t, replacement, s.Animations()[0].Track())
	assert.Same(t, replacement, c.Evaluator().FindClip("Idle").Track())
	assert.Equal(t, float32(4), c.ActiveStateDuration())
}

func TestControllerMissingParameterPanics(t *testing.T) {
	states := []StateConfig{{Name: "A", Speed: 1, Loop: true}, {Name: "B", Speed: 1, Loop: true}}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("A")},
		{From: Named("A"), To: Named("B"), Conditions: []Condition{
			{ParameterName: "nope", Predicate: PredicateEqualTo, Value: 1},
		}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, NewParameterSet(nil))
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("B", testTrack(t, "b", 1))

	c.Update(0.1)
	assert.Panics(t, func() { c.Update(0.1) })
}

func TestControllerExpressionCondition(t *testing.T) {
	cond, err := NewExpressionCondition("speed > 0.5 && grounded")
	require.NoError(t, err)

	params := NewParameterSet(map[string]Parameter{
		"speed":    {Type: ParameterFloat},
		"grounded": {Type: ParameterBoolean},
	})
	states := []StateConfig{{Name: "Idle", Speed: 1, Loop: true}, {Name: "Run", Speed: 1, Loop: true}}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("Idle")},
		{From: Named("Idle"), To: Named("Run"), Conditions: []Condition{cond}},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params)
	c.AssignAnimation("Idle", testTrack(t, "idle", 1))
	c.AssignAnimation("Run", testTrack(t, "run", 1))
	c.Update(0.1)

	require.NoError(t, params.SetFloat("speed", 1))
	c.Update(0.1)
	assert.Equal(t, "Idle", c.ActiveStateName())

	require.NoError(t, params.SetBoolean("grounded", true))
	c.Update(0.1)
	assert.Equal(t, "Run", c.ActiveStateName())

	_, err = NewExpressionCondition("speed >")
	assert.Error(t, err)
}

func TestControllerExpressionErrorsLogOnlyInDebug(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	run := func(debug bool) Controller {
		// a float plus a string only fails once the expression runs
		cond, err := NewExpressionCondition(`speed + "x" == "1x"`)
		require.NoError(t, err)
		params := NewParameterSet(map[string]Parameter{"speed": {Type: ParameterFloat}})
		states := []StateConfig{{Name: "Idle", Speed: 1, Loop: true}, {Name: "Run", Speed: 1, Loop: true}}
		transitions := []TransitionConfig{
			{From: StateStart, To: Named("Idle")},
			{From: Named("Idle"), To: Named("Run"), Conditions: []Condition{cond}},
		}
		c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params, WithDebug(debug))
		c.AssignAnimation("Idle", testTrack(t, "idle", 1))
		c.AssignAnimation("Run", testTrack(t, "run", 1))
		c.Update(0.1)
		c.Update(0.1)
		return c
	}

	c := run(false)
	assert.Equal(t, "Idle", c.ActiveStateName())
	assert.Empty(t, buf.String())

	c = run(true)
	assert.Equal(t, "Idle", c.ActiveStateName())
	assert.Contains(t, buf.String(), "[AnimController] condition")
}

func TestControllerPriorityOrdersCandidates(t *testing.T) {
	states := []StateConfig{
		{Name: "A", Speed: 1, Loop: true},
		{Name: "B", Speed: 1, Loop: true},
		{Name: "C", Speed: 1, Loop: true},
	}
	transitions := []TransitionConfig{
		{From: StateStart, To: Named("A")},
		{From: Named("A"), To: Named("B"), Priority: 2},
		{From: Named("A"), To: Named("C"), Priority: 1},
	}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, nil)
	c.AssignAnimation("A", testTrack(t, "a", 1))
	c.AssignAnimation("B", testTrack(t, "b", 1))
	c.AssignAnimation("C", testTrack(t, "c", 1))

	c.Update(0.1)
	c.Update(0.1)
	assert.Equal(t, "C", c.ActiveStateName())
}

func TestControllerBlendTreeStateFollowsParameters(t *testing.T) {
	params := floatParams("speed")
	states := []StateConfig{{
		Name: "Move", Speed: 1, Loop: true,
		BlendTree: &BlendNodeConfig{
			Type:       BlendType1D,
			Parameters: []string{"speed"},
			Children: []BlendNodeConfig{
				{Name: "Walk", Point: []float32{0}},
				{Name: "Run", Point: []float32{1}},
			},
		},
	}}
	transitions := []TransitionConfig{{From: StateStart, To: Named("Move")}}
	c := NewController(evaluator.NewEvaluator(nil, false), states, transitions, params)

	c.AssignAnimation("Move.Walk", testTrack(t, "walk", 1))
	assert.False(t, c.Playing(), "state still has an unassigned leaf")
	c.AssignAnimation("Move.Run", testTrack(t, "run", 0.5))
	assert.True(t, c.Playing())

	c.Update(0.1)
	require.NoError(t, params.SetFloat("speed", 0.25))
	c.Update(0.1)

	walk := c.Evaluator().FindClip("Move.Walk")
	run := c.Evaluator().FindClip("Move.Run")
	require.NotNil(t, walk)
	require.NotNil(t, run)
	assert.InDelta(t, 0.75, walk.BlendWeight(), 1e-6)
	assert.InDelta(t, 0.25, run.BlendWeight(), 1e-6)

	// synced: the weighted cycle is 0.75*1 + 0.25*0.5 = 0.875 seconds
	assert.InDelta(t, 1/0.875, walk.Speed(), 1e-5)
	assert.InDelta(t, 0.5/0.875, run.Speed(), 1e-5)
}

func TestControllerReset(t *testing.T) {
	c, params := newLocomotion(t)
	c.Update(0.1)
	require.NoError(t, params.SetFloat("speed", 1))
	c.Update(0.1)

	c.Reset()
	assert.Equal(t, "START", c.ActiveStateName())
	assert.Equal(t, "", c.PreviousStateName())
	assert.False(t, c.Playing())
	assert.False(t, c.Transitioning())
	assert.Empty(t, c.Evaluator().Clips())
}

func TestControllerPseudostatesAlwaysExist(t *testing.T) {
	c := NewController(evaluator.NewEvaluator(nil, false), nil, nil, nil)
	for _, name := range []string{"START", "END", "ANY"} {
		s := c.State(name)
		require.NotNil(t, s, name)
		assert.True(t, s.Playable())
	}
	assert.Equal(t, float32(1), c.ActiveStateProgress())
}
