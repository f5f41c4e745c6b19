package controller

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

type transitionKey struct {
	from StateRef
	to   StateRef
}

type previousState struct {
	ref    StateRef
	weight float32
}

type controller struct {
	evaluator    evaluator.Evaluator
	params       Parameters
	states       map[StateRef]*State
	stateNames   []string
	transitions  []*Transition
	activate     bool
	debug        bool
	eventHandler evaluator.EventHandler

	findTransitionsFromStateCache    map[StateRef][]*Transition
	findTransitionsBetweenStateCache map[transitionKey][]*Transition
	candidates                       []*Transition

	previousStateRef StateRef
	activeStateRef   StateRef
	playing          bool

	activeStateDuration      float32
	activeStateDurationDirty bool

	timeInState       float32
	timeInStateBefore float32

	isTransitioning              bool
	currTransitionTime           float32
	totalTransitionTime          float32
	transitionInterruptionSource InterruptionSource
	transitionPreviousStates     []previousState
}

// Controller runs a state graph: it selects transitions, cross-fades the clips of the
// previous and active states and advances its Evaluator once per Update.
type Controller interface {
	// Evaluator returns the evaluator driven by this controller.
	//
	// Returns:
	//   - evaluator.Evaluator: the evaluator
	Evaluator() evaluator.Evaluator

	// Parameters returns the parameter source read by conditions and blend trees.
	//
	// Returns:
	//   - Parameters: the parameter source
	Parameters() Parameters

	// States returns the authored state names in declaration order, pseudostates included.
	//
	// Returns:
	//   - []string: the state names
	States() []string

	// State returns the named state, or nil.
	//
	// Parameters:
	//   - name: the state name, including "START", "END" and "ANY"
	//
	// Returns:
	//   - *State: the state or nil
	State(name string) *State

	// ActiveState returns the state currently fading in or playing.
	//
	// Returns:
	//   - *State: the active state
	ActiveState() *State

	// ActiveStateName returns the name of the active state.
	ActiveStateName() string

	// ActiveStateAnimations returns the assigned leaves of the active state.
	ActiveStateAnimations() []*Node

	// PreviousState returns the state being faded out, or nil.
	PreviousState() *State

	// PreviousStateName returns the name of the state being faded out, or "".
	PreviousStateName() string

	// Playable reports whether every state has all of its leaves assigned.
	Playable() bool

	// Playing reports whether Update advances the controller.
	Playing() bool

	// SetPlaying starts or stops the controller without changing state.
	//
	// Parameters:
	//   - playing: true to advance on Update
	SetPlaying(playing bool)

	// ActiveStateProgress returns the active state's normalized playback position.
	//
	// Returns:
	//   - float32: time in state divided by the first clip's duration; 1 for pseudostates
	ActiveStateProgress() float32

	// ActiveStateDuration returns the longest track duration of the active state.
	ActiveStateDuration() float32

	// ActiveStateCurrentTime returns the time spent in the active state.
	ActiveStateCurrentTime() float32

	// SetActiveStateCurrentTime scrubs the active state's clips to time.
	//
	// Parameters:
	//   - time: the time in seconds
	SetActiveStateCurrentTime(time float32)

	// Transitioning reports whether a cross-fade is in flight.
	Transitioning() bool

	// TransitionProgress returns the fraction of the in-flight cross-fade that has elapsed.
	TransitionProgress() float32

	// AssignAnimation assigns a track to the leaf at a dot-separated node path whose first
	// segment names the state. Missing states are created as single-animation states.
	//
	// Parameters:
	//   - path: the node path, e.g. "Locomotion.Walk"
	//   - track: the track to assign
	//   - options: optional overrides of the state speed and loop flag
	AssignAnimation(path string, track *evaluator.Track, options ...AssignOption)

	// RemoveNodeAnimations clears every track assignment of the named state.
	//
	// Parameters:
	//   - name: the state name
	//
	// Returns:
	//   - bool: false for pseudostates and unknown states
	RemoveNodeAnimations(name string) bool

	// Play starts the controller, first moving to stateName when it is not empty. A graph
	// edge into the state is used when one exists; otherwise the jump is instant.
	//
	// Parameters:
	//   - stateName: the state to play, or "" to resume the current state
	Play(stateName string)

	// Pause stops advancing without changing state.
	Pause()

	// Reset returns to START, stops playing and removes every clip.
	Reset()

	// Rebind re-resolves every clip path through the evaluator's binder.
	Rebind()

	// Update advances the controller by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)
}

var _ Controller = &controller{}

// NewController creates a Controller. START, END and ANY states are added when the graph
// does not declare them.
//
// Parameters:
//   - eval: the evaluator receiving this controller's clips
//   - states: the state configurations
//   - transitions: the transition configurations
//   - params: the parameter source, may be nil when no condition or blend tree reads parameters
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the new controller
func NewController(eval evaluator.Evaluator, states []StateConfig, transitions []TransitionConfig, params Parameters, options ...ControllerBuilderOption) Controller {
	c := &controller{
		evaluator:                        eval,
		params:                           params,
		states:                           make(map[StateRef]*State),
		activate:                         true,
		findTransitionsFromStateCache:    make(map[StateRef][]*Transition),
		findTransitionsBetweenStateCache: make(map[transitionKey][]*Transition),
		activeStateRef:                   StateStart,
		activeStateDurationDirty:         true,
		currTransitionTime:               1,
		totalTransitionTime:              1,
	}
	for _, option := range options {
		option(c)
	}

	for _, cfg := range states {
		c.addState(cfg)
	}
	for _, name := range []string{StateNameStart, StateNameEnd, StateNameAny} {
		if _, ok := c.states[ParseStateRef(name)]; !ok {
			c.addState(StateConfig{Name: name, Speed: 1, Loop: true})
		}
	}

	for _, cfg := range transitions {
		t := NewTransition(cfg)
		for _, ref := range []StateRef{t.from, t.to} {
			if !ref.IsZero() && c.findState(ref) == nil {
				c.logf("transition references undeclared state %q", ref)
				c.addState(StateConfig{Name: ref.String(), Speed: 1, Loop: true})
			}
		}
		c.transitions = append(c.transitions, t)
	}
	return c
}

func (c *controller) addState(cfg StateConfig) *State {
	s := newState(cfg, c.params, c.evaluator.FindClip)
	c.states[s.ref] = s
	c.stateNames = append(c.stateNames, s.Name())
	return s
}

func (c *controller) findState(ref StateRef) *State {
	return c.states[ref]
}

func (c *controller) Evaluator() evaluator.Evaluator {
	return c.evaluator
}

func (c *controller) Parameters() Parameters {
	return c.params
}

func (c *controller) States() []string {
	return c.stateNames
}

func (c *controller) State(name string) *State {
	return c.findState(ParseStateRef(name))
}

func (c *controller) ActiveState() *State {
	return c.findState(c.activeStateRef)
}

func (c *controller) ActiveStateName() string {
	return c.activeStateRef.String()
}

func (c *controller) ActiveStateAnimations() []*Node {
	if s := c.ActiveState(); s != nil {
		return s.Animations()
	}
	return nil
}

func (c *controller) PreviousState() *State {
	return c.findState(c.previousStateRef)
}

func (c *controller) PreviousStateName() string {
	return c.previousStateRef.String()
}

func (c *controller) Playable() bool {
	for _, s := range c.states {
		if !s.Playable() {
			return false
		}
	}
	return true
}

func (c *controller) Playing() bool {
	return c.playing
}

func (c *controller) SetPlaying(playing bool) {
	c.playing = playing
}

func (c *controller) ActiveStateProgress() float32 {
	return c.activeStateProgressForTime(c.timeInState)
}

func (c *controller) ActiveStateDuration() float32 {
	if c.activeStateDurationDirty {
		c.activeStateDuration = 0
		if s := c.ActiveState(); s != nil {
			c.activeStateDuration = s.TimelineDuration()
		}
		c.activeStateDurationDirty = false
	}
	return c.activeStateDuration
}

func (c *controller) ActiveStateCurrentTime() float32 {
	return c.timeInState
}

func (c *controller) SetActiveStateCurrentTime(time float32) {
	c.timeInStateBefore = time
	c.timeInState = time
	for _, anim := range c.ActiveStateAnimations() {
		if clip := c.evaluator.FindClip(anim.Path()); clip != nil {
			clip.SetTime(time)
		}
	}
}

func (c *controller) Transitioning() bool {
	return c.isTransitioning
}

func (c *controller) TransitionProgress() float32 {
	if c.totalTransitionTime == 0 {
		return 1
	}
	return c.currTransitionTime / c.totalTransitionTime
}

func (c *controller) activeStateProgressForTime(time float32) float32 {
	if c.activeStateRef.IsControl() {
		return 1
	}
	animations := c.ActiveStateAnimations()
	if len(animations) == 0 {
		return 0
	}
	if clip := c.evaluator.FindClip(animations[0].Path()); clip != nil {
		return clip.ProgressForTime(time)
	}
	return 0
}

// findTransitionsFromState returns the transitions leaving ref in ascending priority order.
func (c *controller) findTransitionsFromState(ref StateRef) []*Transition {
	if cached, ok := c.findTransitionsFromStateCache[ref]; ok {
		return cached
	}
	var found []*Transition
	for _, t := range c.transitions {
		if t.from == ref {
			found = append(found, t)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].priority < found[j].priority
	})
	c.findTransitionsFromStateCache[ref] = found
	return found
}

// findTransitionsBetweenStates returns the transitions from source to destination in
// ascending priority order.
func (c *controller) findTransitionsBetweenStates(from, to StateRef) []*Transition {
	key := transitionKey{from: from, to: to}
	if cached, ok := c.findTransitionsBetweenStateCache[key]; ok {
		return cached
	}
	var found []*Transition
	for _, t := range c.transitions {
		if t.from == from && t.to == to {
			found = append(found, t)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].priority < found[j].priority
	})
	c.findTransitionsBetweenStateCache[key] = found
	return found
}

func (c *controller) transitionHasConditionsMet(t *Transition) bool {
	for _, cond := range t.conditions {
		if !cond.evaluate(c.params, c.debug) {
			return false
		}
	}
	return true
}

// findTransition returns the first eligible transition. With from and to set only edges
// between them are considered; otherwise the candidate sources depend on whether a
// transition is in flight and on its interruption source.
func (c *controller) findTransition(from, to StateRef) *Transition {
	candidates := c.candidates[:0]

	switch {
	case !from.IsZero() && !to.IsZero():
		candidates = append(candidates, c.findTransitionsBetweenStates(from, to)...)
	case !c.transitionInFlight():
		candidates = append(candidates, c.findTransitionsFromState(c.activeStateRef)...)
		candidates = append(candidates, c.findTransitionsFromState(StateAny)...)
	default:
		switch c.transitionInterruptionSource {
		case InterruptionPrevState:
			candidates = append(candidates, c.findTransitionsFromState(c.previousStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(StateAny)...)
		case InterruptionNextState:
			candidates = append(candidates, c.findTransitionsFromState(c.activeStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(StateAny)...)
		case InterruptionPrevStateNextState:
			candidates = append(candidates, c.findTransitionsFromState(c.previousStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(c.activeStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(StateAny)...)
		case InterruptionNextStatePrevState:
			candidates = append(candidates, c.findTransitionsFromState(c.activeStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(c.previousStateRef)...)
			candidates = append(candidates, c.findTransitionsFromState(StateAny)...)
		}
	}
	c.candidates = candidates

	for _, t := range candidates {
		if t.to == c.activeStateRef {
			continue
		}
		if t.HasExitTime() && !c.exitTimeReached(*t.exitTime) {
			continue
		}
		if !c.transitionHasConditionsMet(t) {
			continue
		}
		if t.to == StateEnd {
			if start := c.findTransitionsFromState(StateStart); len(start) > 0 {
				return t.withDestination(start[0].to)
			}
		}
		return t
	}
	return nil
}

// exitTimeReached reports whether the active state's progress crossed exitTime during the
// last time step. For looping states with an exit time below 1 only the position within the
// current cycle counts, and a wrap crosses the end of the old cycle and the start of the new one.
// An exit time of 0 is reached on the first step after entering the state.
func (c *controller) exitTimeReached(exitTime float32) bool {
	progressBefore := c.activeStateProgressForTime(c.timeInStateBefore)
	progress := c.activeStateProgressForTime(c.timeInState)

	wrapped := false
	if exitTime < 1 && c.ActiveState().Loop() {
		cycleBefore := float32(math.Floor(float64(progressBefore)))
		cycle := float32(math.Floor(float64(progress)))
		progressBefore -= cycleBefore
		progress -= cycle
		wrapped = cycle > cycleBefore
	}

	if exitTime == 0 && c.timeInStateBefore == 0 {
		return true
	}
	if progress == progressBefore {
		return progress == exitTime
	}
	if wrapped {
		return exitTime > progressBefore || exitTime <= progress
	}
	return exitTime > progressBefore && exitTime <= progress
}

// transitionInFlight reports whether a cross-fade has time left. An instant transition stays
// flagged until the next Update but cannot be interrupted.
func (c *controller) transitionInFlight() bool {
	return c.isTransitioning && c.currTransitionTime < c.totalTransitionTime
}

// updateStateFromTransition makes the transition's destination active and starts the
// cross-fade from the current clips.
func (c *controller) updateStateFromTransition(t *Transition) {
	// a fade that reached its end this frame still owns its previous clips
	if c.isTransitioning && !c.transitionInFlight() {
		c.finishTransition()
	}

	if t.from.IsZero() {
		c.previousStateRef = StateRef{}
	} else {
		c.previousStateRef = c.activeStateRef
	}
	c.activeStateRef = t.to
	c.activeStateDurationDirty = true

	for _, cond := range t.conditions {
		if cond.IsExpression() {
			continue
		}
		if p := mustFindParameter(c.params, cond.ParameterName); p.Type == ParameterTrigger {
			c.params.ConsumeTrigger(cond.ParameterName)
		}
	}

	inFlight := c.transitionInFlight()
	if !c.previousStateRef.IsZero() {
		if !inFlight {
			c.transitionPreviousStates = c.transitionPreviousStates[:0]
		}
		c.transitionPreviousStates = append(c.transitionPreviousStates, previousState{ref: c.previousStateRef, weight: 1})

		interpolatedTime := float32(1)
		if c.totalTransitionTime != 0 {
			interpolatedTime = c.currTransitionTime / c.totalTransitionTime
		}
		if interpolatedTime > 1 {
			interpolatedTime = 1
		}

		last := len(c.transitionPreviousStates) - 1
		for i := range c.transitionPreviousStates {
			prev := &c.transitionPreviousStates[i]
			switch {
			case !inFlight:
				prev.weight = 1
			case i != last:
				prev.weight *= 1 - interpolatedTime
			default:
				prev.weight = interpolatedTime
			}

			state := c.findState(prev.ref)
			if state == nil {
				continue
			}
			for _, anim := range state.Animations() {
				name := previousClipName(anim.Path(), i)
				clip := c.evaluator.FindClip(name)
				if clip == nil {
					clip = c.evaluator.FindClip(anim.Path())
					if clip != nil {
						clip.SetName(name)
					}
				}
				if clip != nil && i != last {
					clip.Pause()
				}
			}
		}
	}

	c.isTransitioning = true
	c.totalTransitionTime = t.time
	c.currTransitionTime = 0
	c.transitionInterruptionSource = t.interruptionSource

	active := c.ActiveState()
	if active == nil {
		c.logf("transition into unknown state %q", t.to)
		return
	}

	offset := t.TransitionOffset()
	hasOffset := t.HasTransitionOffset() && offset > 0 && offset < 1
	var timeInState float32
	if hasOffset {
		timeInState = active.TimelineDuration() * offset
	}
	c.timeInState = timeInState
	c.timeInStateBefore = timeInState

	for _, anim := range active.Animations() {
		clip := c.evaluator.FindClip(anim.Path())
		if clip == nil {
			clip = evaluator.NewClip(anim.track,
				evaluator.WithName(anim.Path()),
				evaluator.WithSpeed(anim.Speed()),
				evaluator.WithLoop(active.Loop()),
				evaluator.WithClipEventHandler(c.eventHandler),
			)
			c.evaluator.AddClip(clip)
		} else {
			clip.Reset()
		}

		if t.time > 0 {
			clip.SetBlendWeight(0)
		} else {
			clip.SetBlendWeight(anim.NormalizedWeight())
		}
		clip.Play()

		if hasOffset {
			clip.SetTime(timeInState)
		} else if active.Speed() >= 0 {
			clip.SetTime(0)
		} else {
			clip.SetTime(c.ActiveStateDuration())
		}
	}
}

func previousClipName(path string, index int) string {
	return fmt.Sprintf("%s.previous.%d", path, index)
}

func (c *controller) transitionToState(name string) {
	ref := ParseStateRef(name)
	if c.findState(ref) == nil {
		c.logf("cannot transition to unknown state %q", name)
		return
	}

	t := c.findTransition(c.activeStateRef, ref)
	if t == nil {
		c.evaluator.RemoveClips()
		t = NewTransition(TransitionConfig{To: ref})
	}
	c.updateStateFromTransition(t)
}

func (c *controller) AssignAnimation(path string, track *evaluator.Track, options ...AssignOption) {
	opts := assignOptions{}
	for _, option := range options {
		option(&opts)
	}

	segments := strings.Split(path, ".")
	state := c.findState(ParseStateRef(segments[0]))
	if state == nil {
		state = c.addState(StateConfig{Name: segments[0], Speed: 1, Loop: true})
	}

	if !state.AddAnimation(segments, track) {
		c.logf("cannot assign animation: no node at path %q", path)
		return
	}
	c.evaluator.UpdateClipTrack(path, track)

	if opts.speed != nil {
		state.SetSpeed(*opts.speed)
	}
	if opts.loop != nil {
		state.SetLoop(*opts.loop)
	}
	c.activeStateDurationDirty = true

	if !c.playing && c.activate && c.Playable() {
		c.Play("")
	}
}

func (c *controller) RemoveNodeAnimations(name string) bool {
	ref := ParseStateRef(name)
	if ref.IsControl() {
		c.logf("cannot remove animations of pseudostate %q", name)
		return false
	}
	state := c.findState(ref)
	if state == nil {
		c.logf("cannot remove animations of unknown state %q", name)
		return false
	}
	state.clearAnimations()
	c.activeStateDurationDirty = true
	return true
}

func (c *controller) Play(stateName string) {
	if stateName != "" {
		c.transitionToState(stateName)
	}
	c.playing = true
}

func (c *controller) Pause() {
	c.playing = false
}

func (c *controller) Reset() {
	c.previousStateRef = StateRef{}
	c.activeStateRef = StateStart
	c.playing = false
	c.currTransitionTime = 1
	c.totalTransitionTime = 1
	c.isTransitioning = false
	c.timeInState = 0
	c.timeInStateBefore = 0
	c.transitionPreviousStates = c.transitionPreviousStates[:0]
	c.activeStateDurationDirty = true
	c.evaluator.RemoveClips()
}

func (c *controller) Rebind() {
	c.evaluator.Rebind()
}

func (c *controller) Update(deltaTime float32) {
	if !c.playing {
		return
	}

	state := c.ActiveState()
	if state.Loop() || c.timeInState < c.ActiveStateDuration() {
		c.timeInStateBefore = c.timeInState
		c.timeInState += deltaTime * state.Speed()
		if !state.Loop() && c.timeInState > c.ActiveStateDuration() {
			c.timeInState = c.ActiveStateDuration()
			deltaTime = c.ActiveStateDuration() - c.timeInStateBefore
		}
	}

	if t := c.findTransition(StateRef{}, StateRef{}); t != nil {
		c.updateStateFromTransition(t)
	}

	if c.isTransitioning {
		c.currTransitionTime += deltaTime
		if c.currTransitionTime <= c.totalTransitionTime {
			interpolatedTime := float32(1)
			if c.totalTransitionTime != 0 {
				interpolatedTime = c.currTransitionTime / c.totalTransitionTime
			}

			for i, prev := range c.transitionPreviousStates {
				state := c.findState(prev.ref)
				if state == nil {
					continue
				}
				stateWeight := prev.weight
				for _, anim := range state.Animations() {
					if clip := c.evaluator.FindClip(previousClipName(anim.Path(), i)); clip != nil {
						clip.SetBlendWeight((1 - interpolatedTime) * anim.NormalizedWeight() * stateWeight)
					}
				}
			}

			for _, anim := range c.ActiveStateAnimations() {
				if clip := c.evaluator.FindClip(anim.Path()); clip != nil {
					clip.SetBlendWeight(interpolatedTime * anim.NormalizedWeight())
				}
			}
		} else {
			c.finishTransition()
		}
	} else if tree := c.ActiveState().BlendTree(); tree != nil {
		for _, anim := range c.ActiveStateAnimations() {
			clip := c.evaluator.FindClip(anim.Path())
			if clip == nil {
				continue
			}
			clip.SetBlendWeight(anim.NormalizedWeight())
			if anim.parent != nil && anim.parent.syncAnimations {
				clip.SetSpeed(anim.Speed())
			}
		}
	}

	c.evaluator.Update(deltaTime)
}

// finishTransition ends the cross-fade: previous-state clips are dropped and the active
// state's clips take their full weight.
func (c *controller) finishTransition() {
	c.isTransitioning = false
	c.removeInactiveClips()
	c.transitionPreviousStates = c.transitionPreviousStates[:0]

	for _, anim := range c.ActiveStateAnimations() {
		if clip := c.evaluator.FindClip(anim.Path()); clip != nil {
			clip.SetBlendWeight(anim.NormalizedWeight())
		}
	}
}

// removeInactiveClips drops every clip not playing a leaf of the active state.
func (c *controller) removeInactiveClips() {
	keep := make(map[string]struct{}, len(c.ActiveStateAnimations()))
	for _, anim := range c.ActiveStateAnimations() {
		keep[anim.Path()] = struct{}{}
	}
	clips := c.evaluator.Clips()
	for i := len(clips) - 1; i >= 0; i-- {
		if _, ok := keep[clips[i].Name()]; !ok {
			c.evaluator.RemoveClip(i)
		}
	}
}

func (c *controller) logf(format string, args ...any) {
	if c.debug {
		log.Printf("[AnimController] "+format, args...)
	}
}
