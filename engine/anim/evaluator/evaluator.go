package evaluator

import (
	"log"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type evaluatorTarget struct {
	target      *Target
	value       []float32
	totalWeight float32
	curves      int
}

// accumulate adds value with weight to the running blend. A weight of 1 or more replaces
// everything accumulated so far this frame.
func (t *evaluatorTarget) accumulate(value []float32, weight float32) {
	n := len(t.value)
	if len(value) < n {
		n = len(value)
	}
	if weight >= 1 || t.totalWeight == 0 {
		for i := 0; i < n; i++ {
			t.value[i] = value[i] * weight
		}
		t.totalWeight = weight
		return
	}

	if t.target.targetType == TargetQuaternion && n == 4 {
		acc := mgl32.Vec4{t.value[0], t.value[1], t.value[2], t.value[3]}
		v := mgl32.Vec4{value[0], value[1], value[2], value[3]}
		if acc.Dot(v) < 0 {
			weight = -weight
		}
	}
	for i := 0; i < n; i++ {
		t.value[i] += value[i] * weight
	}
	if weight < 0 {
		weight = -weight
	}
	t.totalWeight += weight
}

// apply hands the blended value to the target setter and resets the accumulator.
func (t *evaluatorTarget) apply() {
	if t.totalWeight <= 0 {
		return
	}
	if t.target.targetType == TargetQuaternion && len(t.value) == 4 {
		q := mgl32.Vec4{t.value[0], t.value[1], t.value[2], t.value[3]}
		if l := q.Len(); l > 0 {
			q = q.Mul(1 / l)
		}
		t.value[0], t.value[1], t.value[2], t.value[3] = q[0], q[1], q[2], q[3]
	} else {
		inv := 1 / t.totalWeight
		for i := range t.value {
			t.value[i] *= inv
		}
	}
	t.target.setter(t.value)
	t.totalWeight = 0
}

type clipBinding struct {
	clip    *Clip
	targets [][]*evaluatorTarget
}

type evaluator struct {
	binder  Binder
	clips   []*clipBinding
	targets map[string]*evaluatorTarget
	order   []int
	debug   bool
}

// Evaluator advances a set of clips and blends their sampled values into bound targets.
type Evaluator interface {
	// Binder returns the binder used to resolve curve paths, or nil.
	//
	// Returns:
	//   - Binder: the binder
	Binder() Binder

	// Clips returns the live clips in insertion order.
	//
	// Returns:
	//   - []*Clip: the clips
	Clips() []*Clip

	// AddClip appends clip and binds its curve paths.
	//
	// Parameters:
	//   - clip: the clip to add
	AddClip(clip *Clip)

	// RemoveClip removes the clip at index and releases targets no longer driven by any curve.
	//
	// Parameters:
	//   - index: the clip index in Clips order
	RemoveClip(index int)

	// RemoveClips removes every clip.
	RemoveClips()

	// FindClip returns the clip named name, or nil.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - *Clip: the matching clip or nil
	FindClip(name string) *Clip

	// UpdateClipTrack swaps the track of the clip named name and of its renamed
	// "<name>.previous.<i>" copies, rebinding their curves.
	//
	// Parameters:
	//   - name: the clip name
	//   - track: the replacement track
	UpdateClipTrack(name string, track *Track)

	// Rebind releases and re-resolves every bound path. Call after the bound hierarchy changes.
	Rebind()

	// Update advances every clip with a positive blend weight in ascending blend order,
	// blends their results per target and writes the targets.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)
}

var _ Evaluator = &evaluator{}

// NewEvaluator creates an Evaluator.
//
// Parameters:
//   - binder: resolves curve paths; nil leaves clips unbound so callers read snapshots directly
//   - debug: true to log binding diagnostics
//
// Returns:
//   - Evaluator: the evaluator
func NewEvaluator(binder Binder, debug bool) Evaluator {
	return &evaluator{
		binder:  binder,
		targets: make(map[string]*evaluatorTarget),
		debug:   debug,
	}
}

func (e *evaluator) Binder() Binder {
	return e.binder
}

func (e *evaluator) Clips() []*Clip {
	clips := make([]*Clip, len(e.clips))
	for i, cb := range e.clips {
		clips[i] = cb.clip
	}
	return clips
}

func (e *evaluator) AddClip(clip *Clip) {
	cb := &clipBinding{clip: clip}
	e.bind(cb)
	e.clips = append(e.clips, cb)
}

func (e *evaluator) RemoveClip(index int) {
	if index < 0 || index >= len(e.clips) {
		return
	}
	e.unbind(e.clips[index])
	e.clips = append(e.clips[:index], e.clips[index+1:]...)
}

func (e *evaluator) RemoveClips() {
	for len(e.clips) > 0 {
		e.RemoveClip(len(e.clips) - 1)
	}
}

func (e *evaluator) FindClip(name string) *Clip {
	for _, cb := range e.clips {
		if cb.clip.name == name {
			return cb.clip
		}
	}
	return nil
}

func (e *evaluator) UpdateClipTrack(name string, track *Track) {
	prefix := name + ".previous."
	for _, cb := range e.clips {
		if cb.clip.name != name && !strings.HasPrefix(cb.clip.name, prefix) {
			continue
		}
		e.unbind(cb)
		cb.clip.SetTrack(track)
		e.bind(cb)
	}
}

func (e *evaluator) Rebind() {
	for _, cb := range e.clips {
		e.unbind(cb)
	}
	for _, cb := range e.clips {
		e.bind(cb)
	}
}

func (e *evaluator) bind(cb *clipBinding) {
	curves := cb.clip.track.curves
	cb.targets = make([][]*evaluatorTarget, len(curves))
	if e.binder == nil {
		return
	}

	for i, curve := range curves {
		for _, path := range curve.paths {
			t, ok := e.targets[path]
			if !ok {
				target := e.binder.Resolve(path)
				if target == nil {
					if e.debug {
						log.Printf("[Evaluator] clip %q: unresolved path %q", cb.clip.name, path)
					}
					continue
				}
				t = &evaluatorTarget{
					target: target,
					value:  make([]float32, target.components),
				}
				e.targets[path] = t
			}
			t.curves++
			cb.targets[i] = append(cb.targets[i], t)
		}
	}
}

func (e *evaluator) unbind(cb *clipBinding) {
	if e.binder == nil {
		return
	}
	for _, curve := range cb.clip.track.curves {
		for _, path := range curve.paths {
			t, ok := e.targets[path]
			if !ok {
				continue
			}
			t.curves--
			if t.curves <= 0 {
				delete(e.targets, path)
				e.binder.Unresolve(path)
			}
		}
	}
	cb.targets = nil
}

func (e *evaluator) Update(deltaTime float32) {
	e.order = e.order[:0]
	for i := range e.clips {
		e.order = append(e.order, i)
	}
	sort.SliceStable(e.order, func(a, b int) bool {
		return e.clips[e.order[a]].clip.blendOrder < e.clips[e.order[b]].clip.blendOrder
	})

	for _, idx := range e.order {
		cb := e.clips[idx]
		clip := cb.clip
		weight := clip.blendWeight
		if weight <= 0 {
			continue
		}
		clip.Update(deltaTime)

		results := clip.snapshot.results
		for i, targets := range cb.targets {
			for _, t := range targets {
				t.accumulate(results[i], weight)
			}
		}
	}

	for _, t := range e.targets {
		t.apply()
	}

	if e.binder != nil {
		e.binder.Update(deltaTime)
	}
}
