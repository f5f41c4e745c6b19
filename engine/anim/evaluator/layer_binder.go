package evaluator

import "github.com/go-gl/mathgl/mgl32"

type layerBinder struct {
	parent  Binder
	weight  func() float32
	targets map[string]*Target
}

var _ Binder = &layerBinder{}

// NewLayerBinder creates a Binder that resolves through parent and mixes every value it
// writes with the property's current value by weight. Evaluators of stacked layers share one
// parent binder and update in layer order, so each layer blends over the layers below it.
// A weight of 1 or more overwrites, 0 or less leaves the property untouched, and targets
// without a getter are always overwritten.
//
// Parameters:
//   - parent: the binder owning the property targets
//   - weight: returns the layer weight, read on every write
//
// Returns:
//   - Binder: the layer binder
func NewLayerBinder(parent Binder, weight func() float32) Binder {
	return &layerBinder{
		parent:  parent,
		weight:  weight,
		targets: make(map[string]*Target),
	}
}

func (b *layerBinder) Resolve(path string) *Target {
	if t, ok := b.targets[path]; ok {
		return t
	}
	parent := b.parent.Resolve(path)
	if parent == nil {
		return nil
	}

	current := make([]float32, parent.components)
	t := NewTarget(func(value []float32) {
		w := b.weight()
		switch {
		case w <= 0:
			return
		case w >= 1 || parent.getter == nil:
			parent.setter(value)
			return
		}
		parent.getter(current)
		mix(current, value, w, parent.targetType)
		parent.setter(current)
	}, parent.targetType, parent.components)
	t.getter = parent.getter

	b.targets[path] = t
	return t
}

func (b *layerBinder) Unresolve(path string) {
	if _, ok := b.targets[path]; !ok {
		return
	}
	delete(b.targets, path)
	b.parent.Unresolve(path)
}

func (b *layerBinder) Update(deltaTime float32) {
	b.parent.Update(deltaTime)
}

// mix moves dst toward value by w in place. Quaternions take the shortest arc and are
// renormalized.
func mix(dst, value []float32, w float32, targetType TargetType) {
	n := len(dst)
	if len(value) < n {
		n = len(value)
	}
	if targetType == TargetQuaternion && n == 4 {
		from := mgl32.Quat{W: dst[3], V: mgl32.Vec3{dst[0], dst[1], dst[2]}}
		to := mgl32.Quat{W: value[3], V: mgl32.Vec3{value[0], value[1], value[2]}}
		if from.Dot(to) < 0 {
			to = to.Scale(-1)
		}
		q := mgl32.QuatNlerp(from, to, w)
		dst[0], dst[1], dst[2], dst[3] = q.V[0], q.V[1], q.V[2], q.W
		return
	}
	for i := 0; i < n; i++ {
		dst[i] += (value[i] - dst[i]) * w
	}
}
