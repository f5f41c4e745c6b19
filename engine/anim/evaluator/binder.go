package evaluator

import (
	"log"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// TargetType selects how blended values are combined for a Target.
type TargetType int

const (
	// TargetVector blends component-wise.
	TargetVector TargetType = iota
	// TargetQuaternion blends along the shortest arc and renormalizes.
	TargetQuaternion
)

// Target is a resolved property sink. The setter receives the final blended value once per
// Evaluator update.
type Target struct {
	setter     func(value []float32)
	getter     func(value []float32)
	targetType TargetType
	components int
}

// NewTarget creates a Target.
//
// Parameters:
//   - setter: receives the blended value, which must not be retained
//   - targetType: vector or quaternion blending
//   - components: the number of floats in a value
//
// Returns:
//   - *Target: the new target
func NewTarget(setter func(value []float32), targetType TargetType, components int) *Target {
	return &Target{
		setter:     setter,
		targetType: targetType,
		components: components,
	}
}

// WithGetter attaches a reader that copies the property's current value into value. Layer
// blending needs it to mix with what lower layers wrote.
//
// Parameters:
//   - getter: fills value with the current property value
//
// Returns:
//   - *Target: t
func (t *Target) WithGetter(getter func(value []float32)) *Target {
	t.getter = getter
	return t
}

func (t *Target) Type() TargetType {
	return t.targetType
}

func (t *Target) Components() int {
	return t.components
}

// Binder resolves curve paths to property targets.
type Binder interface {
	// Resolve returns the target for path, or nil when the path cannot be bound.
	//
	// Parameters:
	//   - path: the curve path
	//
	// Returns:
	//   - *Target: the bound target or nil
	Resolve(path string) *Target

	// Unresolve releases a path previously returned by Resolve.
	//
	// Parameters:
	//   - path: the curve path
	Unresolve(path string)

	// Update runs once per Evaluator update after all targets were written.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)
}

// Binder path properties understood by the default binder.
const (
	PropertyLocalPosition = "localPosition"
	PropertyLocalRotation = "localRotation"
	PropertyLocalScale    = "localScale"
	PropertyWeights       = "weights"
)

// JoinPath builds a `node/property` path, escaping separators in the node name.
func JoinPath(node, property string) string {
	node = strings.ReplaceAll(node, `\`, `\\`)
	node = strings.ReplaceAll(node, "/", `\/`)
	return node + "/" + property
}

// SplitPath splits a `node/property` path produced by JoinPath.
//
// Returns:
//   - node: the unescaped node name
//   - property: the property name
//   - ok: false when the path has no unescaped separator
func SplitPath(path string) (node, property string, ok bool) {
	var b strings.Builder
	escaped := false
	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch {
		case escaped:
			b.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '/':
			return b.String(), path[i+1:], true
		default:
			b.WriteByte(ch)
		}
	}
	return "", "", false
}

type defaultBinder struct {
	nodes       map[string]game_object.GameObject
	activeNodes map[game_object.GameObject]int
	targets     map[string]*Target
	refs        map[string]int
	debug       bool
}

var _ Binder = &defaultBinder{}

// NewDefaultBinder creates a Binder over a game_object hierarchy. Nodes are indexed by name;
// when names repeat, the first node in depth-first order wins.
//
// Parameters:
//   - root: the hierarchy root
//   - debug: true to log unresolvable paths
//
// Returns:
//   - Binder: the binder
func NewDefaultBinder(root game_object.GameObject, debug bool) Binder {
	b := &defaultBinder{
		nodes:       make(map[string]game_object.GameObject),
		activeNodes: make(map[game_object.GameObject]int),
		targets:     make(map[string]*Target),
		refs:        make(map[string]int),
		debug:       debug,
	}
	b.flatten(root)
	return b
}

func (b *defaultBinder) flatten(node game_object.GameObject) {
	if node == nil {
		return
	}
	if _, exists := b.nodes[node.Name()]; !exists {
		b.nodes[node.Name()] = node
	}
	for _, child := range node.Children() {
		b.flatten(child)
	}
}

// Resolve returns the shared target for path. Each Resolve must be paired with an Unresolve;
// the target is released after the last one.
func (b *defaultBinder) Resolve(path string) *Target {
	if t, ok := b.targets[path]; ok {
		b.refs[path]++
		return t
	}

	nodeName, property, ok := SplitPath(path)
	if !ok {
		b.warn(path, "malformed path")
		return nil
	}
	node, ok := b.nodes[nodeName]
	if !ok {
		b.warn(path, "node not found")
		return nil
	}

	var target *Target
	switch property {
	case PropertyLocalPosition:
		target = NewTarget(func(v []float32) {
			node.SetLocalPosition([3]float32{v[0], v[1], v[2]})
		}, TargetVector, 3).WithGetter(func(v []float32) {
			p := node.LocalPosition()
			copy(v, p[:])
		})
	case PropertyLocalRotation:
		target = NewTarget(func(v []float32) {
			node.SetLocalRotation([4]float32{v[0], v[1], v[2], v[3]})
		}, TargetQuaternion, 4).WithGetter(func(v []float32) {
			r := node.LocalRotation()
			copy(v, r[:])
		})
	case PropertyLocalScale:
		target = NewTarget(func(v []float32) {
			node.SetLocalScale([3]float32{v[0], v[1], v[2]})
		}, TargetVector, 3).WithGetter(func(v []float32) {
			sc := node.LocalScale()
			copy(v, sc[:])
		})
	case PropertyWeights:
		count := len(node.Weights())
		if count == 0 {
			b.warn(path, "node has no morph weights")
			return nil
		}
		target = NewTarget(node.SetWeights, TargetVector, count).WithGetter(func(v []float32) {
			copy(v, node.Weights())
		})
	default:
		b.warn(path, "unknown property")
		return nil
	}

	b.targets[path] = target
	b.refs[path] = 1
	b.activeNodes[node]++
	return target
}

func (b *defaultBinder) Unresolve(path string) {
	if _, ok := b.targets[path]; !ok {
		return
	}
	b.refs[path]--
	if b.refs[path] > 0 {
		return
	}
	delete(b.targets, path)
	delete(b.refs, path)

	nodeName, _, _ := SplitPath(path)
	node, ok := b.nodes[nodeName]
	if !ok {
		return
	}
	b.activeNodes[node]--
	if b.activeNodes[node] <= 0 {
		delete(b.activeNodes, node)
	}
}

// Update marks every node driven by at least one curve as dirty.
func (b *defaultBinder) Update(deltaTime float32) {
	for node := range b.activeNodes {
		node.MarkDirty()
	}
}

func (b *defaultBinder) warn(path, reason string) {
	if b.debug {
		log.Printf("[Binder] cannot resolve %q: %s", path, reason)
	}
}
