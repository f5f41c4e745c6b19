package game_object

import (
	"sync/atomic"
)

type gameObject struct {
	id       uint64
	name     string
	enabled  atomic.Bool
	parent   GameObject
	children []GameObject

	position [3]float32
	rotation [4]float32
	scale    [3]float32
	weights  []float32

	dirty bool
}

// GameObject defines the interface for a node in an animated hierarchy. The animation
// binder resolves curve paths by node name and writes local transforms and morph weights
// through the setters below.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the node name used to resolve animation paths.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// Enabled returns whether this object is updated by the scene.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Parent returns the parent node, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns the direct children in insertion order.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// AddChild appends child and sets its parent to this object.
	//
	// Parameters:
	//   - child: the node to attach
	AddChild(child GameObject)

	// Find returns the first node named name in a depth-first walk starting at this object.
	//
	// Parameters:
	//   - name: the node name to search for
	//
	// Returns:
	//   - GameObject: the matching node, or nil
	Find(name string) GameObject

	// LocalPosition returns the translation relative to the parent.
	LocalPosition() [3]float32

	// LocalRotation returns the rotation relative to the parent as a quaternion (x, y, z, w).
	LocalRotation() [4]float32

	// LocalScale returns the scale relative to the parent.
	LocalScale() [3]float32

	// Weights returns the morph target weights.
	Weights() []float32

	// Dirty reports whether a transform or weight changed since the last ClearDirty.
	//
	// Returns:
	//   - bool: true if the node was written to
	Dirty() bool

	// MarkDirty flags the node as changed.
	MarkDirty()

	// ClearDirty resets the dirty flag.
	ClearDirty()

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the scene updates this object.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetLocalPosition sets the translation relative to the parent.
	//
	// Parameters:
	//   - position: the x, y, z translation
	SetLocalPosition(position [3]float32)

	// SetLocalRotation sets the rotation relative to the parent.
	//
	// Parameters:
	//   - rotation: a unit quaternion (x, y, z, w)
	SetLocalRotation(rotation [4]float32)

	// SetLocalScale sets the scale relative to the parent.
	//
	// Parameters:
	//   - scale: the x, y, z scale factors
	SetLocalScale(scale [3]float32)

	// SetWeights copies the morph target weights. The weight count is fixed by the first
	// assignment or WithWeights.
	//
	// Parameters:
	//   - weights: the new weights
	SetWeights(weights []float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Defaults to an enabled node with identity transform.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		rotation: [4]float32{0, 0, 0, 1},
		scale:    [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Parent() GameObject {
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	return g.children
}

func (g *gameObject) AddChild(child GameObject) {
	if c, ok := child.(*gameObject); ok {
		c.parent = g
	}
	g.children = append(g.children, child)
}

func (g *gameObject) Find(name string) GameObject {
	if g.name == name {
		return g
	}
	for _, child := range g.children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (g *gameObject) LocalPosition() [3]float32 {
	return g.position
}

func (g *gameObject) LocalRotation() [4]float32 {
	return g.rotation
}

func (g *gameObject) LocalScale() [3]float32 {
	return g.scale
}

func (g *gameObject) Weights() []float32 {
	return g.weights
}

func (g *gameObject) Dirty() bool {
	return g.dirty
}

func (g *gameObject) MarkDirty() {
	g.dirty = true
}

func (g *gameObject) ClearDirty() {
	g.dirty = false
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetLocalPosition(position [3]float32) {
	g.position = position
	g.dirty = true
}

func (g *gameObject) SetLocalRotation(rotation [4]float32) {
	g.rotation = rotation
	g.dirty = true
}

func (g *gameObject) SetLocalScale(scale [3]float32) {
	g.scale = scale
	g.dirty = true
}

func (g *gameObject) SetWeights(weights []float32) {
	if g.weights == nil {
		g.weights = make([]float32, len(weights))
	}
	copy(g.weights, weights)
	g.dirty = true
}
