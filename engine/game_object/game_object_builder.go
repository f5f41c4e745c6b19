package game_object

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the node name that animation paths resolve against.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is updated by the scene.
//
// Parameters:
//   - enabled: true to update the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial local position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithScale sets the initial local scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation sets the initial local rotation of the GameObject as a quaternion.
//
// Parameters:
//   - x, y, z, w: the quaternion components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(x, y, z, w float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [4]float32{x, y, z, w}
	}
}

// WithWeights sets the initial morph target weights and fixes the weight count.
//
// Parameters:
//   - weights: the initial weights, copied
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the morph weights
func WithWeights(weights ...float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.weights = append([]float32(nil), weights...)
	}
}

// WithChildren attaches child nodes.
//
// Parameters:
//   - children: the nodes to attach in order
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, child := range children {
			obj.AddChild(child)
		}
	}
}
