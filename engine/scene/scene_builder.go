package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is updated by the engine.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithEntities adds initial entities to the scene.
//
// Parameters:
//   - entities: the entities to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntities(entities ...*Entity) SceneBuilderOption {
	return func(s *scene) {
		for _, e := range entities {
			s.add(e)
		}
	}
}

// WithWorkers sets the number of worker goroutines used by Update. Defaults to
// runtime.NumCPU()-1. Lower values reduce scheduling overhead for small scenes.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithQueueSize sets the task queue capacity of the update pool. Defaults to 256.
//
// Parameters:
//   - n: the queue capacity (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithQueueSize(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.queueSize = n
	}
}

// WithDebug logs entity registration.
func WithDebug(debug bool) SceneBuilderOption {
	return func(s *scene) {
		s.debug = debug
	}
}
