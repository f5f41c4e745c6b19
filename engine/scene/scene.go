package scene

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/google/uuid"
)

// Scene manages a collection of animated entities keyed by ID. Each Update advances every
// entity's controller or evaluator in parallel and returns once all of them are done.
// Scenes can be hot-swapped via the Active flag to switch between different levels.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently updated by the engine.
	Active() bool

	// SetActive sets whether this scene is updated by the engine.
	SetActive(active bool)

	// Count returns the number of entities in the scene.
	Count() int

	// ClipCount returns the number of live clips across every entity.
	ClipCount() int

	// Add registers an entity and returns its ID. Adding an entity twice is a no-op.
	//
	// Parameters:
	//   - e: the entity to add
	//
	// Returns:
	//   - uuid.UUID: the entity's ID
	Add(e *Entity) uuid.UUID

	// Get returns the entity with the given ID, or nil.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - *Entity: the entity or nil
	Get(id uuid.UUID) *Entity

	// Remove drops the entity with the given ID.
	//
	// Parameters:
	//   - id: the entity ID
	Remove(id uuid.UUID)

	// Entities returns the entities in insertion order.
	Entities() []*Entity

	// Clear removes every entity.
	Clear()

	// Update advances every entity by deltaTime. Entities are updated concurrently on the
	// scene's worker pool; Update blocks until the whole frame is done. A panic in any
	// entity update is logged and raised again on the calling goroutine once the frame is done.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uuid.UUID]*Entity
	order    []uuid.UUID

	// updatePool keeps a bounded set of goroutines alive across frames so per-frame
	// fan-out does not spawn goroutines.
	updatePool worker.DynamicWorkerPool
	workers    int
	queueSize  int
	debug      bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates an empty, inactive scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:        &sync.RWMutex{},
		name:      name,
		registry:  make(map[uuid.UUID]*Entity),
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 256,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithWorkers and WithQueueSize can override the defaults.
	s.updatePool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, 1*time.Second)

	if s.debug {
		log.Printf("[Scene] %q created with %d workers", s.name, s.workers)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) ClipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.registry {
		count += e.ClipCount()
	}
	return count
}

func (s *scene) Add(e *Entity) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(e)
	return e.ID()
}

// add registers e. Caller must hold s.mu write lock.
func (s *scene) add(e *Entity) {
	if _, exists := s.registry[e.ID()]; exists {
		return
	}
	s.registry[e.ID()] = e
	s.order = append(s.order, e.ID())
	if s.debug {
		log.Printf("[Scene] %q added entity %q (%s)", s.name, e.Name(), e.ID())
	}
}

func (s *scene) Get(id uuid.UUID) *Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registry[id]; !exists {
		return
	}
	delete(s.registry, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Entities() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.registry[id])
	}
	return out
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uuid.UUID]*Entity)
	s.order = nil
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// A WaitGroup provides the per-frame barrier; the pool's own Wait blocks until workers
	// idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	var once sync.Once
	var failure any
	for i, id := range s.order {
		e := s.registry[id]
		wg.Add(1)
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				// a panic left on a pool goroutine would take the process down
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[Scene] %q entity %q panicked: %v", s.name, e.Name(), r)
						once.Do(func() { failure = r })
					}
				}()
				e.update(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if failure != nil {
		panic(fmt.Sprintf("scene %q: entity update panicked: %v", s.name, failure))
	}
}
