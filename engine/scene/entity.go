package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/controller"
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Entity is one animated object: a GameObject hierarchy, the evaluator bound to it and an
// optional controller driving that evaluator. Extra layers added by AnimateGraph run after it
// and blend over what it wrote. An entity's hierarchy must not be shared with another entity;
// scenes update entities in parallel.
type Entity struct {
	id         uuid.UUID
	name       string
	root       game_object.GameObject
	evaluator  evaluator.Evaluator
	controller controller.Controller
	layers     []*Layer
	debug      bool
}

// Layer is one weighted state machine of an entity. It owns an evaluator whose writes are
// mixed over the layers before it.
type Layer struct {
	name       string
	weight     float32
	evaluator  evaluator.Evaluator
	controller controller.Controller
}

func (l *Layer) Name() string {
	return l.name
}

func (l *Layer) Controller() controller.Controller {
	return l.controller
}

func (l *Layer) Weight() float32 {
	return l.weight
}

// SetWeight sets the layer weight, clamped to [0, 1]. Call it between scene updates.
func (l *Layer) SetWeight(weight float32) {
	l.weight = mgl32.Clamp(weight, 0, 1)
}

// NewEntity creates an entity with a default binder over root.
//
// Parameters:
//   - root: the hierarchy the entity animates
//   - options: a variadic list of EntityBuilderOption functions
//
// Returns:
//   - *Entity: the new entity with a fresh ID
func NewEntity(root game_object.GameObject, options ...EntityBuilderOption) *Entity {
	e := &Entity{
		id:   uuid.New(),
		root: root,
	}
	if root != nil {
		e.name = root.Name()
	}
	for _, option := range options {
		option(e)
	}
	if e.evaluator == nil {
		e.evaluator = evaluator.NewEvaluator(evaluator.NewDefaultBinder(root, e.debug), e.debug)
	}
	return e
}

func (e *Entity) ID() uuid.UUID {
	return e.id
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) Root() game_object.GameObject {
	return e.root
}

func (e *Entity) Evaluator() evaluator.Evaluator {
	return e.evaluator
}

// Controller returns the attached controller, or nil when clips are driven directly.
func (e *Entity) Controller() controller.Controller {
	return e.controller
}

// SetController attaches c. c must drive this entity's evaluator.
func (e *Entity) SetController(c controller.Controller) {
	e.controller = c
}

// Animate builds a controller for layer on the entity's evaluator, assigns tracks by node
// path and attaches it.
//
// Parameters:
//   - layer: the authored state machine
//   - params: the parameter source shared by the layer's conditions and blend trees
//   - tracks: tracks keyed by node path, e.g. "Move.Walk"
//   - options: controller options
//
// Returns:
//   - controller.Controller: the attached controller
//   - error: error if the layer cannot be converted
func (e *Entity) Animate(layer *graph.Layer, params controller.Parameters, tracks map[string]*evaluator.Track, options ...controller.ControllerBuilderOption) (controller.Controller, error) {
	c, err := layer.NewController(e.evaluator, params, options...)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", e.name, err)
	}
	for path, track := range tracks {
		c.AssignAnimation(path, track)
	}
	e.controller = c
	return c, nil
}

// AnimateGraph builds one controller per graph layer, assigns each its tracks and stacks the
// layers over the entity's evaluator in graph order. Any layers from an earlier call are
// released first.
//
// Parameters:
//   - g: the validated graph
//   - params: the parameter source shared by every layer
//   - tracks: tracks keyed by layer name, then by node path
//   - options: controller options applied to every layer
//
// Returns:
//   - []*Layer: the layers in update order
//   - error: error if a layer cannot be converted; no layers are attached then
func (e *Entity) AnimateGraph(g *graph.Graph, params controller.Parameters, tracks map[string]map[string]*evaluator.Track, options ...controller.ControllerBuilderOption) ([]*Layer, error) {
	e.releaseLayers()

	shared := e.evaluator.Binder()
	layers := make([]*Layer, 0, len(g.Layers))
	for i := range g.Layers {
		def := &g.Layers[i]
		l := &Layer{name: def.Name, weight: def.BlendWeight()}
		var binder evaluator.Binder
		if shared != nil {
			binder = evaluator.NewLayerBinder(shared, func() float32 { return l.weight })
		}
		l.evaluator = evaluator.NewEvaluator(binder, e.debug)

		c, err := def.NewController(l.evaluator, params, options...)
		if err != nil {
			for _, built := range layers {
				built.evaluator.RemoveClips()
			}
			return nil, fmt.Errorf("entity %q: %w", e.name, err)
		}
		for path, track := range tracks[def.Name] {
			c.AssignAnimation(path, track)
		}
		l.controller = c
		layers = append(layers, l)
	}
	e.layers = layers
	return layers, nil
}

// Layers returns the layers added by AnimateGraph in update order.
func (e *Entity) Layers() []*Layer {
	return e.layers
}

// Layer returns the layer named name.
func (e *Entity) Layer(name string) (*Layer, bool) {
	for _, l := range e.layers {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

func (e *Entity) releaseLayers() {
	for _, l := range e.layers {
		l.evaluator.RemoveClips()
	}
	e.layers = nil
}

// Play adds a looping clip for track directly to the evaluator.
//
// Parameters:
//   - track: the track to play
//   - options: clip options
//
// Returns:
//   - *evaluator.Clip: the added clip
func (e *Entity) Play(track *evaluator.Track, options ...evaluator.ClipBuilderOption) *evaluator.Clip {
	clip := evaluator.NewClip(track, options...)
	e.evaluator.AddClip(clip)
	return clip
}

// ClipCount returns the number of clips live in the entity's evaluator and its layers.
func (e *Entity) ClipCount() int {
	n := len(e.evaluator.Clips())
	for _, l := range e.layers {
		n += len(l.evaluator.Clips())
	}
	return n
}

func (e *Entity) update(deltaTime float32) {
	if e.controller != nil {
		e.controller.Update(deltaTime)
	} else {
		e.evaluator.Update(deltaTime)
	}
	for _, l := range e.layers {
		l.controller.Update(deltaTime)
	}
}
