package scene

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
	"github.com/google/uuid"
)

// EntityBuilderOption is a functional option for configuring an Entity via NewEntity.
type EntityBuilderOption func(*Entity)

// WithEntityID overrides the generated ID.
//
// Parameters:
//   - id: the entity ID
//
// Returns:
//   - EntityBuilderOption: option function to apply
func WithEntityID(id uuid.UUID) EntityBuilderOption {
	return func(e *Entity) {
		e.id = id
	}
}

// WithEntityName sets the entity name. Defaults to the root's name.
func WithEntityName(name string) EntityBuilderOption {
	return func(e *Entity) {
		e.name = name
	}
}

// WithEvaluator replaces the default evaluator, e.g. to use a custom Binder.
//
// Parameters:
//   - eval: the evaluator driving this entity
//
// Returns:
//   - EntityBuilderOption: option function to apply
func WithEvaluator(eval evaluator.Evaluator) EntityBuilderOption {
	return func(e *Entity) {
		e.evaluator = eval
	}
}

// WithEntityDebug logs unresolved paths from the default binder.
func WithEntityDebug(debug bool) EntityBuilderOption {
	return func(e *Entity) {
		e.debug = debug
	}
}
