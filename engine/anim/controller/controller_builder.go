package controller

import "github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithActivate sets whether the controller starts playing as soon as every state has its
// animations assigned. Defaults to true.
//
// Parameters:
//   - activate: true to auto-play once playable
//
// Returns:
//   - ControllerBuilderOption: functional option to set auto-activation
func WithActivate(activate bool) ControllerBuilderOption {
	return func(c *controller) {
		c.activate = activate
	}
}

// WithDebug enables diagnostic logging of graph configuration problems.
//
// Parameters:
//   - debug: true to log diagnostics
//
// Returns:
//   - ControllerBuilderOption: functional option to set debug logging
func WithDebug(debug bool) ControllerBuilderOption {
	return func(c *controller) {
		c.debug = debug
	}
}

// WithEventHandler sets the handler attached to every clip the controller creates.
//
// Parameters:
//   - handler: receives timeline events
//
// Returns:
//   - ControllerBuilderOption: functional option to set the event handler
func WithEventHandler(handler evaluator.EventHandler) ControllerBuilderOption {
	return func(c *controller) {
		c.eventHandler = handler
	}
}

type assignOptions struct {
	speed *float32
	loop  *bool
}

// AssignOption overrides state settings during Controller.AssignAnimation.
type AssignOption func(*assignOptions)

// WithStateSpeed overrides the speed of the state receiving the animation.
func WithStateSpeed(speed float32) AssignOption {
	return func(o *assignOptions) {
		o.speed = &speed
	}
}

// WithStateLoop overrides the loop flag of the state receiving the animation.
func WithStateLoop(loop bool) AssignOption {
	return func(o *assignOptions) {
		o.loop = &loop
	}
}
