package controller

import (
	"fmt"
	"sort"
)

// Parameter is a typed controller input. Booleans and triggers store 1 for true and 0 for false.
type Parameter struct {
	Type  ParameterType
	Value float32
}

// Bool reports whether the value is non-zero.
func (p Parameter) Bool() bool {
	return p.Value != 0
}

// Parameters is the parameter source a Controller reads during condition checks and blend
// weight computation.
type Parameters interface {
	// FindParameter returns the named parameter, or nil when it does not exist.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - *Parameter: the parameter or nil
	FindParameter(name string) *Parameter

	// ConsumeTrigger resets a trigger parameter to false after a transition used it.
	//
	// Parameters:
	//   - name: the trigger name
	ConsumeTrigger(name string)

	// Env returns the parameter values keyed by name for expression conditions. Numbers are
	// float64 and booleans/triggers are bool. The map must not be modified.
	//
	// Returns:
	//   - map[string]any: the expression environment
	Env() map[string]any
}

// ParameterSet is the default Parameters implementation. It is not safe for concurrent use;
// set values between controller updates.
type ParameterSet struct {
	params   map[string]*Parameter
	defaults map[string]Parameter
	env      map[string]any
}

var _ Parameters = &ParameterSet{}

// NewParameterSet creates a parameter set whose current values start at the given defaults.
//
// Parameters:
//   - defaults: the declared parameters
//
// Returns:
//   - *ParameterSet: the new set
func NewParameterSet(defaults map[string]Parameter) *ParameterSet {
	s := &ParameterSet{
		params:   make(map[string]*Parameter, len(defaults)),
		defaults: make(map[string]Parameter, len(defaults)),
		env:      make(map[string]any, len(defaults)),
	}
	for name, p := range defaults {
		s.defaults[name] = p
		cp := p
		s.params[name] = &cp
		s.env[name] = envValue(cp)
	}
	return s
}

func envValue(p Parameter) any {
	switch p.Type {
	case ParameterBoolean, ParameterTrigger:
		return p.Bool()
	default:
		return float64(p.Value)
	}
}

// FindParameter returns a live pointer into the set. Callers must not write through it;
// use the Set methods instead.
func (s *ParameterSet) FindParameter(name string) *Parameter {
	return s.params[name]
}

func (s *ParameterSet) ConsumeTrigger(name string) {
	if p, ok := s.params[name]; ok && p.Type == ParameterTrigger {
		p.Value = 0
		s.env[name] = false
	}
}

func (s *ParameterSet) Env() map[string]any {
	return s.env
}

// Names returns the parameter names in sorted order.
func (s *ParameterSet) Names() []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named parameter.
//
// Returns:
//   - Parameter: the parameter value
//   - bool: false when the parameter does not exist
func (s *ParameterSet) Get(name string) (Parameter, bool) {
	p, ok := s.params[name]
	if !ok {
		return Parameter{}, false
	}
	return *p, true
}

func (s *ParameterSet) SetFloat(name string, value float32) error {
	return s.set(name, ParameterFloat, value)
}

// SetInteger stores value as a float; integers beyond 2^24 lose precision.
func (s *ParameterSet) SetInteger(name string, value int) error {
	return s.set(name, ParameterInteger, float32(value))
}

func (s *ParameterSet) SetBoolean(name string, value bool) error {
	return s.set(name, ParameterBoolean, boolValue(value))
}

// SetTrigger raises the trigger. It stays raised until a transition consumes it.
func (s *ParameterSet) SetTrigger(name string) error {
	return s.set(name, ParameterTrigger, 1)
}

// ResetTrigger lowers the trigger without firing a transition.
func (s *ParameterSet) ResetTrigger(name string) error {
	return s.set(name, ParameterTrigger, 0)
}

// Reset restores every parameter to its declared default.
func (s *ParameterSet) Reset() {
	for name, d := range s.defaults {
		*s.params[name] = d
		s.env[name] = envValue(d)
	}
}

func (s *ParameterSet) set(name string, typ ParameterType, value float32) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("parameter %q not found", name)
	}
	if p.Type != typ {
		return fmt.Errorf("parameter %q is %s, not %s", name, p.Type, typ)
	}
	p.Value = value
	s.env[name] = envValue(*p)
	return nil
}

func boolValue(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
