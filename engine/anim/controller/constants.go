package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBlendType is returned when a blend type name is not recognized.
	ErrUnknownBlendType = errors.New("unknown blend type")
	// ErrUnknownPredicate is returned when a condition predicate name is not recognized.
	ErrUnknownPredicate = errors.New("unknown predicate")
	// ErrUnknownInterruptionSource is returned when an interruption source name is not recognized.
	ErrUnknownInterruptionSource = errors.New("unknown interruption source")
	// ErrUnknownParameterType is returned when a parameter type name is not recognized.
	ErrUnknownParameterType = errors.New("unknown parameter type")
)

type stateKind uint8

const (
	stateNone stateKind = iota
	stateNamed
	stateStart
	stateEnd
	stateAny
)

// Reserved state names in authored graphs.
const (
	StateNameStart = "START"
	StateNameEnd   = "END"
	StateNameAny   = "ANY"
)

// StateRef identifies a state: one of the START, END and ANY pseudostates or a named state.
// The zero value refers to no state.
type StateRef struct {
	kind stateKind
	name string
}

var (
	StateStart = StateRef{kind: stateStart}
	StateEnd   = StateRef{kind: stateEnd}
	StateAny   = StateRef{kind: stateAny}
)

// Named returns a reference to the authored state name. An empty name yields the zero StateRef.
func Named(name string) StateRef {
	if name == "" {
		return StateRef{}
	}
	return StateRef{kind: stateNamed, name: name}
}

// ParseStateRef resolves an authored state name, mapping the reserved names to pseudostates.
func ParseStateRef(name string) StateRef {
	switch name {
	case StateNameStart:
		return StateStart
	case StateNameEnd:
		return StateEnd
	case StateNameAny:
		return StateAny
	default:
		return Named(name)
	}
}

// IsZero reports whether r refers to no state.
func (r StateRef) IsZero() bool {
	return r.kind == stateNone
}

// IsControl reports whether r is one of the START, END or ANY pseudostates.
func (r StateRef) IsControl() bool {
	return r.kind == stateStart || r.kind == stateEnd || r.kind == stateAny
}

func (r StateRef) String() string {
	switch r.kind {
	case stateStart:
		return StateNameStart
	case stateEnd:
		return StateNameEnd
	case stateAny:
		return StateNameAny
	default:
		return r.name
	}
}

// BlendType selects the weight calculation of a BlendTree.
type BlendType int

const (
	BlendType1D BlendType = iota
	BlendTypeCartesian2D
	BlendTypeDirectional2D
	BlendTypeDirect
)

var blendTypeNames = map[BlendType]string{
	BlendType1D:            "1D",
	BlendTypeCartesian2D:   "2D_CARTESIAN",
	BlendTypeDirectional2D: "2D_DIRECTIONAL",
	BlendTypeDirect:        "DIRECT",
}

func (b BlendType) String() string {
	if s, ok := blendTypeNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BlendType(%d)", int(b))
}

// ParseBlendType maps an authored blend type name to a BlendType.
func ParseBlendType(s string) (BlendType, error) {
	for k, v := range blendTypeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlendType, s)
}

// InterruptionSource selects which states' transitions may interrupt an in-flight transition.
type InterruptionSource int

const (
	InterruptionNone InterruptionSource = iota
	InterruptionPrevState
	InterruptionNextState
	InterruptionPrevStateNextState
	InterruptionNextStatePrevState
)

var interruptionNames = map[InterruptionSource]string{
	InterruptionNone:               "NONE",
	InterruptionPrevState:          "PREV_STATE",
	InterruptionNextState:          "NEXT_STATE",
	InterruptionPrevStateNextState: "PREV_STATE_NEXT_STATE",
	InterruptionNextStatePrevState: "NEXT_STATE_PREV_STATE",
}

func (i InterruptionSource) String() string {
	if s, ok := interruptionNames[i]; ok {
		return s
	}
	return fmt.Sprintf("InterruptionSource(%d)", int(i))
}

// ParseInterruptionSource maps an authored name to an InterruptionSource. The empty string is NONE.
func ParseInterruptionSource(s string) (InterruptionSource, error) {
	if s == "" {
		return InterruptionNone, nil
	}
	for k, v := range interruptionNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterruptionSource, s)
}

// Predicate compares a parameter value with a condition value.
type Predicate int

const (
	PredicateGreaterThan Predicate = iota
	PredicateLessThan
	PredicateGreaterThanEqualTo
	PredicateLessThanEqualTo
	PredicateEqualTo
	PredicateNotEqualTo
)

var predicateNames = map[Predicate]string{
	PredicateGreaterThan:        "GREATER_THAN",
	PredicateLessThan:           "LESS_THAN",
	PredicateGreaterThanEqualTo: "GREATER_THAN_EQUAL_TO",
	PredicateLessThanEqualTo:    "LESS_THAN_EQUAL_TO",
	PredicateEqualTo:            "EQUAL_TO",
	PredicateNotEqualTo:         "NOT_EQUAL_TO",
}

func (p Predicate) String() string {
	if s, ok := predicateNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Predicate(%d)", int(p))
}

// ParsePredicate maps an authored predicate name to a Predicate.
func ParsePredicate(s string) (Predicate, error) {
	for k, v := range predicateNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPredicate, s)
}

// ParameterType is the declared type of a controller parameter.
type ParameterType int

const (
	ParameterInteger ParameterType = iota
	ParameterFloat
	ParameterBoolean
	ParameterTrigger
)

var parameterTypeNames = map[ParameterType]string{
	ParameterInteger: "INTEGER",
	ParameterFloat:   "FLOAT",
	ParameterBoolean: "BOOLEAN",
	ParameterTrigger: "TRIGGER",
}

func (p ParameterType) String() string {
	if s, ok := parameterTypeNames[p]; ok {
		return s
	}
	return fmt.Sprintf("ParameterType(%d)", int(p))
}

// ParseParameterType maps an authored parameter type name to a ParameterType.
func ParseParameterType(s string) (ParameterType, error) {
	for k, v := range parameterTypeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameterType, s)
}
