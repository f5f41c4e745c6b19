package graph

import (
	"encoding/json"
	"fmt"
)

// Graph is an authored animation state graph: one or more layers sharing a parameter set.
type Graph struct {
	Layers     []Layer                 `json:"layers" yaml:"layers"`
	Parameters map[string]ParameterDef `json:"parameters" yaml:"parameters"`
}

// ParameterDef declares a parameter. Type is one of INTEGER, FLOAT, BOOLEAN or TRIGGER.
type ParameterDef struct {
	Type  string      `json:"type" yaml:"type"`
	Value ScalarValue `json:"value" yaml:"value"`
}

// Layer is one state machine of a graph. Layers run in declaration order and each blends
// over the layers before it by Weight, which defaults to 1.
type Layer struct {
	Name        string          `json:"name" yaml:"name"`
	Weight      *float32        `json:"weight,omitempty" yaml:"weight,omitempty"`
	States      []StateDef      `json:"states" yaml:"states"`
	Transitions []TransitionDef `json:"transitions" yaml:"transitions"`
}

// BlendWeight returns the authored layer weight, or 1 when it is not set.
func (l *Layer) BlendWeight() float32 {
	if l.Weight == nil {
		return 1
	}
	return *l.Weight
}

// StateDef declares a state. Speed defaults to 1 and Loop to true.
type StateDef struct {
	Name      string        `json:"name" yaml:"name"`
	Speed     *float32      `json:"speed,omitempty" yaml:"speed,omitempty"`
	Loop      *bool         `json:"loop,omitempty" yaml:"loop,omitempty"`
	BlendTree *BlendTreeDef `json:"blendTree,omitempty" yaml:"blendTree,omitempty"`
}

// BlendTreeDef is a blend tree or, when Children is empty, a leaf inside one.
// 1D trees name their parameter in Parameter; 2D and Direct trees use Parameters.
type BlendTreeDef struct {
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	Type           string         `json:"type,omitempty" yaml:"type,omitempty"`
	Parameter      string         `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Parameters     []string       `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Point          Point          `json:"point,omitempty" yaml:"point,omitempty"`
	Speed          *float32       `json:"speed,omitempty" yaml:"speed,omitempty"`
	SyncAnimations *bool          `json:"syncAnimations,omitempty" yaml:"syncAnimations,omitempty"`
	Children       []BlendTreeDef `json:"children,omitempty" yaml:"children,omitempty"`
}

// TransitionDef declares a transition between two states, START, END or ANY.
type TransitionDef struct {
	From               string         `json:"from" yaml:"from"`
	To                 string         `json:"to" yaml:"to"`
	Time               float32        `json:"time" yaml:"time"`
	Priority           int            `json:"priority" yaml:"priority"`
	Conditions         []ConditionDef `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	ExitTime           *float32       `json:"exitTime,omitempty" yaml:"exitTime,omitempty"`
	TransitionOffset   *float32       `json:"transitionOffset,omitempty" yaml:"transitionOffset,omitempty"`
	InterruptionSource string         `json:"interruptionSource,omitempty" yaml:"interruptionSource,omitempty"`
}

// ConditionDef is either a predicate over one parameter or a boolean expression.
type ConditionDef struct {
	ParameterName string      `json:"parameterName,omitempty" yaml:"parameterName,omitempty"`
	Predicate     string      `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Value         ScalarValue `json:"value" yaml:"value"`
	Expression    string      `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// Layer returns the layer named name.
func (g *Graph) Layer(name string) (*Layer, bool) {
	for i := range g.Layers {
		if g.Layers[i].Name == name {
			return &g.Layers[i], true
		}
	}
	return nil, false
}

// Point is a blend space position. It accepts a bare number for 1D children and an array
// for 2D children.
type Point []float32

func (p *Point) UnmarshalJSON(b []byte) error {
	var scalar float32
	if err := json.Unmarshal(b, &scalar); err == nil {
		*p = Point{scalar}
		return nil
	}
	var values []float32
	if err := json.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("point must be a number or an array of numbers: %w", err)
	}
	*p = values
	return nil
}

func (p *Point) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var scalar float32
	if err := unmarshal(&scalar); err == nil {
		*p = Point{scalar}
		return nil
	}
	var values []float32
	if err := unmarshal(&values); err != nil {
		return fmt.Errorf("point must be a number or a sequence of numbers: %w", err)
	}
	*p = values
	return nil
}

// ScalarValue is a parameter or condition value. Booleans decode to 1 and 0.
type ScalarValue float32

func (v *ScalarValue) UnmarshalJSON(b []byte) error {
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		*v = boolScalar(flag)
		return nil
	}
	var number float32
	if err := json.Unmarshal(b, &number); err != nil {
		return fmt.Errorf("value must be a number or a boolean: %w", err)
	}
	*v = ScalarValue(number)
	return nil
}

func (v *ScalarValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var flag bool
	if err := unmarshal(&flag); err == nil {
		*v = boolScalar(flag)
		return nil
	}
	var number float32
	if err := unmarshal(&number); err != nil {
		return fmt.Errorf("value must be a number or a boolean: %w", err)
	}
	*v = ScalarValue(number)
	return nil
}

func boolScalar(b bool) ScalarValue {
	if b {
		return 1
	}
	return 0
}
