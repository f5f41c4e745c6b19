package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/controller"
	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// NewParameters builds a parameter set holding the declared defaults.
//
// Returns:
//   - *controller.ParameterSet: the parameter set
//   - error: an unknown parameter type
func (g *Graph) NewParameters() (*controller.ParameterSet, error) {
	defaults := make(map[string]controller.Parameter, len(g.Parameters))
	for name, def := range g.Parameters {
		typ, err := controller.ParseParameterType(def.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		defaults[name] = controller.Parameter{Type: typ, Value: float32(def.Value)}
	}
	return controller.NewParameterSet(defaults), nil
}

// ControllerConfig converts the layer into controller state and transition configurations,
// applying the authored defaults (speed 1, loop true).
//
// Returns:
//   - []controller.StateConfig: the states in declaration order
//   - []controller.TransitionConfig: the transitions in declaration order
//   - error: an unknown enum name or an expression that does not compile
func (l *Layer) ControllerConfig() ([]controller.StateConfig, []controller.TransitionConfig, error) {
	states := make([]controller.StateConfig, 0, len(l.States))
	for _, s := range l.States {
		cfg := controller.StateConfig{Name: s.Name, Speed: 1, Loop: true}
		if s.Speed != nil {
			cfg.Speed = *s.Speed
		}
		if s.Loop != nil {
			cfg.Loop = *s.Loop
		}
		if s.BlendTree != nil {
			tree, err := blendNodeConfig(s.BlendTree)
			if err != nil {
				return nil, nil, fmt.Errorf("state %q: %w", s.Name, err)
			}
			cfg.BlendTree = &tree
		}
		states = append(states, cfg)
	}

	transitions := make([]controller.TransitionConfig, 0, len(l.Transitions))
	for i, t := range l.Transitions {
		source, err := controller.ParseInterruptionSource(t.InterruptionSource)
		if err != nil {
			return nil, nil, fmt.Errorf("transition %d: %w", i, err)
		}
		cfg := controller.TransitionConfig{
			From:               controller.ParseStateRef(t.From),
			To:                 controller.ParseStateRef(t.To),
			Time:               t.Time,
			Priority:           t.Priority,
			ExitTime:           t.ExitTime,
			TransitionOffset:   t.TransitionOffset,
			InterruptionSource: source,
		}
		for _, c := range t.Conditions {
			cond, err := condition(c)
			if err != nil {
				return nil, nil, fmt.Errorf("transition %d: %w", i, err)
			}
			cfg.Conditions = append(cfg.Conditions, cond)
		}
		transitions = append(transitions, cfg)
	}
	return states, transitions, nil
}

// NewController builds a controller for the layer driving eval.
//
// Parameters:
//   - eval: the evaluator receiving the controller's clips
//   - params: the parameter source, usually from Graph.NewParameters
//   - options: controller options
//
// Returns:
//   - controller.Controller: the controller; states have no tracks assigned yet
//   - error: a conversion error
func (l *Layer) NewController(eval evaluator.Evaluator, params controller.Parameters, options ...controller.ControllerBuilderOption) (controller.Controller, error) {
	states, transitions, err := l.ControllerConfig()
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", l.Name, err)
	}
	return controller.NewController(eval, states, transitions, params, options...), nil
}

func condition(def ConditionDef) (controller.Condition, error) {
	if def.Expression != "" {
		return controller.NewExpressionCondition(def.Expression)
	}
	predicate, err := controller.ParsePredicate(def.Predicate)
	if err != nil {
		return controller.Condition{}, err
	}
	return controller.Condition{
		ParameterName: def.ParameterName,
		Predicate:     predicate,
		Value:         float32(def.Value),
	}, nil
}

func blendNodeConfig(def *BlendTreeDef) (controller.BlendNodeConfig, error) {
	cfg := controller.BlendNodeConfig{
		Name:           def.Name,
		Point:          []float32(def.Point),
		SyncAnimations: def.SyncAnimations,
	}
	if def.Speed != nil {
		cfg.Speed = *def.Speed
	}
	if len(def.Children) == 0 {
		return cfg, nil
	}

	blendType, err := controller.ParseBlendType(def.Type)
	if err != nil {
		return cfg, err
	}
	cfg.Type = blendType
	cfg.Parameters = treeParameters(blendType, def)
	for i := range def.Children {
		child, err := blendNodeConfig(&def.Children[i])
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", def.Children[i].Name, err)
		}
		cfg.Children = append(cfg.Children, child)
	}
	return cfg, nil
}
