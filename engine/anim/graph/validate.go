package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/controller"
)

var ErrInvalidGraph = errors.New("invalid graph")

// Validate reports every structural problem of the graph at once: unknown parameter types,
// duplicate or malformed names, transitions naming undeclared states, unknown blend types or
// predicates, point arity that does not match the blend type, and references to undeclared
// parameters.
//
// Returns:
//   - error: nil, or every problem joined; each wraps ErrInvalidGraph
func (g *Graph) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidGraph}, args...)...))
	}

	if len(g.Layers) == 0 {
		fail("no layers")
	}

	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := controller.ParseParameterType(g.Parameters[name].Type); err != nil {
			fail("parameter %q: %v", name, err)
		}
	}

	layers := make(map[string]struct{}, len(g.Layers))
	for i := range g.Layers {
		l := &g.Layers[i]
		if _, dup := layers[l.Name]; dup {
			fail("duplicate layer %q", l.Name)
		}
		layers[l.Name] = struct{}{}
		if w := l.BlendWeight(); w < 0 || w > 1 {
			fail("layer %q: weight %v outside [0, 1]", l.Name, w)
		}
		g.validateLayer(l, fail)
	}
	return errors.Join(errs...)
}

func (g *Graph) validateLayer(l *Layer, fail func(string, ...any)) {
	states := make(map[string]struct{}, len(l.States))
	for _, s := range l.States {
		if err := checkName(s.Name); err != nil {
			fail("layer %q: state: %v", l.Name, err)
			continue
		}
		if _, dup := states[s.Name]; dup {
			fail("layer %q: duplicate state %q", l.Name, s.Name)
		}
		states[s.Name] = struct{}{}
		if s.BlendTree != nil {
			g.validateTree(l.Name+"/"+s.Name, s.BlendTree, fail)
		}
	}

	for i, t := range l.Transitions {
		where := fmt.Sprintf("layer %q: transition %d (%s -> %s)", l.Name, i, t.From, t.To)

		switch t.From {
		case controller.StateNameStart, controller.StateNameAny:
		case controller.StateNameEnd:
			fail("%s: END cannot be a source", where)
		default:
			if _, ok := states[t.From]; !ok {
				fail("%s: unknown source state", where)
			}
		}
		switch t.To {
		case controller.StateNameEnd:
		case controller.StateNameStart, controller.StateNameAny:
			fail("%s: %s cannot be a destination", where, t.To)
		default:
			if _, ok := states[t.To]; !ok {
				fail("%s: unknown destination state", where)
			}
		}

		if t.Time < 0 {
			fail("%s: negative time", where)
		}
		if t.TransitionOffset != nil && (*t.TransitionOffset < 0 || *t.TransitionOffset > 1) {
			fail("%s: transitionOffset outside [0, 1]", where)
		}
		if _, err := controller.ParseInterruptionSource(t.InterruptionSource); err != nil {
			fail("%s: %v", where, err)
		}
		for _, c := range t.Conditions {
			if c.Expression != "" {
				if _, err := controller.NewExpressionCondition(c.Expression); err != nil {
					fail("%s: %v", where, err)
				}
				continue
			}
			if _, err := controller.ParsePredicate(c.Predicate); err != nil {
				fail("%s: %v", where, err)
			}
			if _, ok := g.Parameters[c.ParameterName]; !ok {
				fail("%s: undeclared parameter %q", where, c.ParameterName)
			}
		}
	}
}

func (g *Graph) validateTree(where string, def *BlendTreeDef, fail func(string, ...any)) {
	blendType, err := controller.ParseBlendType(def.Type)
	if err != nil {
		fail("%s: %v", where, err)
		return
	}
	if len(def.Children) == 0 {
		fail("%s: blend tree has no children", where)
		return
	}

	params := treeParameters(blendType, def)
	switch blendType {
	case controller.BlendType1D:
		if len(params) != 1 {
			fail("%s: 1D blend tree needs exactly one parameter", where)
		}
	case controller.BlendTypeCartesian2D, controller.BlendTypeDirectional2D:
		if len(params) != 2 {
			fail("%s: %s blend tree needs two parameters", where, blendType)
		}
	case controller.BlendTypeDirect:
		if len(params) != len(def.Children) {
			fail("%s: DIRECT blend tree needs one parameter per child", where)
		}
	}
	for _, p := range params {
		if _, ok := g.Parameters[p]; !ok {
			fail("%s: undeclared parameter %q", where, p)
		}
	}

	children := make(map[string]struct{}, len(def.Children))
	for i := range def.Children {
		child := &def.Children[i]
		if err := checkName(child.Name); err != nil {
			fail("%s: child %d: %v", where, i, err)
			continue
		}
		if _, dup := children[child.Name]; dup {
			fail("%s: duplicate child %q", where, child.Name)
		}
		children[child.Name] = struct{}{}

		childWhere := where + "/" + child.Name
		switch blendType {
		case controller.BlendType1D:
			if len(child.Point) != 1 {
				fail("%s: 1D child needs a scalar point", childWhere)
			}
		case controller.BlendTypeCartesian2D, controller.BlendTypeDirectional2D:
			if len(child.Point) != 2 {
				fail("%s: 2D child needs a point [x, y]", childWhere)
			}
		}
		if len(child.Children) > 0 {
			g.validateTree(childWhere, child, fail)
		}
	}
}

// checkName rejects names that would break dot-joined node paths.
func checkName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("name %q contains '.'", name)
	}
	return nil
}

func treeParameters(blendType controller.BlendType, def *BlendTreeDef) []string {
	if blendType == controller.BlendType1D && def.Parameter != "" {
		return []string{def.Parameter}
	}
	return def.Parameters
}
