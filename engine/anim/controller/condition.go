package controller

import (
	"fmt"
	"log"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition gates a Transition. A predicate condition compares one parameter with Value;
// an expression condition evaluates a compiled boolean expression over all parameters.
type Condition struct {
	ParameterName string
	Predicate     Predicate
	Value         float32

	expression string
	program    *vm.Program
}

// NewExpressionCondition compiles a boolean expression over parameter names, for example
// `speed > 0.5 && grounded`. Numeric parameters are float64 and booleans are bool inside
// the expression. Expression conditions read triggers but never consume them.
//
// Parameters:
//   - expression: the expression source
//
// Returns:
//   - Condition: the compiled condition
//   - error: a compile error
func NewExpressionCondition(expression string) (Condition, error) {
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return Condition{}, fmt.Errorf("failed to compile condition %q: %w", expression, err)
	}
	return Condition{expression: expression, program: program}, nil
}

// Expression returns the expression source, or "" for a predicate condition.
func (c Condition) Expression() string {
	return c.expression
}

// IsExpression reports whether c is an expression condition.
func (c Condition) IsExpression() bool {
	return c.program != nil
}

// evaluate checks the condition against params. A predicate naming a missing parameter panics.
// An expression that fails to run is false and is only logged when debug is set.
func (c Condition) evaluate(params Parameters, debug bool) bool {
	if c.program != nil {
		out, err := expr.Run(c.program, params.Env())
		if err != nil {
			if debug {
				log.Printf("[AnimController] condition %q failed: %v", c.expression, err)
			}
			return false
		}
		ok, _ := out.(bool)
		return ok
	}

	p := mustFindParameter(params, c.ParameterName)
	switch c.Predicate {
	case PredicateGreaterThan:
		return p.Value > c.Value
	case PredicateLessThan:
		return p.Value < c.Value
	case PredicateGreaterThanEqualTo:
		return p.Value >= c.Value
	case PredicateLessThanEqualTo:
		return p.Value <= c.Value
	case PredicateEqualTo:
		return p.Value == c.Value
	case PredicateNotEqualTo:
		return p.Value != c.Value
	default:
		return false
	}
}

func mustFindParameter(params Parameters, name string) *Parameter {
	if params == nil {
		panic(fmt.Sprintf("controller: parameter %q requested but no parameters are configured", name))
	}
	p := params.FindParameter(name)
	if p == nil {
		panic(fmt.Sprintf("controller: parameter %q not found", name))
	}
	return p
}
