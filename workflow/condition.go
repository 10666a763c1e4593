package workflow

import (
	"context"
	"sort"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/parser"
)

// Condition evaluates a boolean expression against a set of variables.
type Condition interface {
	Evaluate(ctx context.Context, variables map[string]any) (bool, error)
}

var _ Condition = &EvalCondition{}

// EvalCondition evaluates a Risor expression. Expressions are compiled at
// evaluation time because the set of run variables differs between runs of
// the same workflow.
type EvalCondition struct {
	Expression string
}

func NewEvalCondition(expression string) *EvalCondition {
	return &EvalCondition{Expression: expression}
}

func (c *EvalCondition) Evaluate(ctx context.Context, variables map[string]any) (bool, error) {
	expression := normalizeExpression(c.Expression)
	ast, err := parser.Parse(ctx, expression)
	if err != nil {
		return false, err
	}
	var globalNames []string
	for name := range variables {
		globalNames = append(globalNames, name)
	}
	sort.Strings(globalNames)
	code, err := compiler.Compile(ast, compiler.WithGlobalNames(globalNames))
	if err != nil {
		// Editor-authored expressions reference run variables freely, and
		// one the run never set evaluates falsy. Any other compile error
		// is a real defect in the expression.
		if strings.Contains(err.Error(), "undefined variable") {
			return false, nil
		}
		return false, err
	}
	result, err := risor.EvalCode(ctx, code, risor.WithGlobals(variables))
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// normalizeExpression rewrites JavaScript-style `===` and `!==` operators
// so that expressions authored in the web editor evaluate unchanged.
// Quoted string literals are passed through untouched.
func normalizeExpression(expression string) string {
	var out strings.Builder
	out.Grow(len(expression))
	runes := []rune(expression)
	var quote rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quote != 0 {
			out.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"', '`':
			quote = r
			out.WriteRune(r)
		case '=', '!':
			if i+2 < len(runes) && runes[i+1] == '=' && runes[i+2] == '=' {
				out.WriteRune(r)
				out.WriteRune('=')
				i += 2
				continue
			}
			out.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
