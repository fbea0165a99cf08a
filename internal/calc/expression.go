package calc

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

// Variables every expression may reference besides application fields.
const (
	VarBase           = "base"
	VarZoneMultiplier = "zone_multiplier"
)

// Expression is a compiled arithmetic formula: numbers, named variables,
// + - * / and parentheses. Nothing else survives Compile.
type Expression struct {
	source string
	expr   *govaluate.EvaluableExpression
	vars   []string
}

func Compile(source string) (*Expression, error) {
	expr, err := govaluate.NewEvaluableExpression(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	for _, tok := range expr.Tokens() {
		if !allowedToken(tok) {
			return nil, fmt.Errorf("%w: %q not allowed in %q", ErrInvalidExpression, tok.Value, source)
		}
	}

	vars := expr.Vars()
	slices.Sort(vars)

	return &Expression{source: source, expr: expr, vars: slices.Compact(vars)}, nil
}

func allowedToken(tok govaluate.ExpressionToken) bool {
	switch tok.Kind {
	case govaluate.NUMERIC, govaluate.VARIABLE, govaluate.CLAUSE, govaluate.CLAUSE_CLOSE:
		return true
	case govaluate.MODIFIER:
		switch tok.Value {
		case "+", "-", "*", "/":
			return true
		}
	case govaluate.PREFIX:
		return tok.Value == "-"
	}

	return false
}

func (e *Expression) String() string { return e.source }

// Vars lists the distinct variables the expression reads, sorted.
func (e *Expression) Vars() []string { return e.vars }

func (e *Expression) Uses(name string) bool {
	_, found := slices.BinarySearch(e.vars, name)
	return found
}

// Evaluate runs the expression over vars. Every referenced variable must be
// present. Arithmetic is exact decimal; govaluate only tokenizes.
func (e *Expression) Evaluate(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	for _, name := range e.vars {
		if _, ok := vars[name]; !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	ev := &evaluator{tokens: e.expr.Tokens(), vars: vars}

	out, err := ev.sum()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	if ev.pos != len(ev.tokens) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %v in %q", ErrInvalidExpression, ev.tokens[ev.pos].Value, e.source)
	}

	return out, nil
}

// evaluator walks a whitelisted token stream by precedence climbing.
type evaluator struct {
	tokens []govaluate.ExpressionToken
	pos    int
	vars   map[string]decimal.Decimal
}

func (ev *evaluator) operator(ops ...string) (string, bool) {
	if ev.pos >= len(ev.tokens) {
		return "", false
	}

	tok := ev.tokens[ev.pos]
	if tok.Kind != govaluate.MODIFIER {
		return "", false
	}

	op, _ := tok.Value.(string)
	if !slices.Contains(ops, op) {
		return "", false
	}

	ev.pos++

	return op, true
}

func (ev *evaluator) sum() (decimal.Decimal, error) {
	left, err := ev.product()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op, ok := ev.operator("+", "-")
		if !ok {
			return left, nil
		}

		right, err := ev.product()
		if err != nil {
			return decimal.Zero, err
		}

		if op == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (ev *evaluator) product() (decimal.Decimal, error) {
	left, err := ev.factor()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op, ok := ev.operator("*", "/")
		if !ok {
			return left, nil
		}

		right, err := ev.factor()
		if err != nil {
			return decimal.Zero, err
		}

		if op == "*" {
			left = left.Mul(right)
			continue
		}

		if right.IsZero() {
			return decimal.Zero, errors.New("division by zero")
		}

		left = left.Div(right)
	}
}

func (ev *evaluator) factor() (decimal.Decimal, error) {
	if ev.pos >= len(ev.tokens) {
		return decimal.Zero, errors.New("unexpected end of expression")
	}

	tok := ev.tokens[ev.pos]
	ev.pos++

	switch tok.Kind {
	case govaluate.PREFIX:
		v, err := ev.factor()
		return v.Neg(), err
	case govaluate.NUMERIC:
		f, ok := tok.Value.(float64)
		if !ok {
			return decimal.Zero, fmt.Errorf("bad numeric literal %v", tok.Value)
		}
		// Shortest round-trip form, so a literal 1.255 stays exactly 1.255.
		return decimal.NewFromFloat(f), nil
	case govaluate.VARIABLE:
		name, _ := tok.Value.(string)
		return ev.vars[name], nil
	case govaluate.CLAUSE:
		v, err := ev.sum()
		if err != nil {
			return decimal.Zero, err
		}

		if ev.pos >= len(ev.tokens) || ev.tokens[ev.pos].Kind != govaluate.CLAUSE_CLOSE {
			return decimal.Zero, errors.New("unbalanced parentheses")
		}
		ev.pos++

		return v, nil
	}

	return decimal.Zero, fmt.Errorf("unexpected %v", tok.Value)
}
