package calc_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/levy/internal/calc"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantVars []string
		wantErr  bool
	}{
		{name: "Arithmetic", source: "base + rooms * 2500", wantVars: []string{"base", "rooms"}},
		{name: "Parentheses", source: "(area - 100) / 2 * zone_multiplier", wantVars: []string{"area", "zone_multiplier"}},
		{name: "NegativePrefix", source: "-discount + base", wantVars: []string{"base", "discount"}},
		{name: "RepeatedVariable", source: "rooms * rooms", wantVars: []string{"rooms"}},
		{name: "Comparator", source: "rooms > 10", wantErr: true},
		{name: "Ternary", source: "rooms > 10 ? 5 : 1", wantErr: true},
		{name: "StringLiteral", source: "'abc'", wantErr: true},
		{name: "Modulus", source: "rooms % 3", wantErr: true},
		{name: "Exponent", source: "rooms ** 2", wantErr: true},
		{name: "Logical", source: "a && b", wantErr: true},
		{name: "Syntax", source: "rooms * (2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := calc.Compile(tt.source)

			if tt.wantErr {
				assert.ErrorIs(t, err, calc.ErrInvalidExpression)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantVars, expr.Vars())
		})
	}
}

func TestExpression_Evaluate(t *testing.T) {
	expr, err := calc.Compile("base + rooms * 2500")
	require.NoError(t, err)

	got, err := expr.Evaluate(map[string]decimal.Decimal{
		"base":  decimal.NewFromInt(50000),
		"rooms": decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(80000)), got.String())

	_, err = expr.Evaluate(map[string]decimal.Decimal{"base": decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, calc.ErrMissingField)
}

func TestExpression_EvaluateIsExact(t *testing.T) {
	tests := []struct {
		name   string
		source string
		vars   map[string]decimal.Decimal
		want   string
	}{
		{name: "DecimalLiteral", source: "base * 1.255", vars: map[string]decimal.Decimal{"base": decimal.NewFromInt(100)}, want: "125.5"},
		{name: "TenthsSum", source: "a + b", vars: map[string]decimal.Decimal{"a": decimal.RequireFromString("0.1"), "b": decimal.RequireFromString("0.2")}, want: "0.3"},
		{name: "Precedence", source: "2 + 3 * 4", want: "14"},
		{name: "Parentheses", source: "(2 + 3) * 4", want: "20"},
		{name: "LeftAssociative", source: "10 - 4 - 3", want: "3"},
		{name: "NegativePrefix", source: "-discount + base", vars: map[string]decimal.Decimal{"discount": decimal.NewFromInt(5), "base": decimal.NewFromInt(20)}, want: "15"},
		{name: "NegatedClause", source: "-(2 + 3) * 2", want: "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := calc.Compile(tt.source)
			require.NoError(t, err)

			got, err := expr.Evaluate(tt.vars)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}
}

func TestExpression_DivisionByZero(t *testing.T) {
	expr, err := calc.Compile("base / rooms")
	require.NoError(t, err)

	_, err = expr.Evaluate(map[string]decimal.Decimal{
		"base":  decimal.NewFromInt(10),
		"rooms": decimal.Zero,
	})
	assert.ErrorIs(t, err, calc.ErrInvalidExpression)
}

func TestNewFields(t *testing.T) {
	got := calc.NewFields(map[string]any{
		"rooms":    float64(12),
		"area":     12.5,
		"category": "luxury",
		"pool":     true,
		"empty":    nil,
	})

	assert.Equal(t, calc.Fields{"rooms": "12", "area": "12.5", "category": "luxury", "pool": "true"}, got)
}
