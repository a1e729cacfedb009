package parser

import (
	"errors"
	"testing"

	"github.com/specialistvlad/equigrid/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEquation_Precedence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line string
		want float64
	}{
		{"x = 1 + 2", 3},
		{"x = 2 + 3 * 4", 14},
		{"x = (2 + 3) * 4", 20},
		{"x = 8 / 4 / 2", 1},
		{"x = 10 - 4 - 3", 3},
		{"x = -1.5 * 2", -3},
		{"x = 3 - -2", 5},
		{"x=((7))", 7},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			name, expr, err := ParseEquation(tc.line)
			require.NoError(t, err)
			assert.Equal(t, "x", name)

			got, ok := expr.ConstantEval()
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseEquation_Shape(t *testing.T) {
	t.Parallel()

	// --- Act ---
	name, expr, err := ParseEquation("y = z + z - p / 5")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "y", name)
	assert.Equal(t, "((z + z) - (p / 5))", expr.String())
	assert.Equal(t, []string{"z", "z", "p"}, expr.References())
}

func TestParseEquation_SuccessReturnsUntypedNilError(t *testing.T) {
	t.Parallel()

	_, _, err := ParseEquation("x = 1")

	// A typed nil *ParseError would compare non-nil here.
	assert.True(t, err == nil)
}

func TestParseEquation_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		line    string
		wantCol int
		wantMsg string
	}{
		{"missing equals", "x 1 + 2", 3, "expected '=' after equation name"},
		{"no equals at all", "x", 2, "expected '='"},
		{"dangling operator", "x = 1 +", 8, "unexpected end of input"},
		{"trailing token", "x = 1 2", 7, "unexpected trailing token"},
		{"unbalanced open", "x = (1 + 2", 11, "expected ')'"},
		{"unbalanced close", "x = 1 + 2)", 10, "unmatched ')'"},
		{"composite lhs", "a + b = 3", 3, "left-hand side must be a single symbol"},
		{"missing lhs", "= 3", 1, "missing equation name"},
		{"second equals", "a = b = c", 7, "unexpected trailing token '='"},
		{"illegal character", "x = 2 ^ 3", 7, "illegal character"},
		{"unary minus on symbol", "x = -y", 5, "unexpected '-'"},
		{"glued subtraction", "x = 3-2", 6, "unexpected trailing token NUMBER"},
		{"lhs is number", "3 = x", 1, "left-hand side"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ParseEquation(tc.line)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, 1, perr.Line)
			assert.Equal(t, tc.wantCol, perr.Column)
			assert.Contains(t, perr.Msg, tc.wantMsg)
			assert.Equal(t, tc.line, perr.Source)
		})
	}
}

func TestParseExpression(t *testing.T) {
	t.Parallel()

	expr, err := ParseExpression("a * (b + 1)")
	require.NoError(t, err)
	assert.Equal(t, "(a * (b + 1))", expr.String())

	_, err = ParseExpression("a *")
	require.Error(t, err)
}

func TestParse_Block(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	block := "x = y * 2\r\n\n   \ny = z + z - p / 5\nz = 12\n"

	// --- Act ---
	set, err := Parse(block)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, set.Names())
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"y", "z", "z", "p"}, set.References())

	z, ok := set.Get("z")
	require.True(t, ok)
	assert.Equal(t, &ast.Constant{Value: 12}, z)
	assert.True(t, set.Has("y"))
	assert.False(t, set.Has("p"))
}

func TestParse_IsAtomic(t *testing.T) {
	t.Parallel()

	// --- Act ---
	set, err := Parse("a = 1\nb = 2 +\nc = 3")

	// --- Assert ---
	require.Error(t, err)
	assert.Nil(t, set)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "line 2, column 8: unexpected end of input, expected a number, symbol or '('", perr.Error())
}

func TestParse_EmptyBlock(t *testing.T) {
	t.Parallel()

	set, err := Parse("\n  \n")
	require.NoError(t, err)
	assert.Zero(t, set.Len())
	assert.Empty(t, set.References())
}

func TestParse_RedefinitionLastWins(t *testing.T) {
	t.Parallel()

	// --- Act ---
	set, err := Parse("a = 1\nb = a\na = 2")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.Names())
	assert.Equal(t, []string{"a"}, set.Redefined())

	a, _ := set.Get("a")
	v, _ := a.ConstantEval()
	assert.Equal(t, 2.0, v)
}
