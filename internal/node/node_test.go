package node

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptBinding(t *testing.T) {
	t.Parallel()

	b := Bindings{"p": 10, "z": 12}

	testCases := []struct {
		name      string
		in        Node
		want      Node
		wantBound bool
	}{
		{"free with value", NewFree("p"), NewBound("p", 10), true},
		{"free without value", NewFree("q"), NewFree("q"), false},
		{"bound is unchanged", NewBound("c", 3), NewBound("c", 3), false},
		{"ref resolved", NewDependent("x", NewRef("z")), NewBound("x", 12), true},
		{"ref unresolved", NewDependent("x", NewRef("q")), NewDependent("x", NewRef("q")), false},
		{"binary resolved", NewDependent("m", NewBinary(Sub, "z", "p")), NewBound("m", 2), true},
		{"binary partially bound", NewDependent("m", NewBinary(Add, "z", "q")), NewDependent("m", NewBinary(Add, "z", "q")), false},
		{"binary repeated operand", NewDependent("m", NewBinary(Add, "z", "z")), NewBound("m", 24), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, changed := tc.in.AttemptBinding(b)
			assert.Equal(t, tc.wantBound, changed)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6.0, Fold(Add, 1, 2, 3))
	assert.Equal(t, 5.0, Fold(Sub, 10, 3, 2))
	assert.Equal(t, 24.0, Fold(Mul, 2, 3, 4))
	assert.Equal(t, 2.0, Fold(Div, 16, 4, 2))
	assert.Equal(t, 7.0, Fold(Div, 7))
	assert.True(t, math.IsInf(Fold(Div, 1, 0), 1))
	assert.True(t, math.IsNaN(Fold(Div, 0, 0)))
}

func TestCalculation(t *testing.T) {
	t.Parallel()

	ref := NewRef("const-2")
	assert.Equal(t, "const-2", ref.Target())
	assert.Equal(t, "ref(const-2)", ref.String())

	add := NewBinary(Add, "ref-z-3", "ref-z-3")
	assert.Equal(t, "add(ref-z-3, ref-z-3)", add.String())
	assert.Panics(t, func() { add.Target() })
	assert.Panics(t, func() { NewBinary(Mul) })
	assert.Panics(t, func() { NewBinary(Ref, "a") })
}

func TestNode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p (free)", NewFree("p").String())
	assert.Equal(t, "z = 12", NewBound("z", 12).String())
	assert.Equal(t, "y = ref(math-6)", NewDependent("y", NewRef("math-6")).String())
	assert.Equal(t, "p (free)\nz = 12\n", Format([]Node{NewFree("p"), NewBound("z", 12)}))
}

func TestNode_OperandsAndSymbols(t *testing.T) {
	t.Parallel()

	nodes := []Node{
		NewFree("p"),
		NewDependent("m", NewBinary(Div, "p", "c")),
		NewBound("c", 5),
	}

	require.Equal(t, []string{"p", "m", "c"}, Symbols(nodes))
	assert.Nil(t, nodes[0].Operands())
	assert.Equal(t, []string{"p", "c"}, nodes[1].Operands())
	assert.False(t, nodes[1].IsBound())
	assert.True(t, nodes[2].IsBound())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "free", Free.String())
	assert.Equal(t, "bound", Bound.String())
	assert.Equal(t, "dependent", Dependent.String())
	assert.Panics(t, func() { _ = Kind(42).String() })
}
