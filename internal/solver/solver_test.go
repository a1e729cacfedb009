package solver

import (
	"math"
	"strconv"
	"testing"

	"github.com/specialistvlad/equigrid/internal/compiler"
	"github.com/specialistvlad/equigrid/internal/node"
	"github.com/specialistvlad/equigrid/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceSystem = "x = y * 2\ny = z + z - p / 5\nz = 12"

func compileBlock(t *testing.T, block string) []node.Node {
	t.Helper()
	eqs, err := parser.Parse(block)
	require.NoError(t, err)
	return compiler.Compile(eqs)
}

func valueOf(t *testing.T, nodes []node.Node, symbol string) node.Node {
	t.Helper()
	for _, n := range nodes {
		if n.Symbol == symbol {
			return n
		}
	}
	t.Fatalf("symbol %s not found", symbol)
	return node.Node{}
}

func TestSolve_ReferenceSystemWithBinding(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	nodes := compileBlock(t, referenceSystem)
	require.Equal(t, []string{"p"}, FreeVariables(nodes))

	// --- Act ---
	res := Solve(nodes, node.Bindings{"p": 10})

	// --- Assert ---
	require.True(t, res.Completed)
	assert.Equal(t, node.NewBound("z", 12), valueOf(t, res.Nodes, "z"))
	assert.Equal(t, node.NewBound("y", 22), valueOf(t, res.Nodes, "y"))
	assert.Equal(t, node.NewBound("x", 44), valueOf(t, res.Nodes, "x"))
	assert.Empty(t, Unresolved(res.Nodes))
}

func TestSolve_ReferenceSystemWithoutBinding(t *testing.T) {
	t.Parallel()

	// --- Act ---
	res := Solve(compileBlock(t, referenceSystem), node.Bindings{})

	// --- Assert ---
	require.False(t, res.Completed)
	assert.Equal(t, node.NewFree("p"), valueOf(t, res.Nodes, "p"))
	assert.Equal(t, node.NewBound("z", 12), valueOf(t, res.Nodes, "z"))
	assert.Equal(t, node.Dependent, valueOf(t, res.Nodes, "y").Kind)
	assert.Equal(t, node.Dependent, valueOf(t, res.Nodes, "x").Kind)
	assert.Equal(t, []string{"p"}, FreeVariables(res.Nodes))
}

func TestSolve_NilBindings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	nodes := compileBlock(t, referenceSystem)

	// --- Act ---
	var res Result
	require.NotPanics(t, func() { res = Solve(nodes, nil) })

	// --- Assert ---
	assert.False(t, res.Completed)
	assert.Equal(t, node.NewBound("z", 12), valueOf(t, res.Nodes, "z"))
	assert.Equal(t, node.NewFree("p"), valueOf(t, res.Nodes, "p"))
}

func TestSolve_MutatesInPlaceAndExtendsBindings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	nodes := compileBlock(t, referenceSystem)
	pristine := Clone(nodes)
	b := node.Bindings{"p": 10}

	// --- Act ---
	res := Solve(nodes, b)

	// --- Assert ---
	assert.Same(t, &nodes[0], &res.Nodes[0])
	assert.Equal(t, node.Free, pristine[0].Kind, "clone must not observe the solve")
	assert.Equal(t, 44.0, b["x"])
	assert.Equal(t, 12.0, b["const-9"])
}

func TestSolve_IsIdempotent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	first := Solve(compileBlock(t, referenceSystem), node.Bindings{"p": 10})
	require.True(t, first.Completed)
	snapshot := Clone(first.Nodes)

	// --- Act ---
	second := Solve(first.Nodes, node.Bindings{})

	// --- Assert ---
	assert.True(t, second.Completed)
	assert.Equal(t, snapshot, second.Nodes)
	assert.Equal(t, 1, second.Rounds)
}

func TestSolve_PropagatesWithinARound(t *testing.T) {
	t.Parallel()

	// Nodes listed in dependency order resolve in one productive round.
	forward := []node.Node{
		node.NewFree("a"),
		node.NewDependent("b", node.NewRef("a")),
		node.NewDependent("c", node.NewBinary(node.Add, "a", "b")),
	}
	res := Solve(forward, node.Bindings{"a": 1})
	require.True(t, res.Completed)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 2.0, res.Nodes[2].Value)

	// Reverse order needs one extra round per level.
	reverse := []node.Node{
		node.NewDependent("c", node.NewBinary(node.Add, "a", "b")),
		node.NewDependent("b", node.NewRef("a")),
		node.NewFree("a"),
	}
	res = Solve(reverse, node.Bindings{"a": 1})
	require.True(t, res.Completed)
	assert.Equal(t, 4, res.Rounds)
}

func TestSolve_CycleTerminates(t *testing.T) {
	t.Parallel()

	// --- Act ---
	res := Solve(compileBlock(t, "a = b\nb = a"), node.Bindings{})

	// --- Assert ---
	assert.False(t, res.Completed)
	assert.LessOrEqual(t, res.Rounds, MaxRounds)
	assert.ElementsMatch(t, []string{"ref-b-0", "ref-a-1", "a", "b"}, Unresolved(res.Nodes))
}

func TestSolve_RoundBudget(t *testing.T) {
	t.Parallel()

	// A chain listed in reverse needs one round per link.
	const length = MaxRounds + 10
	nodes := make([]node.Node, 0, length+1)
	for i := length; i > 0; i-- {
		nodes = append(nodes, node.NewDependent(chainSym(i), node.NewRef(chainSym(i-1))))
	}
	nodes = append(nodes, node.NewFree(chainSym(0)))

	res := Solve(nodes, node.Bindings{chainSym(0): 1})

	assert.False(t, res.Completed)
	assert.Equal(t, MaxRounds, res.Rounds)
}

func chainSym(i int) string {
	return "n" + strconv.Itoa(i)
}

func TestSolve_IEEEPassThrough(t *testing.T) {
	t.Parallel()

	res := Solve(compileBlock(t, "x = a / b\ny = b / b"), node.Bindings{"a": 1, "b": 0})

	require.True(t, res.Completed)
	assert.True(t, math.IsInf(valueOf(t, res.Nodes, "x").Value, 1))
	assert.True(t, math.IsNaN(valueOf(t, res.Nodes, "y").Value))
}

func TestFreeVariables_Sorted(t *testing.T) {
	t.Parallel()

	nodes := compileBlock(t, "x = zeta + alpha * mid")

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, FreeVariables(nodes))
}
