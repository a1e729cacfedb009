package solver

import (
	"sort"

	"github.com/specialistvlad/equigrid/internal/node"
)

// MaxRounds bounds the number of passes over the node list.
const MaxRounds = 500

// Result is the outcome of a solve.
type Result struct {
	// Completed is true iff every node is Bound.
	Completed bool
	// Nodes is the caller's slice, resolved in place.
	Nodes []node.Node
	// Rounds is the number of passes executed, including the final pass that
	// made no progress.
	Rounds int
}

// Solve binds as many nodes as possible. nodes is rewritten in place and b is
// extended with every bound symbol. A nil b is accepted and treated as empty.
func Solve(nodes []node.Node, b node.Bindings) Result {
	if b == nil {
		b = make(node.Bindings, len(nodes))
	}
	rounds := 0
	for progress := true; progress && rounds < MaxRounds; {
		progress = false
		rounds++
		for i := range nodes {
			next, changed := nodes[i].AttemptBinding(b)
			if changed {
				nodes[i] = next
				progress = true
			}
			if nodes[i].IsBound() {
				b[nodes[i].Symbol] = nodes[i].Value
			}
		}
	}

	return Result{
		Completed: allBound(nodes),
		Nodes:     nodes,
		Rounds:    rounds,
	}
}

func allBound(nodes []node.Node) bool {
	for _, n := range nodes {
		if !n.IsBound() {
			return false
		}
	}
	return true
}

// FreeVariables returns the symbols of the nodes still waiting for input,
// sorted by name.
func FreeVariables(nodes []node.Node) []string {
	var free []string
	for _, n := range nodes {
		if n.Kind == node.Free {
			free = append(free, n.Symbol)
		}
	}
	sort.Strings(free)
	return free
}

// Clone returns a copy of nodes that can be solved without touching the
// original list.
func Clone(nodes []node.Node) []node.Node {
	out := make([]node.Node, len(nodes))
	copy(out, nodes)
	return out
}

// Unresolved returns the symbols of every node that is not Bound, in list order.
func Unresolved(nodes []node.Node) []string {
	var out []string
	for _, n := range nodes {
		if !n.IsBound() {
			out = append(out, n.Symbol)
		}
	}
	return out
}
