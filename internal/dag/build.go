package dag

import (
	"fmt"

	"github.com/specialistvlad/equigrid/internal/node"
)

// Build creates the dependency graph of a node list: one vertex per node and
// one edge from every calculation operand to the node computed from it. It
// fails when an operand names a symbol that no node in the list defines.
func Build(nodes []node.Node) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		g.AddNode(n.Symbol)
	}
	for _, n := range nodes {
		for _, op := range n.Operands() {
			if err := g.AddEdge(op, n.Symbol); err != nil {
				return nil, fmt.Errorf("failed to link %s: %w", n.Symbol, err)
			}
		}
	}
	return g, nil
}

// BlockingInputs returns the sorted free symbols that the node `id`
// transitively requires and that are still unbound in nodes. The result is
// empty when the node is already bound.
func (g *Graph) BlockingInputs(id string, nodes []node.Node) ([]string, error) {
	state := make(map[string]node.Node, len(nodes))
	for _, n := range nodes {
		state[n.Symbol] = n
	}
	if n, ok := state[id]; ok {
		if n.IsBound() {
			return nil, nil
		}
		if n.Kind == node.Free {
			return []string{id}, nil
		}
	}

	ancestors, err := g.Ancestors(id)
	if err != nil {
		return nil, err
	}
	var blocking []string
	for _, a := range ancestors {
		if n, ok := state[a]; ok && n.Kind == node.Free {
			blocking = append(blocking, a)
		}
	}
	return blocking, nil
}
