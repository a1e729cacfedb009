package node

import (
	"fmt"
	"strings"
)

// Kind distinguishes the three node states.
type Kind int

const (
	Free Kind = iota
	Bound
	Dependent
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "free"
	case Bound:
		return "bound"
	case Dependent:
		return "dependent"
	default:
		panic(fmt.Sprintf("node: unknown kind %d", int(k)))
	}
}

// Bindings maps a symbol to its resolved value.
type Bindings map[string]float64

// Node is a single vertex of the solver graph. It is a value type so a node
// list can be rewritten in place by index.
type Node struct {
	Kind   Kind
	Symbol string
	// Value is meaningful only for Bound nodes.
	Value float64
	// Calc is meaningful only for Dependent nodes.
	Calc Calculation
}

// NewFree returns a node whose value must come from outside the graph.
func NewFree(symbol string) Node {
	return Node{Kind: Free, Symbol: symbol}
}

// NewBound returns a node with a known value.
func NewBound(symbol string, value float64) Node {
	return Node{Kind: Bound, Symbol: symbol, Value: value}
}

// NewDependent returns a node computed from other symbols.
func NewDependent(symbol string, calc Calculation) Node {
	return Node{Kind: Dependent, Symbol: symbol, Calc: calc}
}

// IsBound reports whether the node holds a value.
func (n Node) IsBound() bool {
	return n.Kind == Bound
}

// AttemptBinding tries to resolve the node against b. It returns the node
// unchanged and false when not enough symbols are bound yet.
func (n Node) AttemptBinding(b Bindings) (Node, bool) {
	switch n.Kind {
	case Free:
		if v, ok := b[n.Symbol]; ok {
			return NewBound(n.Symbol, v), true
		}
		return n, false
	case Bound:
		return n, false
	case Dependent:
		if v, ok := n.Calc.Evaluate(b); ok {
			return NewBound(n.Symbol, v), true
		}
		return n, false
	default:
		panic(fmt.Sprintf("node: unknown kind %d", int(n.Kind)))
	}
}

// String renders the node for diagnostics, e.g. "math-3 = add(ref-z-1, ref-z-1)".
func (n Node) String() string {
	switch n.Kind {
	case Free:
		return n.Symbol + " (free)"
	case Bound:
		return fmt.Sprintf("%s = %g", n.Symbol, n.Value)
	case Dependent:
		return n.Symbol + " = " + n.Calc.String()
	default:
		panic(fmt.Sprintf("node: unknown kind %d", int(n.Kind)))
	}
}

// Operands returns the symbols the node depends on, if any.
func (n Node) Operands() []string {
	if n.Kind != Dependent {
		return nil
	}
	return n.Calc.Operands
}

// Symbols returns the symbol of every node in order.
func Symbols(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Symbol
	}
	return out
}

// Format renders a node list one node per line.
func Format(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
