package report

import (
	"sort"

	"github.com/specialistvlad/equigrid/internal/engine"
	"github.com/specialistvlad/equigrid/internal/node"
)

// Document is the top-level report over one or more systems.
type Document struct {
	Systems []SystemReport `json:"systems" yaml:"systems" cbor:"systems"`
}

// SystemReport describes one compiled, and possibly solved, system.
type SystemReport struct {
	Name          string            `json:"name" yaml:"name" cbor:"name"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty" cbor:"description,omitempty"`
	Source        string            `json:"source,omitempty" yaml:"source,omitempty" cbor:"source,omitempty"`
	Solved        bool              `json:"solved" yaml:"solved" cbor:"solved"`
	Completed     bool              `json:"completed" yaml:"completed" cbor:"completed"`
	Rounds        int               `json:"rounds" yaml:"rounds" cbor:"rounds"`
	FreeVariables []string          `json:"free_variables" yaml:"free_variables" cbor:"free_variables"`
	Inputs        map[string]Number `json:"inputs,omitempty" yaml:"inputs,omitempty" cbor:"inputs,omitempty"`
	Warnings      []string          `json:"warnings,omitempty" yaml:"warnings,omitempty" cbor:"warnings,omitempty"`
	Error         string            `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
	Nodes         []NodeReport      `json:"nodes" yaml:"nodes" cbor:"nodes"`
}

// NodeReport describes one node of a system.
type NodeReport struct {
	Symbol string `json:"symbol" yaml:"symbol" cbor:"symbol"`
	Kind   string `json:"kind" yaml:"kind" cbor:"kind"`
	// Important marks equation names and free variables.
	Important     bool     `json:"important" yaml:"important" cbor:"important"`
	Value         *Number  `json:"value,omitempty" yaml:"value,omitempty" cbor:"value,omitempty"`
	Calculation   string   `json:"calculation,omitempty" yaml:"calculation,omitempty" cbor:"calculation,omitempty"`
	RequiresInput []string `json:"requires_input,omitempty" yaml:"requires_input,omitempty" cbor:"requires_input,omitempty"`
}

// Solved builds the report of a solved outcome. Important nodes come first,
// sorted by symbol, followed by the intermediate nodes in graph order.
func Solved(out *engine.Outcome) SystemReport {
	r := newSystemReport(out.Program)
	if out.System != nil {
		r.Description = out.System.Description
		r.Source = out.System.Source
	}
	r.Solved = true
	r.Completed = out.Result.Completed
	r.Rounds = out.Result.Rounds
	if len(out.Inputs) > 0 {
		r.Inputs = make(map[string]Number, len(out.Inputs))
		for k, v := range out.Inputs {
			r.Inputs[k] = Number(v)
		}
	}
	r.Nodes = nodeReports(out.Program, out.Result.Nodes)
	sortImportantFirst(r.Nodes)
	return r
}

// Compiled builds the report of a compiled program without solving it. Nodes
// keep their graph order.
func Compiled(prog *engine.Program) SystemReport {
	r := newSystemReport(prog)
	r.Nodes = nodeReports(prog, prog.Nodes)
	return r
}

// Failed builds the report of a system whose equations could not be compiled.
func Failed(name string, err error) SystemReport {
	return SystemReport{Name: name, FreeVariables: []string{}, Nodes: []NodeReport{}, Error: err.Error()}
}

func newSystemReport(prog *engine.Program) SystemReport {
	r := SystemReport{
		Name:          prog.Name,
		FreeVariables: append([]string{}, prog.Free...),
	}
	for _, dup := range prog.Equations.Redefined() {
		r.Warnings = append(r.Warnings, "equation "+dup+" is defined more than once, the last definition wins")
	}
	if prog.Cycle != nil {
		r.Warnings = append(r.Warnings, prog.Cycle.Error())
	}
	return r
}

func nodeReports(prog *engine.Program, nodes []node.Node) []NodeReport {
	important := make(map[string]bool)
	for _, name := range prog.Equations.Names() {
		important[name] = true
	}
	for _, f := range prog.Free {
		important[f] = true
	}

	out := make([]NodeReport, 0, len(nodes))
	for _, n := range nodes {
		nr := NodeReport{
			Symbol:    n.Symbol,
			Kind:      n.Kind.String(),
			Important: important[n.Symbol],
		}
		switch n.Kind {
		case node.Bound:
			nr.Value = numberPtr(n.Value)
		case node.Dependent:
			nr.Calculation = n.Calc.String()
		}
		if !n.IsBound() {
			if blocking, err := prog.Graph.BlockingInputs(n.Symbol, nodes); err == nil {
				nr.RequiresInput = blocking
			}
		}
		out = append(out, nr)
	}
	return out
}

func sortImportantFirst(nodes []NodeReport) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Important != b.Important {
			return a.Important
		}
		if a.Important {
			return a.Symbol < b.Symbol
		}
		return false
	})
}

// Unresolved returns the symbols of the important nodes that are not bound.
func (r SystemReport) Unresolved() []string {
	var out []string
	for _, n := range r.Nodes {
		if n.Important && n.Value == nil {
			out = append(out, n.Symbol)
		}
	}
	return out
}
