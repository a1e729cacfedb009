package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/equigrid/internal/compiler"
	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/dag"
	"github.com/specialistvlad/equigrid/internal/node"
	"github.com/specialistvlad/equigrid/internal/parser"
	"github.com/specialistvlad/equigrid/internal/solver"
)

// Program is a parsed and compiled system, ready to be solved any number of
// times. Nodes is never modified by Solve.
type Program struct {
	Name      string
	Equations *parser.EquationSet
	Nodes     []node.Node
	// Free lists the free variables, sorted.
	Free  []string
	Graph *dag.Graph
	// Cycle is set when the dependency graph contains a cycle, in which case
	// the symbols on it can never resolve.
	Cycle error
}

// Outcome is the result of solving a Program once.
type Outcome struct {
	Program *Program
	// System is the workspace system the program was built from, if any.
	System *config.System
	Result solver.Result
	// Inputs holds the bindings that were applied, keyed by free variable.
	Inputs map[string]float64
}

// Compile parses and compiles equation text. Parse failures are returned as
// *parser.ParseError wrapped with the system name.
func Compile(ctx context.Context, name, text string) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compile: Parsing equations.", "system", name)

	eqs, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	for _, dup := range eqs.Redefined() {
		logger.Warn("Equation defined more than once, the last definition wins.", "system", name, "equation", dup)
	}

	nodes := compiler.Compile(eqs)
	logger.Debug("Compile: Lowered equations to nodes.", "system", name, "equations", eqs.Len(), "node_count", len(nodes))

	graph, err := dag.Build(nodes)
	if err != nil {
		return nil, fmt.Errorf("system %q: invalid node graph: %w", name, err)
	}

	prog := &Program{
		Name:      name,
		Equations: eqs,
		Nodes:     nodes,
		Free:      solver.FreeVariables(nodes),
		Graph:     graph,
	}
	if err := graph.DetectCycles(); err != nil {
		prog.Cycle = err
		logger.Warn("System contains a dependency cycle and cannot fully resolve.", "system", name, "error", err)
	}
	return prog, nil
}

// Solve resolves a fresh copy of the program's nodes with the given free
// variable values. The bindings are rebuilt on every call.
func (p *Program) Solve(ctx context.Context, inputs map[string]float64) solver.Result {
	logger := ctxlog.FromContext(ctx)

	b := make(node.Bindings, len(inputs))
	for k, v := range inputs {
		b[k] = v
	}

	res := solver.Solve(solver.Clone(p.Nodes), b)
	logger.Debug("Solve: Finished.", "system", p.Name, "completed", res.Completed, "rounds", res.Rounds, "unresolved", len(solver.Unresolved(res.Nodes)))
	return res
}

// Inputs filters inputs down to the set values of free variables. Inputs
// naming any other symbol are logged and ignored. A nil value marks the
// variable as unset.
func (p *Program) Inputs(ctx context.Context, inputs map[string]*float64) map[string]float64 {
	logger := ctxlog.FromContext(ctx)

	free := make(map[string]bool, len(p.Free))
	for _, f := range p.Free {
		free[f] = true
	}

	names := make([]string, 0, len(inputs))
	for k := range inputs {
		names = append(names, k)
	}
	sort.Strings(names)

	applied := make(map[string]float64, len(inputs))
	for _, k := range names {
		v := inputs[k]
		if !free[k] {
			logger.Warn("Ignoring binding for a symbol that is not a free variable.", "system", p.Name, "symbol", k)
			continue
		}
		if v != nil {
			applied[k] = *v
		}
	}
	return applied
}

// Run compiles and solves one workspace system. overrides are layered on top
// of the system's own bindings.
func Run(ctx context.Context, sys *config.System, overrides map[string]*float64) (*Outcome, error) {
	ctx = ctxlog.With(ctx, "source", sys.Source)

	prog, err := Compile(ctx, sys.Name, sys.Equations)
	if err != nil {
		return nil, err
	}

	inputs := prog.Inputs(ctx, MergeBindings(sys.Bindings, overrides))
	res := prog.Solve(ctx, inputs)

	return &Outcome{
		Program: prog,
		System:  sys,
		Result:  res,
		Inputs:  inputs,
	}, nil
}

// MergeBindings returns base overlaid with overrides. Neither map is modified.
func MergeBindings(base, overrides map[string]*float64) map[string]*float64 {
	out := make(map[string]*float64, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
