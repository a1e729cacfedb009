package parser

import (
	"strings"

	"github.com/specialistvlad/equigrid/internal/ast"
)

// EquationSet is an ordered mapping from equation name to right-hand side.
// Iteration follows the order in which names were first defined.
type EquationSet struct {
	names     []string
	exprs     map[string]ast.Expr
	redefined []string
}

// NewEquationSet returns an empty set.
func NewEquationSet() *EquationSet {
	return &EquationSet{exprs: make(map[string]ast.Expr)}
}

// Define adds or replaces an equation. A redefinition keeps the position of
// the first definition and is recorded in Redefined.
func (s *EquationSet) Define(name string, expr ast.Expr) {
	if _, exists := s.exprs[name]; exists {
		s.redefined = append(s.redefined, name)
	} else {
		s.names = append(s.names, name)
	}
	s.exprs[name] = expr
}

// Names returns the equation names in definition order.
func (s *EquationSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the right-hand side for name.
func (s *EquationSet) Get(name string) (ast.Expr, bool) {
	expr, ok := s.exprs[name]
	return expr, ok
}

// Has reports whether name is defined by an equation.
func (s *EquationSet) Has(name string) bool {
	_, ok := s.exprs[name]
	return ok
}

func (s *EquationSet) Len() int { return len(s.names) }

// Each calls fn for every equation in definition order.
func (s *EquationSet) Each(fn func(name string, expr ast.Expr)) {
	for _, name := range s.names {
		fn(name, s.exprs[name])
	}
}

// Redefined lists names that were defined more than once, in the order the
// redefinitions were seen.
func (s *EquationSet) Redefined() []string {
	out := make([]string, len(s.redefined))
	copy(out, s.redefined)
	return out
}

// References returns the references of every right-hand side concatenated in
// equation order.
func (s *EquationSet) References() []string {
	var refs []string
	s.Each(func(_ string, expr ast.Expr) {
		refs = append(refs, expr.References()...)
	})
	return refs
}

// Parse parses a block of equations, one per line. Blank lines are ignored.
// The first malformed line aborts the parse and no partial set is returned.
func Parse(block string) (*EquationSet, error) {
	set := NewEquationSet()
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, expr, err := parseEquationLine(line, i+1)
		if err != nil {
			return nil, err
		}
		set.Define(name, expr)
	}
	return set, nil
}
