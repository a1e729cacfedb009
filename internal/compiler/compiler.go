package compiler

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/equigrid/internal/ast"
	"github.com/specialistvlad/equigrid/internal/node"
	"github.com/specialistvlad/equigrid/internal/parser"
)

// InternalError signals a broken compiler invariant. It is raised with panic
// and never returned as an error value.
type InternalError struct {
	Equation string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("compiler: no lowered symbol for right-hand side of %q", e.Equation)
}

// compileCtx holds the state of a single Compile call.
type compileCtx struct {
	out     []node.Node
	counter int64
	lowered map[ast.Expr]string // AST node identity -> symbol
	refs    map[string]string   // referenced name -> ref node symbol
	free    map[string]struct{}
}

func newCompileCtx() *compileCtx {
	return &compileCtx{
		lowered: make(map[ast.Expr]string),
		refs:    make(map[string]string),
		free:    make(map[string]struct{}),
	}
}

func (c *compileCtx) next() string {
	s := strconv.FormatInt(c.counter, 16)
	c.counter++
	return s
}

func (c *compileCtx) emit(n node.Node) {
	c.out = append(c.out, n)
}

// Compile lowers eqs into solver nodes: free variables first, then the lowered
// right-hand sides, then one Ref node per equation name.
func Compile(eqs *parser.EquationSet) []node.Node {
	c := newCompileCtx()

	for _, name := range FreeVariables(eqs) {
		c.addFree(name)
	}

	eqs.Each(func(_ string, rhs ast.Expr) {
		c.lower(rhs)
	})

	eqs.Each(func(name string, rhs ast.Expr) {
		sym, ok := c.lowered[rhs]
		if !ok {
			panic(&InternalError{Equation: name})
		}
		c.emit(node.NewDependent(name, node.NewRef(sym)))
	})

	return c.out
}

// FreeVariables returns the symbols referenced by any right-hand side that no
// equation defines, in discovery order and without duplicates.
func FreeVariables(eqs *parser.EquationSet) []string {
	seen := make(map[string]struct{})
	var free []string
	for _, ref := range eqs.References() {
		if eqs.Has(ref) {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		free = append(free, ref)
	}
	return free
}

func (c *compileCtx) addFree(name string) {
	if _, ok := c.free[name]; ok {
		return
	}
	c.free[name] = struct{}{}
	c.emit(node.NewFree(name))
}

// lower emits the nodes for expr and returns the symbol holding its value.
func (c *compileCtx) lower(expr ast.Expr) string {
	if sym, ok := c.lowered[expr]; ok {
		return sym
	}

	var sym string
	if v, ok := expr.ConstantEval(); ok {
		sym = "const-" + c.next()
		c.emit(node.NewBound(sym, v))
	} else {
		switch e := expr.(type) {
		case *ast.Symbol:
			sym = c.lowerRef(e)
		case *ast.BinaryOp:
			sym = c.lowerBinary(e)
		default:
			panic(fmt.Sprintf("compiler: unexpected expression %T", expr))
		}
	}

	// Reused ref nodes are recorded too, so every equation can find its symbol.
	c.lowered[expr] = sym
	return sym
}

func (c *compileCtx) lowerRef(e *ast.Symbol) string {
	if sym, ok := c.refs[e.Name]; ok {
		return sym
	}
	sym := "ref-" + e.Name + "-" + c.next()
	c.emit(node.NewDependent(sym, node.NewRef(e.Name)))
	c.refs[e.Name] = sym
	return sym
}

func (c *compileCtx) lowerBinary(e *ast.BinaryOp) string {
	sym := "math-" + c.next()
	left := c.lower(e.Left)
	right := c.lower(e.Right)
	c.emit(node.NewDependent(sym, node.NewBinary(calcKind(e.Op), left, right)))
	return sym
}

func calcKind(op ast.Op) node.CalcKind {
	switch op {
	case ast.Add:
		return node.Add
	case ast.Sub:
		return node.Sub
	case ast.Mul:
		return node.Mul
	case ast.Div:
		return node.Div
	default:
		panic(fmt.Sprintf("compiler: unknown operator %d", int(op)))
	}
}
