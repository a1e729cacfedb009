package ast

import (
	"fmt"
	"strconv"
)

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

// String returns the infix spelling of the operator.
func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		panic(fmt.Sprintf("ast: unknown operator %d", int(o)))
	}
}

// Apply evaluates the operator over two operands using IEEE-754 semantics.
// Division by zero yields an infinity or NaN, never an error.
func (o Op) Apply(a, b float64) float64 {
	switch o {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	default:
		panic(fmt.Sprintf("ast: unknown operator %d", int(o)))
	}
}

// Expr is a node of the expression tree. The set of implementations is closed.
type Expr interface {
	// IsConstant reports whether the subtree contains no Symbol leaf.
	IsConstant() bool
	// ConstantEval folds a constant subtree. ok is false when the subtree
	// references a symbol.
	ConstantEval() (value float64, ok bool)
	// References returns every symbol name in the subtree, left to right,
	// duplicates included.
	References() []string
	String() string

	expr()
}

// Symbol is a reference to a named quantity.
type Symbol struct {
	Name string
}

// Constant is a numeric literal.
type Constant struct {
	Value float64
}

// BinaryOp applies Op to the results of Left and Right.
type BinaryOp struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (*Symbol) expr()   {}
func (*Constant) expr() {}
func (*BinaryOp) expr() {}

func (s *Symbol) IsConstant() bool { return false }

func (s *Symbol) ConstantEval() (float64, bool) { return 0, false }

func (s *Symbol) References() []string { return []string{s.Name} }

func (s *Symbol) String() string { return s.Name }

func (c *Constant) IsConstant() bool { return true }

func (c *Constant) ConstantEval() (float64, bool) { return c.Value, true }

func (c *Constant) References() []string { return nil }

func (c *Constant) String() string { return strconv.FormatFloat(c.Value, 'g', -1, 64) }

func (b *BinaryOp) IsConstant() bool { return b.Left.IsConstant() && b.Right.IsConstant() }

// ConstantEval folds both sides and applies the operator.
func (b *BinaryOp) ConstantEval() (float64, bool) {
	left, ok := b.Left.ConstantEval()
	if !ok {
		return 0, false
	}
	right, ok := b.Right.ConstantEval()
	if !ok {
		return 0, false
	}
	return b.Op.Apply(left, right), true
}

// References concatenates the references of the left and right subtrees.
func (b *BinaryOp) References() []string {
	left := b.Left.References()
	right := b.Right.References()
	refs := make([]string, 0, len(left)+len(right))
	refs = append(refs, left...)
	return append(refs, right...)
}

// String renders the operation fully parenthesised, e.g. "((z + z) - (p / 5))".
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}
