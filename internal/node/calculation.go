package node

import (
	"fmt"
	"strings"
)

// CalcKind is the operation a Dependent node performs.
type CalcKind int

const (
	Ref CalcKind = iota
	Add
	Sub
	Mul
	Div
)

func (k CalcKind) String() string {
	switch k {
	case Ref:
		return "ref"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	default:
		panic(fmt.Sprintf("node: unknown calculation %d", int(k)))
	}
}

// Calculation describes how a Dependent node derives its value.
type Calculation struct {
	Kind     CalcKind
	Operands []string
}

// NewRef copies the value of target.
func NewRef(target string) Calculation {
	return Calculation{Kind: Ref, Operands: []string{target}}
}

// NewBinary folds op over operands from left to right. At least one operand
// is required.
func NewBinary(op CalcKind, operands ...string) Calculation {
	if op == Ref {
		panic("node: NewBinary called with Ref")
	}
	if len(operands) == 0 {
		panic("node: binary calculation needs at least one operand")
	}
	ops := make([]string, len(operands))
	copy(ops, operands)
	return Calculation{Kind: op, Operands: ops}
}

// Target returns the referenced symbol of a Ref calculation.
func (c Calculation) Target() string {
	if c.Kind != Ref {
		panic(fmt.Sprintf("node: Target called on %s calculation", c.Kind))
	}
	return c.Operands[0]
}

// Evaluate computes the calculation once every operand is present in b.
func (c Calculation) Evaluate(b Bindings) (float64, bool) {
	values := make([]float64, len(c.Operands))
	for i, sym := range c.Operands {
		v, ok := b[sym]
		if !ok {
			return 0, false
		}
		values[i] = v
	}
	if c.Kind == Ref {
		return values[0], true
	}
	return Fold(c.Kind, values...), true
}

// Fold applies op starting from the first value, then each remaining value in
// turn. IEEE-754 semantics apply, so division by zero yields Inf or NaN.
func Fold(op CalcKind, values ...float64) float64 {
	acc := values[0]
	for _, v := range values[1:] {
		switch op {
		case Add:
			acc += v
		case Sub:
			acc -= v
		case Mul:
			acc *= v
		case Div:
			acc /= v
		default:
			panic(fmt.Sprintf("node: cannot fold %s", op))
		}
	}
	return acc
}

func (c Calculation) String() string {
	return c.Kind.String() + "(" + strings.Join(c.Operands, ", ") + ")"
}
