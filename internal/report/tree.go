package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/equigrid/internal/ast"
	"github.com/specialistvlad/equigrid/internal/compiler"
	"github.com/specialistvlad/equigrid/internal/parser"
)

// ParseDocument is the parse-tree view of one or more systems.
type ParseDocument struct {
	Systems []ParsedSystem `json:"systems" yaml:"systems" cbor:"systems"`
}

// ParsedSystem lists the equations of one system with their trees.
type ParsedSystem struct {
	Name          string           `json:"name" yaml:"name" cbor:"name"`
	FreeVariables []string         `json:"free_variables" yaml:"free_variables" cbor:"free_variables"`
	Equations     []EquationReport `json:"equations" yaml:"equations" cbor:"equations"`
	Error         string           `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

// EquationReport describes one parsed equation.
type EquationReport struct {
	Name       string   `json:"name" yaml:"name" cbor:"name"`
	Expression string   `json:"expression" yaml:"expression" cbor:"expression"`
	References []string `json:"references" yaml:"references" cbor:"references"`
	// Constant holds the folded value when the right-hand side has no symbols.
	Constant *Number  `json:"constant,omitempty" yaml:"constant,omitempty" cbor:"constant,omitempty"`
	Tree     TreeNode `json:"tree" yaml:"tree" cbor:"tree"`
}

// TreeNode is the serialisable form of an expression tree.
type TreeNode struct {
	Type   string    `json:"type" yaml:"type" cbor:"type"`
	Symbol string    `json:"symbol,omitempty" yaml:"symbol,omitempty" cbor:"symbol,omitempty"`
	Value  *Number   `json:"value,omitempty" yaml:"value,omitempty" cbor:"value,omitempty"`
	Op     string    `json:"op,omitempty" yaml:"op,omitempty" cbor:"op,omitempty"`
	Left   *TreeNode `json:"left,omitempty" yaml:"left,omitempty" cbor:"left,omitempty"`
	Right  *TreeNode `json:"right,omitempty" yaml:"right,omitempty" cbor:"right,omitempty"`
}

// Parsed builds the parse-tree view of an equation set.
func Parsed(name string, eqs *parser.EquationSet) ParsedSystem {
	ps := ParsedSystem{
		Name:          name,
		FreeVariables: append([]string{}, compiler.FreeVariables(eqs)...),
	}
	eqs.Each(func(eqName string, expr ast.Expr) {
		er := EquationReport{
			Name:       eqName,
			Expression: expr.String(),
			References: append([]string{}, expr.References()...),
			Tree:       toTree(expr),
		}
		if v, ok := expr.ConstantEval(); ok {
			er.Constant = numberPtr(v)
		}
		ps.Equations = append(ps.Equations, er)
	})
	return ps
}

func toTree(expr ast.Expr) TreeNode {
	switch e := expr.(type) {
	case *ast.Symbol:
		return TreeNode{Type: "symbol", Symbol: e.Name}
	case *ast.Constant:
		return TreeNode{Type: "constant", Value: numberPtr(e.Value)}
	case *ast.BinaryOp:
		left, right := toTree(e.Left), toTree(e.Right)
		return TreeNode{Type: "binary", Op: e.Op.String(), Left: &left, Right: &right}
	default:
		panic(fmt.Sprintf("report: unexpected expression %T", expr))
	}
}

// WriteParsed renders a parse document.
func WriteParsed(w io.Writer, doc *ParseDocument, format Format) error {
	if format != FormatText {
		return Encode(w, doc, format)
	}
	for i, sys := range doc.Systems {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "system %s\n", sys.Name)
		if sys.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", sys.Error)
			continue
		}
		if len(sys.FreeVariables) > 0 {
			fmt.Fprintf(w, "  free: %s\n", strings.Join(sys.FreeVariables, ", "))
		}
		for _, eq := range sys.Equations {
			fmt.Fprintf(w, "  %s = %s\n", eq.Name, eq.Expression)
			writeTree(w, eq.Tree, "    ", "", true)
		}
	}
	return nil
}

// writeTree draws the tree with box-drawing connectors.
func writeTree(w io.Writer, n TreeNode, indent, prefix string, root bool) {
	label := ""
	switch n.Type {
	case "symbol":
		label = n.Symbol
	case "constant":
		label = strconv.FormatFloat(float64(*n.Value), 'g', -1, 64)
	case "binary":
		label = n.Op
	}
	fmt.Fprintf(w, "%s%s%s\n", indent, prefix, label)
	if n.Type != "binary" {
		return
	}

	child := indent
	if !root {
		if prefix == "├─ " {
			child += "│  "
		} else {
			child += "   "
		}
	}
	writeTree(w, *n.Left, child, "├─ ", false)
	writeTree(w, *n.Right, child, "└─ ", false)
}
