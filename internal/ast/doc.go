// Package ast defines the expression tree produced by the equation parser.
//
// An Expr is one of three variants: a Symbol leaf, a Constant leaf, or a
// BinaryOp combining two sub-expressions. Trees are immutable once built and
// nodes are always handled by pointer, so the compiler can memoise lowered
// subtrees by node identity.
package ast
