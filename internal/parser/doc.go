// Package parser turns equation text into expression trees.
//
// A block holds one equation per line in the form `name = expression`. The
// grammar is a small recursive-descent grammar with the usual precedence:
//
//	equation := SYMBOL "=" expr
//	expr     := term (("+"|"-") term)*
//	term     := factor (("*"|"/") factor)*
//	factor   := NUMBER | SYMBOL | "(" expr ")"
//
// Block parsing is atomic: the first malformed line fails the whole block.
package parser
