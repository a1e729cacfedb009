// Package compiler lowers an equation set into the flat, single-assignment
// node list consumed by the solver.
//
// Every equation name and every referenced symbol ends up with exactly one
// node. Intermediate results get generated symbols (`const-N`, `ref-NAME-N`,
// `math-N`, with N in base 16) that can never collide with user symbols,
// since those consist of letters only.
package compiler
