// Package node defines the vertices of the solver graph.
//
// A compiled system is a flat list of Nodes. Every node owns one symbol and is
// Free (waiting for an externally supplied value), Bound (holding a value), or
// Dependent (computable from other symbols through a Calculation). Every
// operand named by a Calculation is the symbol of another node in the same
// list.
package node
