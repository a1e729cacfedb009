// Package dag builds the dependency graph of a compiled node list. It is used
// for diagnostics that the solver itself does not need: reporting which free
// inputs block an unresolved node, and detecting cycles that can never
// resolve.
package dag
