// Package solver resolves a compiled node list by fixed-point iteration.
//
// Each round scans every node and binds whatever has become computable. A
// value bound early in a round is visible to later nodes in the same round.
// Iteration stops at the first round without progress or after MaxRounds.
// An incomplete result means the caller has not supplied enough inputs yet.
package solver
