// Package engine runs the equation pipeline for one system: parse the
// equation text, compile it into solver nodes, then solve with the system's
// bindings. It is the layer between the loaded workspace model and the pure
// parser, compiler and solver packages, and the only one of them that logs.
package engine
