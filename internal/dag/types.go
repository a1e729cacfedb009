package dag

import "sync"

// Graph is a collection of vertices and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all vertices in the graph, keyed by symbol.
	nodes map[string]*vertex
}

// vertex is a single symbol in the graph. It is un-exported to enforce
// interaction with the graph via the public API (using symbols).
type vertex struct {
	id string
	// deps holds the vertices this one is computed from (predecessors).
	deps map[string]*vertex
	// dependents holds the vertices computed from this one (successors).
	dependents map[string]*vertex
}
