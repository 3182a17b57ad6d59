// SPDX-License-Identifier: MIT

// Package core defines the generic Graph type, its options and sentinel errors.
//
// All Graph methods take an internal sync.RWMutex, so a graph may be shared
// between goroutines; the graph never calls back into user code while locked.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a node that was never added.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted when multi-edges are disabled.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(c *graphConfig)

// graphConfig holds construction-time policy flags shared by every Graph[T].
type graphConfig struct {
	allowMulti bool // allow parallel edges
	allowLoops bool // allow self-loops
}

// WithMultiEdges permits parallel edges between the same nodes.
func WithMultiEdges() GraphOption {
	return func(c *graphConfig) { c.allowMulti = true }
}

// WithLoops permits self-loops (edges from a node to itself).
func WithLoops() GraphOption {
	return func(c *graphConfig) { c.allowLoops = true }
}

// edgeKey addresses the (from,to) bucket by dense node indices.
type edgeKey struct {
	from, to int
}

// Graph is a directed multigraph over node values of type T.
//
// Nodes are kept in insertion order and addressed internally by a dense index,
// so traversal algorithms can use slices instead of maps for their per-node state.
type Graph[T comparable] struct {
	mu sync.RWMutex // guards everything below

	cfg graphConfig

	// Storage
	nodes []T             // index → node value, insertion order
	index map[T]int       // node value → index
	succ  [][]int         // index → unique successor indices, insertion order
	edges map[edgeKey]int // (from,to) → multiplicity

	edgeCount int // total edges counting multiplicity
}

// NewGraph creates an empty directed Graph with the given options.
// By default, the graph rejects self-loops and parallel edges.
// Complexity: O(1)
func NewGraph[T comparable](opts ...GraphOption) *Graph[T] {
	g := &Graph[T]{
		index: make(map[T]int),
		edges: make(map[edgeKey]int),
	}
	for _, opt := range opts {
		opt(&g.cfg)
	}

	return g
}
