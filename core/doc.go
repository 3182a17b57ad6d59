// SPDX-License-Identifier: MIT

// Package core provides a small, thread-safe, generic directed multigraph.
//
// The Graph G = (V,E) stores nodes of any comparable type T (IDs, handles,
// pointers) and directed edges between them:
//
//   - Parallel edges between the same endpoints (WithMultiEdges)
//   - Self-loops (WithLoops)
//   - Constant-time connection queries via an edge-multiplicity map:
//     edges[(from,to)] = count
//   - Deterministic iteration: Nodes() and Successors() follow insertion order,
//     since an arbitrary T has no natural ordering.
//   - A single sync.RWMutex guards all state; readers never block each other.
//
// Why a generic graph?
//
//   - Recipe networks are analysed over several node kinds (links, recipes,
//     condensed components). One typed graph avoids stringly-typed IDs and
//     side tables mapping IDs back to values.
//   - Strongly-connected-component merging (package dfs) produces a
//     core.Graph whose nodes are the components themselves.
//
// Configuration Options (GraphOption):
//
//	– WithMultiEdges()
//	    Allows repeated AddEdge(from,to); otherwise a second call returns
//	    ErrMultiEdgeNotAllowed.
//
//	– WithLoops()
//	    Permits self-loops (from == to); otherwise AddEdge(v,v) → ErrLoopNotAllowed.
//
// Core Methods:
//
//	AddNode(v T) bool                   // O(1), idempotent
//	HasNode(v T) bool                   // O(1)
//	AddEdge(from, to T) error           // O(1)†, adds missing endpoints
//	HasConnection(from, to T) bool      // O(1)
//	Successors(v T) ([]T, error)        // O(d), unique, insertion order
//	Predecessors(v T) ([]T, error)      // O(V+E)
//	Nodes() []T                         // O(V), insertion order
//	NodeCount(), EdgeCount() int        // O(1)
//
// Errors:
//
//	ErrNodeNotFound        – missing node
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
//
// † amortized constant time: map insertion plus slice append.
package core
