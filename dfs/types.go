// SPDX-License-Identifier: MIT

// Package dfs defines visitation states, sentinel errors and the Component type.
package dfs

import "errors"

// VertexState represents the DFS visitation state of a vertex.
const (
	White = iota // White: the vertex has not been visited yet.
	Gray         // Gray: the vertex is on the Tarjan stack (its component is open).
	Black        // Black: the vertex has been assigned to a component.
)

// ErrGraphNil is returned when a nil *core.Graph is passed to StrongComponents or Condense.
var ErrGraphNil = errors.New("dfs: graph is nil")

// Component is one strongly connected component of a graph.
//
// Members are listed in DFS discovery order, so the first member is the
// component's root and the last member is the deepest node of the cycle.
type Component[T comparable] struct {
	// Members holds every original node of the component; never empty.
	Members []T

	// Looped is true when the members form a cycle: more than one member,
	// or a single member with a self-loop.
	Looped bool
}
