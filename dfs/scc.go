// SPDX-License-Identifier: MIT

// Package dfs provides Tarjan's strongly-connected-component algorithm.
//
// The recursion depth is bounded by the longest simple path, which for the
// network sizes handled here (hundreds of nodes) is well within Go's growable
// goroutine stacks.
package dfs

import "github.com/katalvlaran/prodnet/core"

// tarjan encapsulates state for a single strongly-connected-component pass.
type tarjan[T comparable] struct {
	nodes []T     // dense index → node
	succ  [][]int // dense index → successor indices
	state []int   // White, Gray or Black per index
	disc  []int   // discovery time per index
	low   []int   // lowest discovery time reachable
	stack []int   // Tarjan stack of open nodes
	clock int     // next discovery time
	out   [][]int // finished components as index lists
}

// StrongComponents returns the strongly connected components of g as lists of
// member nodes, in reverse topological order of the condensed graph.
// Members within a component are in DFS discovery order.
// Returns ErrGraphNil if g is nil.
func StrongComponents[T comparable](g *core.Graph[T]) ([][]T, error) {
	// 1. Validate graph pointer
	if g == nil {
		return nil, ErrGraphNil
	}
	// 2. Run Tarjan over a locked-once snapshot
	t := newTarjan(g)
	t.run()
	// 3. Translate index lists back to node values
	comps := make([][]T, len(t.out))
	for i, idxs := range t.out {
		comps[i] = make([]T, len(idxs))
		for j, idx := range idxs {
			comps[i][j] = t.nodes[idx]
		}
	}

	return comps, nil
}

// newTarjan snapshots g and allocates per-node state.
func newTarjan[T comparable](g *core.Graph[T]) *tarjan[T] {
	nodes, succ := g.Adjacency()
	n := len(nodes)

	return &tarjan[T]{
		nodes: nodes,
		succ:  succ,
		state: make([]int, n), // all vertices start as White (0)
		disc:  make([]int, n),
		low:   make([]int, n),
		stack: make([]int, 0, n),
	}
}

// run drives visit from every unvisited node in insertion order.
func (t *tarjan[T]) run() {
	for v := range t.nodes {
		if t.state[v] == White {
			t.visit(v)
		}
	}
}

// visit performs the recursive Tarjan step for node v.
func (t *tarjan[T]) visit(v int) {
	// 1. Discover v and push it onto the open stack
	t.disc[v] = t.clock
	t.low[v] = t.clock
	t.clock++
	t.state[v] = Gray
	t.stack = append(t.stack, v)

	// 2. Explore successors
	for _, w := range t.succ[v] {
		switch t.state[w] {
		case White:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case Gray:
			// back- or cross-edge into the still open component
			t.low[v] = min(t.low[v], t.disc[w])
		}
	}

	// 3. v is a root: pop its component
	if t.low[v] != t.disc[v] {
		return
	}
	i := len(t.stack) - 1
	for t.stack[i] != v {
		i--
	}
	members := append([]int(nil), t.stack[i:]...) // discovery order
	t.stack = t.stack[:i]
	for _, w := range members {
		t.state[w] = Black
	}
	t.out = append(t.out, members)
}
