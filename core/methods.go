// SPDX-License-Identifier: MIT

// Package core: Graph method implementations.
//
// Every exported method acquires g.mu (read or write) exactly once; internal
// helpers suffixed with "Locked" assume the caller already holds it.

package core

// AddNode inserts v into the Graph.
// If the node already exists, this is a no-op and false is returned.
// Complexity: O(1) amortized.
func (g *Graph[T]) AddNode(v T) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, added := g.addNodeLocked(v)

	return added
}

// addNodeLocked returns the dense index of v, inserting it when missing.
func (g *Graph[T]) addNodeLocked(v T) (int, bool) {
	if idx, ok := g.index[v]; ok {
		return idx, false
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, v)
	g.succ = append(g.succ, nil)
	g.index[v] = idx

	return idx, true
}

// HasNode reports whether v was added to the graph.
// Complexity: O(1).
func (g *Graph[T]) HasNode(v T) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[v]

	return ok
}

// AddEdge creates a directed edge from → to, adding missing endpoints.
//
// Returns ErrLoopNotAllowed or ErrMultiEdgeNotAllowed according to the
// construction-time policy; on error the graph is left unchanged.
// Complexity: O(1) amortized.
func (g *Graph[T]) AddEdge(from, to T) error {
	// 1) Loop constraint, checked before any mutation
	if from == to && !g.cfg.allowLoops {
		return ErrLoopNotAllowed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// 2) Multi-edge constraint for already known endpoints
	fi, fok := g.index[from]
	ti, tok := g.index[to]
	if fok && tok && !g.cfg.allowMulti && g.edges[edgeKey{fi, ti}] > 0 {
		return ErrMultiEdgeNotAllowed
	}

	// 3) Ensure both endpoints exist (idempotent)
	fi, _ = g.addNodeLocked(from)
	ti, _ = g.addNodeLocked(to)

	// 4) Record the edge; the successor list stays unique
	key := edgeKey{fi, ti}
	if g.edges[key] == 0 {
		g.succ[fi] = append(g.succ[fi], ti)
	}
	g.edges[key]++
	g.edgeCount++

	return nil
}

// HasConnection reports whether at least one edge from → to exists.
// Unknown endpoints simply report false.
// Complexity: O(1).
func (g *Graph[T]) HasConnection(from, to T) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fi, fok := g.index[from]
	ti, tok := g.index[to]
	if !fok || !tok {
		return false
	}

	return g.edges[edgeKey{fi, ti}] > 0
}

// Successors returns the distinct targets of edges leaving v, in the order
// they were first connected.
// Returns ErrNodeNotFound if v is not in the graph.
// Complexity: O(d) where d is the out-degree of v.
func (g *Graph[T]) Successors(v T) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, ok := g.index[v]
	if !ok {
		return nil, ErrNodeNotFound
	}
	out := make([]T, len(g.succ[idx]))
	for i, s := range g.succ[idx] {
		out[i] = g.nodes[s]
	}

	return out, nil
}

// Predecessors returns the distinct sources of edges entering v, in node
// insertion order.
// Returns ErrNodeNotFound if v is not in the graph.
// Complexity: O(V+E).
func (g *Graph[T]) Predecessors(v T) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, ok := g.index[v]
	if !ok {
		return nil, ErrNodeNotFound
	}
	var out []T
	for from, targets := range g.succ {
		for _, to := range targets {
			if to == idx {
				out = append(out, g.nodes[from])
				break
			}
		}
	}

	return out, nil
}

// Nodes returns a copy of all nodes in insertion order.
// Complexity: O(V).
func (g *Graph[T]) Nodes() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]T, len(g.nodes))
	copy(out, g.nodes)

	return out
}

// NodeCount returns the number of nodes.
func (g *Graph[T]) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// EdgeCount returns the number of edges, counting parallel edges separately.
func (g *Graph[T]) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgeCount
}

// Adjacency returns a dense snapshot of the graph: nodes in insertion order
// and, for every node index, the indices of its distinct successors.
// Algorithms that need many passes (SCC, tiering) use it to avoid per-call locking.
// Complexity: O(V+E).
func (g *Graph[T]) Adjacency() ([]T, [][]int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]T, len(g.nodes))
	copy(nodes, g.nodes)
	succ := make([][]int, len(g.succ))
	for i, s := range g.succ {
		succ[i] = append([]int(nil), s...)
	}

	return nodes, succ
}
