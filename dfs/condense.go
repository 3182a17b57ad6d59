// SPDX-License-Identifier: MIT

// Package dfs: condensation of a graph into its component DAG.
package dfs

import (
	"fmt"

	"github.com/katalvlaran/prodnet/core"
)

// Condense merges every strongly connected component of g into a single node.
//
// It returns:
//   - merged : a new graph whose nodes are *Component[T]; an edge A → B exists
//     when some member of A has an edge to some member of B (A ≠ B).
//     Nodes are inserted in the order of their first member in g.
//   - owner  : maps every original node to the component holding it.
//
// The merged graph is acyclic by construction.
// Complexity: O(V+E).
func Condense[T comparable](g *core.Graph[T]) (*core.Graph[*Component[T]], map[T]*Component[T], error) {
	if g == nil {
		return nil, nil, ErrGraphNil
	}

	// 1) Tarjan over a single snapshot; comp[v] = component index of node v
	t := newTarjan(g)
	t.run()
	comp := make([]int, len(t.nodes))
	for ci, idxs := range t.out {
		for _, v := range idxs {
			comp[v] = ci
		}
	}

	// 2) Build Component values; a self-loop makes a single member Looped
	comps := make([]*Component[T], len(t.out))
	for ci, idxs := range t.out {
		c := &Component[T]{Members: make([]T, len(idxs)), Looped: len(idxs) > 1}
		for j, v := range idxs {
			c.Members[j] = t.nodes[v]
			if !c.Looped && containsIndex(t.succ[v], v) {
				c.Looped = true
			}
		}
		comps[ci] = c
	}

	// 3) Insert merged nodes by first appearance of any member in g
	merged := core.NewGraph[*Component[T]]()
	owner := make(map[T]*Component[T], len(t.nodes))
	for v, node := range t.nodes {
		c := comps[comp[v]]
		owner[node] = c
		merged.AddNode(c)
	}

	// 4) Rebuild inter-component edges once per pair
	for v := range t.nodes {
		for _, w := range t.succ[v] {
			a, b := comps[comp[v]], comps[comp[w]]
			if a == b || merged.HasConnection(a, b) {
				continue
			}
			if err := merged.AddEdge(a, b); err != nil {
				return nil, nil, fmt.Errorf("dfs: Condense: %w", err)
			}
		}
	}

	return merged, owner, nil
}

// containsIndex reports whether s contains v.
func containsIndex(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}

	return false
}
