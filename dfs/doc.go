// SPDX-License-Identifier: MIT

// Package dfs implements depth-first analyses on a core.Graph: strongly
// connected components and their condensation into a DAG of super-nodes.
//
// What:
//
//   - StrongComponents: Tarjan's algorithm. Every node belongs to exactly one
//     component; components come out in reverse topological order of the
//     condensed DAG (a component is emitted only after every component it can
//     reach).
//   - Condense: merges each component into one *Component node that carries the
//     original member list, and rebuilds the edges between components. Cycles in
//     the input become single Looped super-nodes; the result is always acyclic.
//
// Why:
//   - Diagnose infeasible recipe networks: a feedback cycle of links is a
//     deadlock candidate.
//   - Tier a recipe dependency graph: a DAG can be peeled layer by layer,
//     a cyclic graph cannot.
//
// Key Types:
//
//   - VertexState: White, Gray, Black (visitation markers)
//   - Component[T]: members of one strongly connected component
//
// Complexity:
//
//   - StrongComponents: Time O(V+E), Memory O(V)
//   - Condense:         Time O(V+E), Memory O(V+E)
//
// Errors:
//
//   - ErrGraphNil  graph pointer is nil
package dfs
