// SPDX-License-Identifier: MIT

// Package bfs implements breadth-first search over a directed core.Graph.
//
// What:
//
//   - BFS walks successors level by level from a start node and records the
//     visit order, the distance of every reached node and its BFS-tree parent.
//   - PathTo rebuilds the shortest edge path to any reached node.
//
// Why:
//   - Supply chains: on a recipe graph (consumer → producer) the nodes reached
//     from a recipe are exactly the recipes it transitively depends on, and
//     the depth is how many production steps upstream they sit.
//
// Options:
//
//   - WithContext: cancellation, checked once per dequeued node
//   - WithMaxDepth: stop expanding past a depth (0 = unlimited)
//
// Complexity:
//
//   - Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil             graph pointer is nil
//   - ErrStartVertexNotFound  start node not in the graph
//   - ErrOptionViolation      invalid option (e.g. negative depth)
package bfs
