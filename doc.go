// SPDX-License-Identifier: MIT

// Package prodnet solves production networks: nested tables of recipe rows
// whose goods are balanced through links.
//
// The solver turns a table tree into a linear program (one variable per
// enabled row, one constraint per link), minimizes recipe cost and writes
// throughput, link flow and warnings back into the model. When the program
// is infeasible it relaxes the links that sit on production loops with
// penalized slack and reports the loops as deadlock or overproduction
// candidates instead of failing silently.
//
// Layout:
//
//	core/     generic directed multigraph
//	dfs/      strongly connected components and condensation
//	bfs/      breadth-first reachability (supply chains)
//	lp/       LP model on top of gonum's simplex
//	model/    goods, recipes, rows, links and tables
//	params/   per-row recipe parameters (speed, productivity, fuel)
//	config/   solver settings loaded from YAML
//	solver/   compile, solve, diagnose and flow aggregation
//	tier/     recipe tiers and supply chains over the dependency graph
//	page/     background solving with version tracking
//	catalog/  document loader (YAML/JSON, schema-checked, optional zstd)
//	cmd/prodsolve  command-line front end
package prodnet
