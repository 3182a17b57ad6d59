// SPDX-License-Identifier: MIT

// Package solver balances a recipe network by linear programming.
//
// Solve compiles every active row of a table tree into one LP variable
// (cycles per second) and every active link into one constraint on net
// production, minimises the summed recipe base cost and writes the result
// back into the model's computed fields:
//
//	Row.Parameters, Row.RecipesPerSecond, Row.Links
//	Link.Flags, Link.LinkFlow, Link.NotMatchedFlow, Link.Captured
//	Table.Flow
//
// When the primary program is infeasible, Solve builds a directed graph of
// links (ingredient link → product link per row), finds feedback cycles with
// dfs.StrongComponents and re-solves with slack variables on the cycle
// breakers ("deadlocks") and on links fed by several producers ("splits").
// Active slacks localise the contradiction: their links are flagged
// LinkNotMatched|LinkRecursiveNotMatched and the rows around them get
// DeadlockCandidate or OverproductionRequired.
//
// Expected outcomes are never Go errors. Solve returns a user-facing message
// for a model that cannot be solved even with slack, for numeric failure and
// for exceeded built-building counts; the error result is reserved for
// invalid arguments and context cancellation.
package solver
