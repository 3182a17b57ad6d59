// SPDX-License-Identifier: MIT

// Package lp is a minimal linear-programming layer for network-balance problems.
//
// What:
//
//   - Problem: a named container of Variables, Constraints and a linear
//     objective that is always minimised.
//   - Variable: continuous, with a finite lower bound and an optional finite
//     upper bound. Setting lower == upper pins the variable.
//   - Constraint: a linear row with bounds [lower, upper]; either side may be
//     infinite, lower == upper expresses an equality.
//   - Backend: the numeric engine. The default Simplex backend delegates to
//     gonum's optimize/convex/lp.Simplex.
//
// How:
//
//	Solve converts the bounded model into standard form
//
//	    minimize  cᵀ x'   s.t.  A x' = b,  x' ≥ 0
//
//	by shifting every variable by its lower bound, adding surplus/slack columns
//	for one- and two-sided rows and for finite upper bounds, dropping linearly
//	dependent rows (an inconsistent dependent row proves infeasibility) and
//	dropping columns that no remaining row references.
//
// Why:
//   - Recipe networks routinely produce redundant balance rows and unused
//     variables; both are rejected by a textbook standard-form simplex.
//   - Infeasibility is an expected outcome here, so it is reported as a Status,
//     never as an error.
//
// Status values:
//
//	NotSolved, Optimal, Feasible, Infeasible, Unbounded, Abnormal
//
// Errors:
//
//	ErrInfeasible, ErrUnbounded, ErrNumerical – returned by Backends and mapped
//	onto Status by Problem.Solve; Solve itself only returns context errors.
//
// Complexity: dominated by the backend; the conversion is O(m²·n) for the
// dependent-row elimination on an m×n standard-form matrix.
package lp
