// SPDX-License-Identifier: MIT

// Package lp: status values, sentinel errors and functional options.
package lp

import (
	"errors"
	"math"
)

// Status is the outcome of the most recent Solve.
type Status int

const (
	// NotSolved means Solve has not run since the problem was created.
	NotSolved Status = iota
	// Optimal means an optimal solution was found.
	Optimal
	// Feasible means a feasible but possibly sub-optimal solution was found.
	Feasible
	// Infeasible means no point satisfies all bounds and constraints.
	Infeasible
	// Unbounded means the objective decreases without limit.
	Unbounded
	// Abnormal means the backend failed numerically.
	Abnormal
)

// String returns the conventional upper-case status name.
func (s Status) String() string {
	switch s {
	case NotSolved:
		return "NOT_SOLVED"
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case Abnormal:
		return "ABNORMAL"
	default:
		return "UNKNOWN"
	}
}

// Solved reports whether variable values are meaningful (Optimal or Feasible).
func (s Status) Solved() bool { return s == Optimal || s == Feasible }

// Sentinel errors returned by Backend implementations.
var (
	// ErrInfeasible indicates the standard-form program has no feasible point.
	ErrInfeasible = errors.New("lp: problem is infeasible")

	// ErrUnbounded indicates the standard-form objective is unbounded below.
	ErrUnbounded = errors.New("lp: problem is unbounded")

	// ErrNumerical indicates a numeric failure (singular basis, failed linear solve).
	ErrNumerical = errors.New("lp: numerical failure")
)

// Defaults (single source of truth).
const (
	// DefaultTolerance is the feasibility / optimality tolerance.
	DefaultTolerance = 1e-9

	// DefaultSimplexTolerance bounds the maximal reduced cost at optimality.
	DefaultSimplexTolerance = 1e-10
)

// Inf is positive infinity, for readability at call sites: NewVariable(0, lp.Inf, ...).
var Inf = math.Inf(1)

// Option configures a Problem at creation.
type Option func(p *Problem)

// WithBackend replaces the default Simplex backend.
// Passing nil has no effect.
func WithBackend(b Backend) Option {
	return func(p *Problem) {
		if b != nil {
			p.backend = b
		}
	}
}

// WithTolerance sets the feasibility tolerance used during conversion and read-back.
// Panics if tol is not positive (programmer error).
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("lp: WithTolerance(tol<=0)")
	}

	return func(p *Problem) { p.tol = tol }
}
