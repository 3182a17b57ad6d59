// SPDX-License-Identifier: MIT

package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

// Backend solves a standard-form program:
//
//	minimize cᵀx  s.t.  A·x = b,  x ≥ 0
//
// A has full row rank and no all-zero column when Solve is called.
// Implementations return ErrInfeasible or ErrUnbounded (possibly wrapped)
// for those outcomes and any other error for numerical failures.
type Backend interface {
	Solve(c []float64, a *mat.Dense, b []float64) ([]float64, error)
}

// Simplex is the default Backend, built on gonum's revised simplex.
type Simplex struct {
	// Tol bounds the reduced cost accepted as optimal.
	Tol float64
}

// Solve implements Backend.
func (s Simplex) Solve(c []float64, a *mat.Dense, b []float64) ([]float64, error) {
	m, n := a.Dims()
	if m == n {
		return solveSquare(a, b, s.Tol)
	}

	_, x, err := gonumlp.Simplex(c, a, b, s.Tol, nil)
	switch {
	case err == nil:
		return x, nil
	case errors.Is(err, gonumlp.ErrInfeasible):
		return nil, ErrInfeasible
	case errors.Is(err, gonumlp.ErrUnbounded):
		return nil, ErrUnbounded
	default:
		return nil, fmt.Errorf("%w: %v", ErrNumerical, err)
	}
}

// solveSquare handles the exactly determined case, tolerating round-off
// just below zero that a strict sign check would report as infeasible.
func solveSquare(a *mat.Dense, b []float64, tol float64) ([]float64, error) {
	n := len(b)
	x := mat.NewVecDense(n, nil)
	if err := x.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), b...))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNumerical, err)
	}

	out := make([]float64, n)
	for i := range out {
		v := x.AtVec(i)
		if v < 0 {
			if v < -1e3*tol*max(1, absMax(b)) {
				return nil, ErrInfeasible
			}
			v = 0
		}
		out[i] = v
	}

	return out, nil
}

func absMax(v []float64) float64 {
	var m float64
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		m = max(m, x)
	}

	return m
}
