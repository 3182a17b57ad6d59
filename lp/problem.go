// SPDX-License-Identifier: MIT

package lp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Variable is a continuous decision variable with bounds [lower, upper].
type Variable struct {
	p     *Problem
	index int
	name  string
	lower float64
	upper float64
	value float64
}

// Name returns the diagnostic name given at creation.
func (v *Variable) Name() string { return v.name }

// Index returns the dense position of v inside its Problem.
func (v *Variable) Index() int { return v.index }

// Bounds returns the current [lower, upper] bounds.
func (v *Variable) Bounds() (lower, upper float64) { return v.lower, v.upper }

// SetBounds replaces the bounds of v. Panics on invalid bounds, see NewVariable.
func (v *Variable) SetBounds(lower, upper float64) {
	checkVariableBounds(lower, upper)
	v.lower, v.upper = lower, upper
}

// Value returns the value from the most recent successful Solve, or 0.
func (v *Variable) Value() float64 { return v.value }

// AtLowerBound reports whether the solution sits on the lower bound within tolerance.
func (v *Variable) AtLowerBound() bool {
	return v.value-v.lower <= v.p.tol*math.Max(1, math.Abs(v.lower))
}

// Constraint is a linear row lower ≤ Σ coef·var ≤ upper.
type Constraint struct {
	p     *Problem
	index int
	name  string
	lower float64
	upper float64
	coef  map[int]float64
	order []int // variable indices in first-set order
}

// Name returns the diagnostic name given at creation.
func (c *Constraint) Name() string { return c.name }

// Index returns the dense position of c inside its Problem.
func (c *Constraint) Index() int { return c.index }

// Bounds returns the current [lower, upper] bounds.
func (c *Constraint) Bounds() (lower, upper float64) { return c.lower, c.upper }

// SetBounds replaces the bounds of c. Either side may be infinite.
// Panics on NaN bounds.
func (c *Constraint) SetBounds(lower, upper float64) {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		panic("lp: constraint bound is NaN")
	}
	c.lower, c.upper = lower, upper
}

// SetCoefficient sets the coefficient of v in c, replacing any previous value.
// Panics if v belongs to a different Problem.
func (c *Constraint) SetCoefficient(v *Variable, coef float64) {
	c.p.own(v)
	if _, ok := c.coef[v.index]; !ok {
		c.order = append(c.order, v.index)
	}
	c.coef[v.index] = coef
}

// Coefficient returns the coefficient of v in c (0 when unset).
func (c *Constraint) Coefficient(v *Variable) float64 {
	c.p.own(v)

	return c.coef[v.index]
}

// Problem is a minimisation LP in bounded form.
// A Problem is not safe for concurrent use.
type Problem struct {
	name      string
	vars      []*Variable
	cons      []*Constraint
	obj       []float64
	status    Status
	objective float64
	backend   Backend
	tol       float64
}

// NewProblem creates an empty Problem.
func NewProblem(name string, opts ...Option) *Problem {
	p := &Problem{
		name:    name,
		backend: Simplex{Tol: DefaultSimplexTolerance},
		tol:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the diagnostic name of the problem.
func (p *Problem) Name() string { return p.name }

// NewVariable adds a variable with bounds [lower, upper].
// Panics if lower is not finite, if upper is NaN or -Inf, or if upper < lower.
func (p *Problem) NewVariable(lower, upper float64, name string) *Variable {
	checkVariableBounds(lower, upper)
	v := &Variable{p: p, index: len(p.vars), name: name, lower: lower, upper: upper}
	p.vars = append(p.vars, v)
	p.obj = append(p.obj, 0)

	return v
}

// NewConstraint adds an empty row with bounds [lower, upper].
func (p *Problem) NewConstraint(lower, upper float64, name string) *Constraint {
	c := &Constraint{p: p, index: len(p.cons), name: name, coef: make(map[int]float64)}
	c.SetBounds(lower, upper)
	p.cons = append(p.cons, c)

	return c
}

// SetObjectiveCoefficient sets the cost of v in the minimised objective.
func (p *Problem) SetObjectiveCoefficient(v *Variable, coef float64) {
	p.own(v)
	p.obj[v.index] = coef
}

// ObjectiveCoefficient returns the cost of v.
func (p *Problem) ObjectiveCoefficient(v *Variable) float64 {
	p.own(v)

	return p.obj[v.index]
}

// ClearObjective zeroes every objective coefficient.
func (p *Problem) ClearObjective() {
	for i := range p.obj {
		p.obj[i] = 0
	}
}

// Variables returns the variables in creation order. The slice is shared.
func (p *Problem) Variables() []*Variable { return p.vars }

// Constraints returns the constraints in creation order. The slice is shared.
func (p *Problem) Constraints() []*Constraint { return p.cons }

// Status returns the outcome of the most recent Solve.
func (p *Problem) Status() Status { return p.status }

// ObjectiveValue returns the objective at the current solution.
func (p *Problem) ObjectiveValue() float64 { return p.objective }

// Solve runs the backend and stores the solution on success.
// The returned error is non-nil only when ctx ends first; the LP outcome
// itself is always reported through Status.
func (p *Problem) Solve(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return p.status, err
	}

	type result struct {
		status Status
		x      []float64
	}
	done := make(chan result, 1)
	go func() {
		st, x := p.solve()
		done <- result{st, x}
	}()

	select {
	case <-ctx.Done():
		return p.status, ctx.Err()
	case r := <-done:
		p.status = r.status
		if r.status.Solved() {
			p.objective = 0
			for j, v := range p.vars {
				v.value = r.x[j]
				p.objective += p.obj[j] * r.x[j]
			}
		}

		return r.status, nil
	}
}

// solve performs the conversion and backend call; it never mutates p.
func (p *Problem) solve() (st Status, x []float64) {
	defer func() {
		if r := recover(); r != nil {
			st, x = Abnormal, nil
		}
	}()

	sf, ok := p.standardForm()
	if !ok {
		return Infeasible, nil
	}

	xs, err := sf.solve(p.backend)
	switch {
	case err == nil:
		return Optimal, sf.recover(xs)
	case errors.Is(err, ErrInfeasible):
		return Infeasible, nil
	case errors.Is(err, ErrUnbounded):
		return Unbounded, nil
	default:
		return Abnormal, nil
	}
}

func (p *Problem) own(v *Variable) {
	if v == nil || v.p != p {
		panic(fmt.Sprintf("lp: variable %v does not belong to problem %q", v, p.name))
	}
}

func checkVariableBounds(lower, upper float64) {
	switch {
	case math.IsNaN(lower) || math.IsInf(lower, 0):
		panic("lp: variable lower bound must be finite")
	case math.IsNaN(upper) || math.IsInf(upper, -1):
		panic("lp: variable upper bound must be finite or +Inf")
	case upper < lower:
		panic("lp: variable upper bound below lower bound")
	}
}
