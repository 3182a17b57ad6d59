// SPDX-License-Identifier: MIT

package lp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// standardForm is the equality / non-negativity rendition of a Problem.
// Structural columns come first, slack and surplus columns after them.
type standardForm struct {
	a     [][]float64
	b     []float64
	c     []float64
	ncols int
	colOf []int // variable index -> column, -1 for pinned variables
	lower []float64
	tol   float64
}

type sparseRow struct {
	idx []int
	val []float64
	rhs float64
}

// standardForm converts p. The second result is false when a constraint
// has contradictory bounds, which proves infeasibility without a solve.
func (p *Problem) standardForm() (*standardForm, bool) {
	sf := &standardForm{
		colOf: make([]int, len(p.vars)),
		lower: make([]float64, len(p.vars)),
		tol:   p.tol,
	}
	for j, v := range p.vars {
		sf.lower[j] = v.lower
		sf.colOf[j] = -1
		if v.upper != v.lower {
			sf.colOf[j] = sf.ncols
			sf.ncols++
		}
	}
	slack := func() int {
		k := sf.ncols
		sf.ncols++

		return k
	}

	var rows []sparseRow
	for j, v := range p.vars {
		if col := sf.colOf[j]; col >= 0 && !math.IsInf(v.upper, 1) {
			rows = append(rows, sparseRow{
				idx: []int{col, slack()},
				val: []float64{1, 1},
				rhs: v.upper - v.lower,
			})
		}
	}

	for _, c := range p.cons {
		lo, hi := c.lower, c.upper
		if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
			continue
		}
		if math.IsInf(lo, 1) || math.IsInf(hi, -1) || lo-hi > p.tol*math.Max(1, math.Abs(lo)) {
			return nil, false
		}

		var row sparseRow
		var shift float64
		for _, j := range c.order {
			a := c.coef[j]
			if a == 0 {
				continue
			}
			shift += a * p.vars[j].lower
			if col := sf.colOf[j]; col >= 0 {
				row.idx = append(row.idx, col)
				row.val = append(row.val, a)
			}
		}

		switch {
		case !math.IsInf(lo, -1) && !math.IsInf(hi, 1) && hi-lo <= p.tol*math.Max(1, math.Abs(lo)):
			row.rhs = lo - shift
			rows = append(rows, row)
		case math.IsInf(hi, 1):
			row.idx = append(row.idx, slack())
			row.val = append(row.val, -1)
			row.rhs = lo - shift
			rows = append(rows, row)
		case math.IsInf(lo, -1):
			row.idx = append(row.idx, slack())
			row.val = append(row.val, 1)
			row.rhs = hi - shift
			rows = append(rows, row)
		default:
			s := slack()
			row.idx = append(row.idx, s)
			row.val = append(row.val, -1)
			row.rhs = lo - shift
			rows = append(rows, row, sparseRow{
				idx: []int{s, slack()},
				val: []float64{1, 1},
				rhs: hi - lo,
			})
		}
	}

	sf.a = make([][]float64, len(rows))
	sf.b = make([]float64, len(rows))
	for i, r := range rows {
		dense := make([]float64, sf.ncols)
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for k, col := range r.idx {
			dense[col] += sign * r.val[k]
		}
		sf.a[i] = dense
		sf.b[i] = sign * r.rhs
	}

	sf.c = make([]float64, sf.ncols)
	for j, col := range sf.colOf {
		if col >= 0 {
			sf.c[col] = p.obj[j]
		}
	}

	return sf, true
}

// solve reduces the system and hands it to the backend.
// It returns values for every standard-form column.
func (sf *standardForm) solve(be Backend) ([]float64, error) {
	keep, ok := independentRows(sf.a, sf.b, sf.tol)
	if !ok {
		return nil, ErrInfeasible
	}

	used := make([]bool, sf.ncols)
	for _, i := range keep {
		for col, a := range sf.a[i] {
			if a != 0 {
				used[col] = true
			}
		}
	}
	var cols []int
	for col, u := range used {
		switch {
		case u:
			cols = append(cols, col)
		case sf.c[col] < 0:
			return nil, ErrUnbounded
		}
	}

	x := make([]float64, sf.ncols)
	if len(keep) == 0 {
		return x, nil
	}

	a := mat.NewDense(len(keep), len(cols), nil)
	b := make([]float64, len(keep))
	c := make([]float64, len(cols))
	for r, i := range keep {
		for k, col := range cols {
			a.Set(r, k, sf.a[i][col])
		}
		b[r] = sf.b[i]
	}
	for k, col := range cols {
		c[k] = sf.c[col]
	}

	xr, err := be.Solve(c, a, b)
	if err != nil {
		return nil, err
	}
	for k, col := range cols {
		x[col] = math.Max(0, xr[k])
	}

	return x, nil
}

// recover maps standard-form column values back onto the original variables.
func (sf *standardForm) recover(xs []float64) []float64 {
	x := make([]float64, len(sf.colOf))
	for j, col := range sf.colOf {
		x[j] = sf.lower[j]
		if col >= 0 {
			x[j] += xs[col]
		}
	}

	return x
}

// independentRows selects a maximal linearly independent subset of the rows
// of a by forward elimination. It reports false when a dependent row
// disagrees with the combination of its predecessors on the right-hand side.
func independentRows(a [][]float64, b []float64, tol float64) ([]int, bool) {
	type pivotRow struct {
		vec []float64
		rhs float64
		col int
	}
	var basis []pivotRow
	var keep []int

	for i, row := range a {
		scale := math.Abs(b[i])
		for _, v := range row {
			scale = math.Max(scale, math.Abs(v))
		}
		r := append([]float64(nil), row...)
		rhs := b[i]

		for _, p := range basis {
			f := r[p.col] / p.vec[p.col]
			if f == 0 {
				continue
			}
			for k := range r {
				r[k] -= f * p.vec[k]
			}
			r[p.col] = 0
			rhs -= f * p.rhs
		}

		col, best := -1, 0.0
		for k, v := range r {
			if math.Abs(v) > best {
				col, best = k, math.Abs(v)
			}
		}
		if col < 0 || best <= tol*math.Max(1, scale) {
			if math.Abs(rhs) > tol*math.Max(1, scale) {
				return nil, false
			}

			continue
		}
		basis = append(basis, pivotRow{vec: r, rhs: rhs, col: col})
		keep = append(keep, i)
	}

	return keep, true
}
