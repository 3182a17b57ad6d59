// SPDX-License-Identifier: MIT

package lp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndependentRows(t *testing.T) {
	a := [][]float64{
		{1, 1, 0},
		{0, 1, 1},
		{1, 2, 1}, // row0 + row1
		{0, 0, 0},
		{2, 0, 1},
	}
	b := []float64{1, 2, 3, 0, 4}

	keep, ok := independentRows(a, b, DefaultTolerance)
	require.True(t, ok)
	require.Equal(t, []int{0, 1, 4}, keep)

	b[2] = 3.5
	_, ok = independentRows(a, b, DefaultTolerance)
	require.False(t, ok)

	b[2] = 3
	b[3] = 1
	_, ok = independentRows(a, b, DefaultTolerance)
	require.False(t, ok)
}

func TestStandardFormLayout(t *testing.T) {
	p := NewProblem("layout")
	x := p.NewVariable(1, 5, "x")
	y := p.NewVariable(2, 2, "y")
	c := p.NewConstraint(0, Inf, "c")
	c.SetCoefficient(x, 1)
	c.SetCoefficient(y, -1)

	sf, ok := p.standardForm()
	require.True(t, ok)
	// x' , upper slack of x, surplus of c
	require.Equal(t, 3, sf.ncols)
	require.Equal(t, []int{0, -1}, sf.colOf)
	require.Equal(t, [][]float64{{1, 1, 0}, {1, 0, -1}}, sf.a)
	require.Equal(t, []float64{4, 1}, sf.b)
	require.Equal(t, []float64{1.5, 2}, sf.recover([]float64{0.5, 3.5, 0}))
}
