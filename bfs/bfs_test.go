// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prodnet/bfs"
	"github.com/katalvlaran/prodnet/core"
)

func graph(t *testing.T, edges ...[2]string) *core.Graph[string] {
	t.Helper()
	g := core.NewGraph[string](core.WithLoops())
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}

	return g
}

// TestBFS_Errors verifies that invalid inputs and options are rejected.
func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS[string](nil, "A")
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	g := graph(t, [2]string{"A", "B"})
	_, err = bfs.BFS(g, "missing")
	assert.ErrorIs(t, err, bfs.ErrStartVertexNotFound)

	_, err = bfs.BFS(g, "A", bfs.WithMaxDepth[string](-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)
}

// TestBFS_CycleAndDepths covers a directed cycle with a chord.
func TestBFS_CycleAndDepths(t *testing.T) {
	g := graph(t,
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"},
		[2]string{"D", "A"}, [2]string{"A", "D"})

	res, err := bfs.BFS(g, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D", "C"}, res.Order)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "D": 1, "C": 2}, res.Depth)

	path, err := res.PathTo("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, path)
}

// TestBFS_DirectedOnly checks that predecessors are never reached.
func TestBFS_DirectedOnly(t *testing.T) {
	g := graph(t, [2]string{"X", "Y"}, [2]string{"P", "X"})

	res, err := bfs.BFS(g, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, res.Order)

	_, err = res.PathTo("P")
	assert.Error(t, err)
}

func TestBFS_SelfLoop(t *testing.T) {
	g := graph(t, [2]string{"A", "A"}, [2]string{"A", "B"})

	res, err := bfs.BFS(g, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Order)
}

func TestBFS_MaxDepth(t *testing.T) {
	g := graph(t, [2]string{"A", "B"}, [2]string{"B", "C"})

	tests := []struct {
		depth int
		want  []string
	}{
		{1, []string{"A", "B"}},
		{0, []string{"A", "B", "C"}},
		{10, []string{"A", "B", "C"}},
	}
	for _, tc := range tests {
		res, err := bfs.BFS(g, "A", bfs.WithMaxDepth[string](tc.depth))
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Order, "MaxDepth=%d", tc.depth)
	}
}

func TestBFS_Cancelled(t *testing.T) {
	g := graph(t, [2]string{"A", "B"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bfs.BFS(g, "A", bfs.WithContext[string](ctx))
	assert.ErrorIs(t, err, context.Canceled)
}
