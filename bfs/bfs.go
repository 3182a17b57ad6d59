// SPDX-License-Identifier: MIT

package bfs

import (
	"context"

	"github.com/katalvlaran/prodnet/core"
)

type queueItem[T comparable] struct {
	v     T
	depth int
}

// walker encapsulates mutable BFS state.
type walker[T comparable] struct {
	graph *core.Graph[T]
	opts  Options[T]
	ctx   context.Context
	queue []queueItem[T]
	res   *Result[T]
}

// BFS runs breadth-first search on g from start along successor edges.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, or ctx.Err() on cancellation.
func BFS[T comparable](g *core.Graph[T], start T, opts ...Option[T]) (*Result[T], error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions[T]()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasNode(start) {
		return nil, ErrStartVertexNotFound
	}

	n := g.NodeCount()
	w := &walker[T]{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem[T], 0, n),
		res: &Result[T]{
			Order:  make([]T, 0, n),
			Depth:  make(map[T]int, n),
			Parent: make(map[T]T, n),
		},
	}
	w.res.Depth[start] = 0
	w.queue = append(w.queue, queueItem[T]{v: start})

	return w.res, w.loop()
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker[T]) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.v)
		if w.opts.MaxDepth > 0 && item.depth >= w.opts.MaxDepth {
			continue
		}

		succ, err := w.graph.Successors(item.v)
		if err != nil {
			return err
		}
		for _, nbr := range succ {
			if _, seen := w.res.Depth[nbr]; seen {
				continue
			}
			w.res.Depth[nbr] = item.depth + 1
			w.res.Parent[nbr] = item.v
			w.queue = append(w.queue, queueItem[T]{v: nbr, depth: item.depth + 1})
		}
	}

	return nil
}
