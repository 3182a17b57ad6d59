// SPDX-License-Identifier: MIT

// Package tier orders recipes into dependency-respecting layers.
//
// BuildGraph links every recipe to the recipes producing its ingredients
// (consumer → producer). Compute condenses that graph with dfs.Condense so
// every cycle becomes one node, then peels tiers:
//
//  1. the first remaining node, in condensed insertion order, whose
//     producers are all peeled; a collapsed cycle goes in as a whole, or
//  2. failing that, everything left (a forced flush, logged at Warn).
//
// The first tier therefore holds a raw producer and every recipe appears in
// exactly one tier. Compute terminates after at most one pass per node.
package tier

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/bfs"
	"github.com/katalvlaran/prodnet/core"
	"github.com/katalvlaran/prodnet/dfs"
	"github.com/katalvlaran/prodnet/model"
)

// Tier is one layer of the schedule.
type Tier struct {
	Recipes    []*model.Recipe
	Upstream   []*model.Recipe // producers in other tiers this tier consumes from
	Downstream []*model.Recipe // consumers in other tiers fed by this tier
	Looped     bool            // a collapsed cycle
	Forced     bool            // a flush of everything left
}

// Option configures Compute.
type Option func(c *options)

type options struct {
	logger *zap.Logger
	limit  int
}

// WithLogger sets the logger used for forced flushes.
func WithLogger(l *zap.Logger) Option {
	return func(c *options) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTierLimit caps the number of tiers; the last allowed tier receives
// every remaining recipe. Panics if n < 1.
func WithTierLimit(n int) Option {
	if n < 1 {
		panic("tier: WithTierLimit(n<1)")
	}

	return func(c *options) { c.limit = n }
}

// BuildGraph returns the dependency graph of recipes: an edge r → p for
// every ingredient of r that p produces. Self-loops are kept.
func BuildGraph(recipes []*model.Recipe) *core.Graph[*model.Recipe] {
	g := core.NewGraph[*model.Recipe](core.WithLoops(), core.WithMultiEdges())
	producers := make(map[*model.Goods][]*model.Recipe)
	for _, r := range recipes {
		g.AddNode(r)
		for _, p := range r.Products {
			producers[p.Goods] = append(producers[p.Goods], r)
		}
	}
	for _, r := range recipes {
		for _, in := range r.Ingredients {
			for _, p := range producers[in.Goods] {
				if !g.HasConnection(r, p) {
					_ = g.AddEdge(r, p)
				}
			}
		}
	}

	return g
}

// Recipes collects the recipes of the active rows of a table tree, once each.
func Recipes(net *model.Network, t model.TableID) []*model.Recipe {
	seen := make(map[*model.Recipe]bool)
	var out []*model.Recipe
	for _, id := range net.ActiveRows(t) {
		if r := net.Row(id).Recipe; !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	return out
}

type component = dfs.Component[*model.Recipe]

// Compute peels g into tiers.
func Compute(g *core.Graph[*model.Recipe], opts ...Option) ([]Tier, error) {
	cfg := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dag, owner, err := dfs.Condense(g)
	if err != nil {
		return nil, err
	}

	nodes := dag.Nodes()
	remaining := make(map[*component]bool, len(nodes))
	for _, c := range nodes {
		remaining[c] = true
	}
	ready := func(c *component) bool {
		succ, _ := dag.Successors(c)
		for _, s := range succ {
			if remaining[s] {
				return false
			}
		}

		return true
	}

	var tiers []Tier
	for len(remaining) > 0 {
		var next *component
		for _, c := range nodes {
			if remaining[c] && ready(c) {
				next = c

				break
			}
		}

		reason := ""
		switch {
		case next == nil:
			reason = "dependency deadlock"
		case cfg.limit > 0 && len(tiers) == cfg.limit-1 && len(remaining) > 1:
			reason = "tier limit reached"
		}

		var cur Tier
		take := []*component{next}
		if reason != "" {
			take = take[:0]
			for _, c := range nodes {
				if remaining[c] {
					take = append(take, c)
				}
			}
			cur.Forced = true
			cfg.logger.Warn("flushing remaining recipes into final tier",
				zap.String("reason", reason),
				zap.Int("tier", len(tiers)),
				zap.Int("components", len(take)))
		} else {
			cur.Looped = next.Looped
		}

		for _, c := range take {
			delete(remaining, c)
			cur.Recipes = append(cur.Recipes, c.Members...)
		}
		tiers = append(tiers, cur)
	}

	annotate(g, owner, tiers)

	return tiers, nil
}

// annotate fills Upstream and Downstream from the edges crossing tiers.
func annotate(g *core.Graph[*model.Recipe], owner map[*model.Recipe]*component, tiers []Tier) {
	tierOf := make(map[*component]int, len(owner))
	for i, t := range tiers {
		for _, r := range t.Recipes {
			tierOf[owner[r]] = i
		}
	}

	up := make([]map[*model.Recipe]bool, len(tiers))
	down := make([]map[*model.Recipe]bool, len(tiers))
	for i := range tiers {
		up[i] = make(map[*model.Recipe]bool)
		down[i] = make(map[*model.Recipe]bool)
	}
	for _, r := range g.Nodes() {
		producers, _ := g.Successors(r)
		for _, p := range producers {
			tr, tp := tierOf[owner[r]], tierOf[owner[p]]
			if tr == tp {
				continue
			}
			if !up[tr][p] {
				up[tr][p] = true
				tiers[tr].Upstream = append(tiers[tr].Upstream, p)
			}
			if !down[tp][r] {
				down[tp][r] = true
				tiers[tp].Downstream = append(tiers[tp].Downstream, r)
			}
		}
	}
}

// Step is one recipe of a supply chain and its distance, in production
// steps, from the recipe the chain was requested for.
type Step struct {
	Recipe   *model.Recipe
	Distance int
	Path     []*model.Recipe // shortest dependency path from the requested recipe
}

// SupplyChain lists every recipe r transitively depends on in g, nearest
// first. r itself is excluded unless it feeds itself through a cycle, in
// which case it comes last with distance 0.
// maxDepth > 0 limits the distance; 0 means unlimited.
func SupplyChain(g *core.Graph[*model.Recipe], r *model.Recipe, maxDepth int) ([]Step, error) {
	res, err := bfs.BFS(g, r, bfs.WithMaxDepth[*model.Recipe](maxDepth))
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(res.Order))
	for _, p := range res.Order[1:] {
		path, err := res.PathTo(p)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Recipe: p, Distance: res.Depth[p], Path: path})
	}

	// r is on a loop when one of its consumers was reached from it.
	consumers, err := g.Predecessors(r)
	if err != nil {
		return nil, err
	}
	for _, c := range consumers {
		if _, reached := res.Depth[c]; reached {
			steps = append(steps, Step{Recipe: r, Distance: 0, Path: []*model.Recipe{r}})

			break
		}
	}

	return steps, nil
}
