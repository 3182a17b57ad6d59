// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/core"
	"github.com/katalvlaran/prodnet/dfs"
	"github.com/katalvlaran/prodnet/lp"
	"github.com/katalvlaran/prodnet/model"
)

// slack is a diagnosis variable attached to one link constraint.
type slack struct {
	v    *lp.Variable
	cost float64
}

// diagnose re-solves p with slack variables on deadlock and split links and,
// on success, marks the links whose slack was needed.
func (s *Solver) diagnose(ctx context.Context, p *program) (lp.Status, error) {
	p.problem.ClearObjective()
	for i, c := range p.objCoefs {
		p.problem.SetObjectiveCoefficient(p.vars[i], c)
	}

	deadlocks, splits := p.candidates()
	neg := make([]*slack, len(p.links))
	pos := make([]*slack, len(p.links))
	for _, k := range deadlocks {
		neg[k] = s.addSlack(p, k, "negative-slack.", 1)
	}
	for _, k := range splits {
		pos[k] = s.addSlack(p, k, "positive-slack.", -1)
	}

	st, err := s.run(ctx, p.problem)
	if err != nil || !st.Solved() {
		return st, err
	}

	var marked []*model.Link
	for k, id := range p.links {
		link := p.net.Link(id)
		hit := false
		if sl := neg[k]; sl != nil && !sl.v.AtLowerBound() {
			link.NotMatchedFlow -= sl.cost * sl.v.Value()
			hit = true
		}
		if sl := pos[k]; sl != nil && !sl.v.AtLowerBound() {
			link.NotMatchedFlow += sl.cost * sl.v.Value()
			hit = true
		}
		if hit {
			link.Flags |= model.LinkNotMatched | model.LinkRecursiveNotMatched
			marked = append(marked, link)
			s.logger.Warn("link balanced with slack",
				zap.Stringer("goods", link.Goods),
				zap.Float64("residual", link.NotMatchedFlow))
		}
	}

	for _, link := range marked {
		flag := slackWarning(link)
		for r := p.net.Table(link.Owner()).Owner(); r != model.NoRow; r = p.net.Table(p.net.Row(r).Owner()).Owner() {
			p.net.Row(r).Parameters.Warnings |= flag
		}
	}
	for _, id := range p.rows {
		row := p.net.Row(id)
		for _, l := range rowLinkList(row.Links) {
			if link := p.net.Link(l); link.Flags.Has(model.LinkRecursiveNotMatched) {
				row.Parameters.Warnings |= slackWarning(link)
			}
		}
	}

	return st, nil
}

func slackWarning(l *model.Link) model.WarningFlags {
	if l.NotMatchedFlow > 0 {
		return model.OverproductionRequired
	}

	return model.DeadlockCandidate
}

// addSlack adds a non-negative variable with coefficient sign·|cost| to the
// constraint at link position k; a zero-cost goods uses 1.
func (s *Solver) addSlack(p *program, k int, prefix string, sign float64) *slack {
	link := p.net.Link(p.links[k])
	cost := math.Abs(s.cost(link.Goods))
	if cost == 0 {
		cost = 1
	}
	v := p.problem.NewVariable(0, lp.Inf, prefix+link.Goods.Name)
	p.cons[k].SetCoefficient(v, sign*cost)
	p.problem.SetObjectiveCoefficient(v, s.settings.SlackPenalty)

	return &slack{v: v, cost: cost}
}

// candidates returns link positions of deadlocks (feedback-cycle breakers)
// and splits (links fed by several producers or sharing a producer with
// other links). Free links are excluded. Both lists are in link order.
func (p *program) candidates() (deadlocks, splits []int) {
	g := core.NewGraph[model.LinkID](core.WithMultiEdges())
	for k, id := range p.links {
		if !p.free[k] {
			g.AddNode(id)
		}
	}

	producers := make(map[model.LinkID]int)
	isSplit := make(map[model.LinkID]bool)
	for _, rid := range p.rows {
		rl := p.net.Row(rid).Links
		inputs := p.constrained(append(append([]model.LinkID(nil), rl.Ingredients...), rl.Fuel))
		outputs := p.constrained(append(append([]model.LinkID(nil), rl.Products...), rl.SpentFuel))
		for _, src := range inputs {
			for _, dst := range outputs {
				if src != dst {
					_ = g.AddEdge(src, dst)
				}
			}
		}
		for _, dst := range outputs {
			producers[dst]++
			if len(outputs) > 1 {
				isSplit[dst] = true
			}
		}
	}

	isDeadlock := make(map[model.LinkID]bool)
	comps, err := dfs.StrongComponents(g)
	if err != nil {
		panic("solver: " + err.Error())
	}
	for _, list := range comps {
		if len(list) < 2 {
			continue
		}
		isDeadlock[list[len(list)-1]] = true
		for i := 0; i < len(list)-1; i++ {
			for j := i + 2; j < len(list); j++ {
				if g.HasConnection(list[i], list[j]) {
					isDeadlock[list[i]] = true

					break
				}
			}
		}
	}

	for k, id := range p.links {
		if isDeadlock[id] {
			deadlocks = append(deadlocks, k)
		}
		if isSplit[id] || producers[id] > 1 {
			splits = append(splits, k)
		}
	}

	return deadlocks, splits
}

// constrained filters ids down to distinct non-free links of the program.
func (p *program) constrained(ids []model.LinkID) []model.LinkID {
	out := ids[:0]
	for _, id := range ids {
		if id == model.NoLink {
			continue
		}
		k, ok := p.linkIndex[id]
		if !ok || p.free[k] || containsLink(out, id) {
			continue
		}
		out = append(out, id)
	}

	return out
}

func containsLink(ids []model.LinkID, id model.LinkID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}

	return false
}

// rowLinkList flattens the resolved links of a row, skipping NoLink.
func rowLinkList(rl model.RowLinks) []model.LinkID {
	var out []model.LinkID
	for _, group := range [][]model.LinkID{rl.Products, rl.Ingredients, {rl.Fuel, rl.SpentFuel}} {
		for _, id := range group {
			if id != model.NoLink {
				out = append(out, id)
			}
		}
	}

	return out
}
