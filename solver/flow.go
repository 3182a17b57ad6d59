// SPDX-License-Identifier: MIT

package solver

import (
	"math"
	"sort"

	"github.com/katalvlaran/prodnet/model"
)

// readBack copies the solution into rows and flags links off their target.
func (s *Solver) readBack(p *program) {
	for i, id := range p.rows {
		p.net.Row(id).RecipesPerSecond = p.vars[i].Value()
	}
	for k, id := range p.links {
		link := p.net.Link(id)
		if link.Owner() == model.NoTable || link.Flags.Has(model.LinkRecursiveNotMatched) {
			continue
		}
		residual := p.activity(k) - link.Amount
		if math.Abs(residual) > s.settings.Tolerance*math.Max(1, math.Abs(link.Amount)) {
			link.Flags |= model.LinkNotMatched
			link.NotMatchedFlow = residual
		}
	}
}

// flowEntry accumulates gross production and consumption of one goods.
type flowEntry struct {
	goods      *model.Goods
	prod, cons float64
}

// accumulator keeps entries in first-seen order.
type accumulator struct {
	entries []*flowEntry
	index   map[*model.Goods]*flowEntry
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[*model.Goods]*flowEntry)}
}

func (a *accumulator) entry(g *model.Goods) *flowEntry {
	e, ok := a.index[g]
	if !ok {
		e = &flowEntry{goods: g}
		a.index[g] = e
		a.entries = append(a.entries, e)
	}

	return e
}

// add books a signed net amount.
func (a *accumulator) add(g *model.Goods, amount float64) {
	e := a.entry(g)
	if amount > 0 {
		e.prod += amount
	} else {
		e.cons -= amount
	}
}

// addRow books the flow of one row at its solved throughput.
func (a *accumulator) addRow(row *model.Row) {
	rps := row.RecipesPerSecond
	for _, prod := range row.Recipe.Products {
		a.entry(prod.Goods).prod += prod.PerCycle(row.Parameters.Productivity) * rps
	}
	for _, in := range row.Recipe.Ingredients {
		a.entry(in.Goods).cons += in.Amount * rps
	}
	if usage := row.Parameters.FuelUsagePerRecipe() * rps; row.Fuel != nil && usage > 0 {
		a.entry(row.Fuel).cons += usage
		if spent := row.Fuel.SpentFuel; spent != nil {
			a.entry(spent).prod += usage
		}
	}
}

// take removes g and returns its entry (zero when absent).
func (a *accumulator) take(g *model.Goods) flowEntry {
	e, ok := a.index[g]
	if !ok {
		return flowEntry{goods: g}
	}
	delete(a.index, g)
	for i, x := range a.entries {
		if x == e {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)

			break
		}
	}

	return *e
}

func (a *accumulator) peek(g *model.Goods) flowEntry {
	if e, ok := a.index[g]; ok {
		return *e
	}

	return flowEntry{goods: g}
}

// calculateFlow rebuilds Table.Flow for t and its subgroups. include is the
// row owning t, whose own recipe is booked into t's flow.
func (s *Solver) calculateFlow(net *model.Network, t model.TableID, include model.RowID) {
	tab := net.Table(t)
	acc := newAccumulator()
	if include != model.NoRow {
		acc.addRow(net.Row(include))
	}

	for _, id := range tab.Rows() {
		row := net.Row(id)
		switch {
		case !row.Enabled:
			clearDisabled(net, row)
		case row.Subgroup() != model.NoTable:
			s.calculateFlow(net, row.Subgroup(), id)
			for _, f := range net.Table(row.Subgroup()).Flow {
				acc.add(f.Goods, f.Amount)
			}
		default:
			acc.addRow(row)
		}
	}

	for _, l := range tab.Links() {
		link := net.Link(l)
		var e flowEntry
		if !link.Flags.HasAny(model.LinkNotMatched) {
			e = acc.take(link.Goods)
		} else {
			e = acc.peek(link.Goods)
			if residual := e.prod - e.cons; math.Abs(residual) > s.settings.FlowEpsilon && !tab.IsRoot() {
				s.reportChildResidual(net, tab.Owner(), link.Goods, residual)
			}
		}
		link.LinkFlow = e.prod
	}

	flow := make([]model.Flow, 0, len(acc.entries))
	for _, e := range acc.entries {
		id, ok := net.FindLink(t, e.goods)
		if !ok {
			id = model.NoLink
		}
		flow = append(flow, model.Flow{Goods: e.goods, Amount: e.prod - e.cons, Link: id})
	}
	div := s.settings.FluidNormalization
	sort.SliceStable(flow, func(i, j int) bool {
		return model.SortKey(flow[i].Goods, flow[i].Amount, div) < model.SortKey(flow[j].Goods, flow[j].Amount, div)
	})
	tab.Flow = flow
}

// reportChildResidual marks the ancestor link of g above the owner row and
// the owner row itself.
func (s *Solver) reportChildResidual(net *model.Network, owner model.RowID, g *model.Goods, residual float64) {
	row := net.Row(owner)
	if parent, ok := net.FindLink(row.Owner(), g); ok {
		net.Link(parent).Flags |= model.ChildNotMatched | model.LinkNotMatched
	}
	if residual > 0 {
		row.Parameters.Warnings |= model.OverproductionRequired
	} else {
		row.Parameters.Warnings |= model.DeadlockCandidate
	}
}

// clearDisabled zeroes the computed fields of a disabled row and everything below it.
func clearDisabled(net *model.Network, row *model.Row) {
	row.RecipesPerSecond = 0
	row.Parameters = model.Parameters{}
	row.Links = model.RowLinks{Fuel: model.NoLink, SpentFuel: model.NoLink}
	if row.Subgroup() == model.NoTable {
		return
	}
	sub := net.Table(row.Subgroup())
	sub.Flow = nil
	for _, l := range sub.Links() {
		link := net.Link(l)
		link.Flags = 0
		link.LinkFlow = 0
		link.NotMatchedFlow = 0
		link.Captured = nil
	}
	for _, id := range sub.Rows() {
		clearDisabled(net, net.Row(id))
	}
}
