// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/lp"
	"github.com/katalvlaran/prodnet/model"
)

// program is one compiled table tree. Slices indexed by row position are
// parallel to rows; slices indexed by link position are parallel to links.
type program struct {
	net     *model.Network
	problem *lp.Problem

	rows     []model.RowID
	vars     []*lp.Variable
	objCoefs []float64 // goods cost of each row's output, used by diagnosis

	links     []model.LinkID
	cons      []*lp.Constraint
	terms     []map[int]float64 // link position → row position → coefficient
	termOrder [][]int           // row positions per link, first-added order
	free      []bool            // constraint widened to (-inf, +inf)
	linkIndex map[model.LinkID]int
}

// linkBounds maps a link mode onto bounds of its net-production constraint.
func linkBounds(l *model.Link) (lower, upper float64) {
	switch l.Algorithm {
	case model.AllowOverProduction:
		return l.Amount, math.Inf(1)
	case model.AllowOverConsumption:
		return math.Inf(-1), l.Amount
	default:
		return l.Amount, l.Amount
	}
}

func (s *Solver) compile(net *model.Network, table model.TableID) *program {
	p := &program{
		net:       net,
		problem:   lp.NewProblem(fmt.Sprintf("table-%d", table), lp.WithBackend(s.backend)),
		rows:      net.ActiveRows(table),
		links:     net.ActiveLinks(table),
		linkIndex: make(map[model.LinkID]int),
	}

	// 1) one variable per active row
	p.vars = make([]*lp.Variable, len(p.rows))
	p.objCoefs = make([]float64, len(p.rows))
	for i, id := range p.rows {
		row := net.Row(id)
		row.Parameters = s.params.Compute(row.Recipe, row.Entity, row.Fuel, row.Modules)
		v := p.problem.NewVariable(0, lp.Inf, row.Recipe.Name)
		if row.FixedBuildings > 0 && row.Parameters.RecipeTime > 0 {
			fixed := row.FixedBuildings / row.Parameters.RecipeTime
			v.SetBounds(fixed, fixed)
		}
		p.vars[i] = v
	}

	// 2) one constraint per active link, flags seeded from the target amount
	p.cons = make([]*lp.Constraint, len(p.links))
	p.terms = make([]map[int]float64, len(p.links))
	p.termOrder = make([][]int, len(p.links))
	p.free = make([]bool, len(p.links))
	for k, id := range p.links {
		link := net.Link(id)
		link.Flags = 0
		switch {
		case link.Amount > 0:
			link.Flags |= model.HasConsumption
		case link.Amount < 0:
			link.Flags |= model.HasProduction
		}
		link.NotMatchedFlow = 0
		link.LinkFlow = 0
		link.Captured = link.Captured[:0]

		lower, upper := linkBounds(link)
		p.cons[k] = p.problem.NewConstraint(lower, upper, link.Goods.Name)
		p.terms[k] = make(map[int]float64)
		p.linkIndex[id] = k
	}

	// 3) coefficients
	for i, id := range p.rows {
		p.wireRow(s, i, id)
	}

	// 4) links lacking a side cannot be balanced; free them
	for k, id := range p.links {
		link := net.Link(id)
		if link.Flags.Has(model.HasProductionAndConsumption) {
			continue
		}
		if !link.Flags.HasAny(model.HasProductionAndConsumption) &&
			!net.HasDisabledRowReferencing(link.Owner(), link.Goods) {
			if err := net.PruneLink(id); err == nil {
				s.logger.Debug("pruned unused link", zap.Stringer("goods", link.Goods))
			}
		}
		link.Flags |= model.LinkNotMatched
		p.cons[k].SetBounds(math.Inf(-1), math.Inf(1))
		p.free[k] = true
	}

	// 5) primary objective
	for i, id := range p.rows {
		p.problem.SetObjectiveCoefficient(p.vars[i], net.Row(id).Recipe.BaseCost())
	}

	return p
}

// wireRow resolves every term of the row at position i to a link and adds
// its coefficient.
func (p *program) wireRow(s *Solver, i int, id model.RowID) {
	row := p.net.Row(id)
	root := p.net.LinkRoot(id)
	recipe := row.Recipe

	links := model.RowLinks{
		Products:    make([]model.LinkID, len(recipe.Products)),
		Ingredients: make([]model.LinkID, len(recipe.Ingredients)),
		Fuel:        model.NoLink,
		SpentFuel:   model.NoLink,
	}

	for j, prod := range recipe.Products {
		links.Products[j] = p.resolve(root, prod.Goods)
		amount := prod.PerCycle(row.Parameters.Productivity)
		if p.addCoef(links.Products[j], i, amount) {
			if c := s.cost(prod.Goods); c > 0 {
				p.objCoefs[i] += amount * c
			}
		}
	}
	for j, in := range recipe.Ingredients {
		links.Ingredients[j] = p.resolve(root, in.Goods)
		p.addCoef(links.Ingredients[j], i, -in.Amount)
	}
	if usage := row.Parameters.FuelUsagePerRecipe(); row.Fuel != nil && usage > 0 {
		links.Fuel = p.resolve(root, row.Fuel)
		p.addCoef(links.Fuel, i, -usage)
		if spent := row.Fuel.SpentFuel; spent != nil {
			links.SpentFuel = p.resolve(root, spent)
			if p.addCoef(links.SpentFuel, i, usage) {
				if c := s.cost(spent); c > 0 {
					p.objCoefs[i] += usage * c
				}
			}
		}
	}

	row.Links = links
}

// resolve finds the link for g visible from root that takes part in this program.
func (p *program) resolve(root model.TableID, g *model.Goods) model.LinkID {
	id, ok := p.net.FindLink(root, g)
	if !ok {
		return model.NoLink
	}
	if _, active := p.linkIndex[id]; !active {
		return model.NoLink
	}

	return id
}

// addCoef accumulates amount into the coefficient of row position i in the
// constraint of link l. It reports false when l is NoLink.
func (p *program) addCoef(l model.LinkID, i int, amount float64) bool {
	if l == model.NoLink {
		return false
	}
	k := p.linkIndex[l]
	link := p.net.Link(l)
	if _, seen := p.terms[k][i]; !seen {
		link.Captured = append(link.Captured, p.rows[i])
		p.termOrder[k] = append(p.termOrder[k], i)
	}
	p.terms[k][i] += amount
	p.cons[k].SetCoefficient(p.vars[i], p.terms[k][i])

	switch {
	case amount > 0:
		link.Flags |= model.HasProduction
	case amount < 0:
		link.Flags |= model.HasConsumption
	}

	return true
}

// activity is the net production of link position k at the current solution.
func (p *program) activity(k int) float64 {
	var sum float64
	for _, i := range p.termOrder[k] {
		sum += p.terms[k][i] * p.vars[i].Value()
	}

	return sum
}
