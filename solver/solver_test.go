// SPDX-License-Identifier: MIT

package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/prodnet/lp"
	"github.com/katalvlaran/prodnet/model"
	"github.com/katalvlaran/prodnet/solver"
)

const eps = 1e-6

// SolverSuite builds small factories from scratch for every test.
type SolverSuite struct {
	suite.Suite
	ctx  context.Context
	net  *model.Network
	root model.TableID

	ore, plate, gear, coal *model.Goods
	furnace                *model.Entity
}

func (s *SolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.net = model.NewNetwork()
	s.root = s.net.NewTable()
	s.ore = &model.Goods{Name: "iron-ore", Cost: 1}
	s.plate = &model.Goods{Name: "iron-plate", Cost: 2}
	s.gear = &model.Goods{Name: "gear", Cost: 5}
	s.coal = &model.Goods{Name: "coal", Cost: 1, FuelValue: 4}
	s.furnace = &model.Entity{Name: "furnace", CraftingSpeed: 1}
}

func (s *SolverSuite) solver() *solver.Solver {
	return solver.New(solver.WithLogger(zaptest.NewLogger(s.T())))
}

func (s *SolverSuite) recipe(name string, time float64, in []model.Ingredient, out ...model.Product) *model.Recipe {
	return &model.Recipe{Name: name, Time: time, Ingredients: in, Products: out}
}

func (s *SolverSuite) row(t model.TableID, r *model.Recipe) *model.Row {
	id, err := s.net.AddRow(t, r)
	s.Require().NoError(err)
	row := s.net.Row(id)
	row.Entity = s.furnace

	return row
}

func (s *SolverSuite) link(t model.TableID, g *model.Goods, amount float64, alg model.LinkAlgorithm) *model.Link {
	id, err := s.net.AddLink(t, g, amount, alg)
	s.Require().NoError(err)

	return s.net.Link(id)
}

func (s *SolverSuite) solve() string {
	msg, err := s.solver().Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)

	return msg
}

func (s *SolverSuite) smelting() *model.Recipe {
	return s.recipe("iron-plate", 1,
		[]model.Ingredient{{Goods: s.ore, Amount: 1}},
		model.Product{Goods: s.plate, Amount: 1})
}

func (s *SolverSuite) TestIronPlate() {
	row := s.row(s.root, s.smelting())
	link := s.link(s.root, s.plate, 2, model.Match)

	s.Empty(s.solve())

	s.InDelta(2, row.RecipesPerSecond, eps)
	s.False(link.Flags.HasAny(model.LinkNotMatched))
	s.True(link.Flags.Has(model.HasProductionAndConsumption))
	s.InDelta(2, link.LinkFlow, eps)
	s.Equal([]model.RowID{row.ID()}, link.Captured)
	s.Equal([]model.LinkID{link.ID()}, row.Links.Products)
	s.Equal([]model.LinkID{model.NoLink}, row.Links.Ingredients)

	flow := s.net.Table(s.root).Flow
	s.Require().Len(flow, 1)
	s.Equal(s.ore, flow[0].Goods)
	s.InDelta(-2, flow[0].Amount, eps)
	s.Equal(model.NoLink, flow[0].Link)
}

func (s *SolverSuite) TestBurnerFuelIsLinked() {
	burner := &model.Entity{Name: "stone-furnace", CraftingSpeed: 1, EnergyUsage: 0.09, BurnsFuel: true}
	smelt := s.row(s.root, s.smelting())
	smelt.Entity = burner
	smelt.Fuel = s.coal
	mine := s.row(s.root, s.recipe("coal", 1, nil, model.Product{Goods: s.coal, Amount: 1}))
	mine.Entity = nil
	coalLink := s.link(s.root, s.coal, 0, model.Match)
	s.link(s.root, s.plate, 1, model.Match)

	s.Empty(s.solve())

	s.InDelta(1, smelt.RecipesPerSecond, eps)
	s.InDelta(0.09/4, mine.RecipesPerSecond, eps)
	s.Equal(coalLink.ID(), smelt.Links.Fuel)
	s.Equal(model.NoLink, smelt.Links.SpentFuel)
	s.True(mine.Parameters.Warnings.Has(model.EntityNotSpecified))
	s.ElementsMatch([]model.RowID{smelt.ID(), mine.ID()}, coalLink.Captured)
}

func (s *SolverSuite) TestAllowOverProduction() {
	row := s.row(s.root, s.smelting())
	link := s.link(s.root, s.plate, 2, model.AllowOverProduction)

	s.Empty(s.solve())
	s.InDelta(2, row.RecipesPerSecond, eps)
	s.False(link.Flags.HasAny(model.LinkNotMatched))
}

func (s *SolverSuite) TestTwoProducersWithoutConsumer() {
	x := &model.Goods{Name: "x", Cost: 1}
	a := s.row(s.root, s.recipe("a", 1, nil, model.Product{Goods: x, Amount: 1}))
	b := s.row(s.root, s.recipe("b", 1, nil, model.Product{Goods: x, Amount: 2}))
	link := s.link(s.root, x, -5, model.Match)

	s.Empty(s.solve())

	s.True(link.Flags.Has(model.LinkNotMatched))
	s.True(link.Flags.Has(model.HasProduction))
	s.False(link.Flags.Has(model.HasConsumption))
	s.InDelta(5, link.NotMatchedFlow, eps)
	s.Zero(a.RecipesPerSecond)
	s.Zero(b.RecipesPerSecond)
	s.Equal([]model.LinkID{link.ID()}, s.net.Table(s.root).Links(), "link kept: it has a production side")
}

func (s *SolverSuite) TestTwoProducersWithAllowOverProduction() {
	x := &model.Goods{Name: "x", Cost: 1}
	a := s.row(s.root, s.recipe("a", 1, nil, model.Product{Goods: x, Amount: 1}))
	b := s.row(s.root, s.recipe("b", 1, nil, model.Product{Goods: x, Amount: 2}))
	link := s.link(s.root, x, -5, model.AllowOverProduction)

	core, logs := observer.New(zapcore.InfoLevel)
	msg, err := solver.New(solver.WithLogger(zap.New(core))).Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Empty(msg)
	s.Zero(logs.FilterMessage("primary solve failed, searching for deadlocks").Len())

	// Without a consumer the link is freed whatever its mode.
	s.True(link.Flags.Has(model.LinkNotMatched))
	s.False(link.Flags.Has(model.LinkRecursiveNotMatched))
	s.InDelta(5, link.NotMatchedFlow, eps)
	s.Zero(a.RecipesPerSecond)
	s.Zero(b.RecipesPerSecond)
}

func (s *SolverSuite) TestAllowOverProductionAbsorbsSurplus() {
	x := &model.Goods{Name: "x", Cost: 1}
	a := s.row(s.root, s.recipe("a", 1, nil, model.Product{Goods: x, Amount: 1}))
	a.FixedBuildings = 3
	b := s.row(s.root, s.recipe("b", 1, nil, model.Product{Goods: x, Amount: 1}))
	b.FixedBuildings = 2
	c := s.row(s.root, s.recipe("c", 1, []model.Ingredient{{Goods: x, Amount: 1}}))
	c.FixedBuildings = 1
	link := s.link(s.root, x, 0, model.AllowOverProduction)

	core, logs := observer.New(zapcore.InfoLevel)
	msg, err := solver.New(solver.WithLogger(zap.New(core))).Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Empty(msg)
	s.Zero(logs.FilterMessage("primary solve failed, searching for deadlocks").Len())

	s.True(link.Flags.Has(model.HasProductionAndConsumption))
	s.False(link.Flags.Has(model.LinkRecursiveNotMatched))
	s.InDelta(4, link.NotMatchedFlow, eps)
	for _, r := range []*model.Row{a, b, c} {
		s.Zero(r.Parameters.Warnings & (model.OverproductionRequired | model.DeadlockCandidate))
	}
}

func (s *SolverSuite) TestSplitNeedsOverproduction() {
	x := &model.Goods{Name: "x", Cost: 1}
	a := s.row(s.root, s.recipe("a", 1, nil, model.Product{Goods: x, Amount: 1}))
	a.FixedBuildings = 3
	b := s.row(s.root, s.recipe("b", 1, nil, model.Product{Goods: x, Amount: 1}))
	b.FixedBuildings = 2
	c := s.row(s.root, s.recipe("c", 1, []model.Ingredient{{Goods: x, Amount: 1}}))
	c.FixedBuildings = 1
	link := s.link(s.root, x, 0, model.Match)

	core, logs := observer.New(zapcore.InfoLevel)
	msg, err := solver.New(solver.WithLogger(zap.New(core))).Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Empty(msg)
	s.Equal(1, logs.FilterMessage("primary solve failed, searching for deadlocks").Len())
	s.Equal(1, logs.FilterMessage("link balanced with slack").Len())

	s.True(link.Flags.Has(model.LinkNotMatched | model.LinkRecursiveNotMatched))
	s.InDelta(4, link.NotMatchedFlow, eps)
	for _, r := range []*model.Row{a, b, c} {
		s.True(r.Parameters.Warnings.Has(model.OverproductionRequired), r.Recipe.Name)
		s.False(r.Parameters.Warnings.Has(model.DeadlockCandidate), r.Recipe.Name)
	}
	s.InDelta(3, a.RecipesPerSecond, eps)
	s.InDelta(2, b.RecipesPerSecond, eps)
	s.InDelta(1, c.RecipesPerSecond, eps)
}

func (s *SolverSuite) TestLinkModeBounds() {
	tests := []struct {
		alg        model.LinkAlgorithm
		mined      float64
		notMatched bool
	}{
		{model.Match, 2, false},
		{model.AllowOverProduction, 2, false},
		{model.AllowOverConsumption, 0, true},
	}
	for _, tc := range tests {
		s.Run(tc.alg.String(), func() {
			s.SetupTest()
			smelt := s.row(s.root, s.smelting())
			smelt.FixedBuildings = 2
			mine := s.row(s.root, s.recipe("mine", 1, nil, model.Product{Goods: s.ore, Amount: 1}))
			link := s.link(s.root, s.ore, 0, tc.alg)

			s.Empty(s.solve())
			s.InDelta(tc.mined, mine.RecipesPerSecond, eps)
			s.InDelta(2, smelt.RecipesPerSecond, eps)
			s.Equal(tc.notMatched, link.Flags.Has(model.LinkNotMatched))
			if tc.notMatched {
				s.InDelta(-2, link.NotMatchedFlow, eps)
			}
		})
	}
}

func (s *SolverSuite) TestUnusedLinkIsPruned() {
	s.row(s.root, s.smelting())
	s.link(s.root, s.plate, 1, model.Match)
	unused := s.link(s.root, s.gear, 0, model.Match)

	s.Empty(s.solve())
	s.Equal(model.NoTable, unused.Owner())
	s.Len(s.net.Table(s.root).Links(), 1)
}

func (s *SolverSuite) TestLinkReferencedByDisabledRowIsKept() {
	s.row(s.root, s.smelting())
	s.link(s.root, s.plate, 1, model.Match)
	gears := s.row(s.root, s.recipe("gear", 0.5,
		[]model.Ingredient{{Goods: s.plate, Amount: 2}},
		model.Product{Goods: s.gear, Amount: 1}))
	gears.Enabled = false
	gearLink := s.link(s.root, s.gear, 0, model.Match)

	s.Empty(s.solve())
	s.Equal(s.root, gearLink.Owner())
	s.True(gearLink.Flags.Has(model.LinkNotMatched))
}

func (s *SolverSuite) TestThreeRecipeCycleIsLocalised() {
	a := &model.Goods{Name: "a", Cost: 1}
	b := &model.Goods{Name: "b", Cost: 1}
	c := &model.Goods{Name: "c", Cost: 1}
	rows := []*model.Row{
		s.row(s.root, s.recipe("A", 1, []model.Ingredient{{Goods: b, Amount: 1}}, model.Product{Goods: a, Amount: 1})),
		s.row(s.root, s.recipe("B", 1, []model.Ingredient{{Goods: c, Amount: 1}}, model.Product{Goods: b, Amount: 1})),
		s.row(s.root, s.recipe("C", 1, []model.Ingredient{{Goods: a, Amount: 1}}, model.Product{Goods: c, Amount: 1})),
	}
	links := []*model.Link{
		s.link(s.root, a, 1, model.Match),
		s.link(s.root, b, 0, model.Match),
		s.link(s.root, c, 0, model.Match),
	}

	core, logs := observer.New(zapcore.InfoLevel)
	msg, err := solver.New(solver.WithLogger(zap.New(core))).Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Empty(msg)
	s.Equal(1, logs.FilterMessage("primary solve failed, searching for deadlocks").Len())

	localised := 0
	for _, l := range links {
		if l.Flags.Has(model.LinkRecursiveNotMatched) {
			localised++
			s.True(l.Flags.Has(model.LinkNotMatched))
			s.Less(l.NotMatchedFlow, 0.0)
		}
	}
	s.Positive(localised)

	deadlock := 0
	for _, r := range rows {
		if r.Parameters.Warnings.Has(model.DeadlockCandidate) {
			deadlock++
		}
		s.False(r.Parameters.Warnings.Has(model.OverproductionRequired))
	}
	s.Positive(deadlock)
	s.InDelta(1, rows[0].RecipesPerSecond, eps)
}

func (s *SolverSuite) TestUnsolvableKeepsStaleThroughput() {
	row := s.row(s.root, s.smelting())
	row.FixedBuildings = 1
	row.RecipesPerSecond = 7
	s.link(s.root, s.plate, 2, model.Match)

	s.Equal(solver.MsgUnsolvable, s.solve())
	s.InDelta(7, row.RecipesPerSecond, 0)
}

func (s *SolverSuite) TestNumericFailure() {
	row := s.row(s.root, s.smelting())
	row.RecipesPerSecond = 3
	s.link(s.root, s.plate, 2, model.Match)

	msg, err := solver.New(solver.WithBackend(brokenBackend{})).Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Equal(solver.MsgNumerical, msg)
	s.InDelta(3, row.RecipesPerSecond, 0)
}

func (s *SolverSuite) TestFixedBuildings() {
	row := s.row(s.root, s.smelting())
	row.FixedBuildings = 3
	s.link(s.root, s.plate, 3, model.Match)

	s.Empty(s.solve())
	s.InDelta(3, row.RecipesPerSecond, eps)
	s.InDelta(3, row.BuildingCount(), eps)
}

func (s *SolverSuite) TestBuiltCountExceeded() {
	row := s.row(s.root, s.smelting())
	row.BuiltBuildings = 1
	s.link(s.root, s.plate, 2, model.Match)

	s.Equal(solver.MsgBuiltCountExceeded, s.solve())
	s.True(row.Parameters.Warnings.Has(model.ExceedsBuiltCount))
	s.InDelta(2, row.RecipesPerSecond, eps, "throughput is still applied")

	row.BuiltBuildings = 2
	s.Empty(s.solve())
	s.False(row.Parameters.Warnings.Has(model.ExceedsBuiltCount))
}

// nested builds root: gears row (subgroup: smelting row, plate link), gear link.
func (s *SolverSuite) nested() (gears, smelt *model.Row, sub model.TableID) {
	gears = s.row(s.root, s.recipe("gear", 0.5,
		[]model.Ingredient{{Goods: s.plate, Amount: 2}},
		model.Product{Goods: s.gear, Amount: 1}))
	sub, err := s.net.AddSubgroup(gears.ID())
	s.Require().NoError(err)
	smelt = s.row(sub, s.smelting())
	s.link(sub, s.plate, 0, model.Match)
	s.link(s.root, s.gear, 1, model.Match)

	return gears, smelt, sub
}

func (s *SolverSuite) TestFlowThroughNesting() {
	gears, smelt, sub := s.nested()

	s.Empty(s.solve())
	s.InDelta(1, gears.RecipesPerSecond, eps)
	s.InDelta(2, smelt.RecipesPerSecond, eps)

	subFlow := s.net.Table(sub).Flow
	s.Require().Len(subFlow, 2)
	s.Equal(s.ore, subFlow[0].Goods)
	s.InDelta(-2, subFlow[0].Amount, eps)
	s.Equal(s.gear, subFlow[1].Goods)
	s.InDelta(1, subFlow[1].Amount, eps)

	rootFlow := s.net.Table(s.root).Flow
	s.Require().Len(rootFlow, 1)
	s.Equal(s.ore, rootFlow[0].Goods)
	s.InDelta(-2*gears.RecipesPerSecond, rootFlow[0].Amount, eps)
}

func (s *SolverSuite) TestBalanceInvariant() {
	s.nested()
	s.Empty(s.solve())

	for _, id := range s.net.ActiveLinks(s.root) {
		link := s.net.Link(id)
		s.Require().False(link.Flags.HasAny(model.LinkNotMatched), link.Goods.Name)
		var net float64
		for _, rid := range link.Captured {
			row := s.net.Row(rid)
			for _, p := range row.Recipe.Products {
				if p.Goods == link.Goods {
					net += p.PerCycle(row.Parameters.Productivity) * row.RecipesPerSecond
				}
			}
			for _, in := range row.Recipe.Ingredients {
				if in.Goods == link.Goods {
					net -= in.Amount * row.RecipesPerSecond
				}
			}
		}
		s.InDelta(link.Amount, net, eps, link.Goods.Name)
	}
}

func (s *SolverSuite) TestDisabledRowsContributeNothing() {
	s.row(s.root, s.smelting())
	s.link(s.root, s.plate, 2, model.Match)

	off := s.row(s.root, s.smelting())
	off.Enabled = false
	off.RecipesPerSecond = 5
	sub, err := s.net.AddSubgroup(off.ID())
	s.Require().NoError(err)
	inner := s.row(sub, s.recipe("mine", 1, nil, model.Product{Goods: s.ore, Amount: 1}))
	inner.RecipesPerSecond = 4
	innerLink := s.link(sub, s.ore, 0, model.Match)
	innerLink.Flags = model.HasProduction
	innerLink.LinkFlow = 9

	s.Empty(s.solve())

	s.Zero(off.RecipesPerSecond)
	s.Zero(inner.RecipesPerSecond)
	s.Zero(innerLink.Flags)
	s.Zero(innerLink.LinkFlow)
	s.Nil(s.net.Table(sub).Flow)
	flow := s.net.Table(s.root).Flow
	s.Require().Len(flow, 1)
	s.InDelta(-2, flow[0].Amount, eps)
}

func (s *SolverSuite) TestIdempotent() {
	gears, smelt, sub := s.nested()
	s.Empty(s.solve())
	first := []float64{gears.RecipesPerSecond, smelt.RecipesPerSecond}
	rootFlow := append([]model.Flow(nil), s.net.Table(s.root).Flow...)
	subFlow := append([]model.Flow(nil), s.net.Table(sub).Flow...)

	s.Empty(s.solve())
	s.Equal(first, []float64{gears.RecipesPerSecond, smelt.RecipesPerSecond})
	s.Equal(rootFlow, s.net.Table(s.root).Flow)
	s.Equal(subFlow, s.net.Table(sub).Flow)
}

func (s *SolverSuite) TestChildResidualMarksParentLink() {
	gears, _, sub := s.nested()
	pipe := &model.Goods{Name: "pipe", Cost: 3}
	s.row(s.root, s.recipe("pipe", 0.5, []model.Ingredient{{Goods: s.plate, Amount: 1}}, model.Product{Goods: pipe, Amount: 1}))
	parentPlate := s.link(s.root, s.plate, 0, model.Match)

	// The subgroup is forced to make one plate per second more than it uses.
	inner := s.net.Link(s.net.Table(sub).Links()[0])
	inner.Algorithm = model.AllowOverProduction
	extra := s.row(sub, s.recipe("scrap", 1, nil, model.Product{Goods: s.plate, Amount: 1}))
	extra.FixedBuildings = 3

	s.Empty(s.solve())

	s.True(inner.Flags.Has(model.LinkNotMatched))
	s.InDelta(1, inner.NotMatchedFlow, eps)
	s.True(parentPlate.Flags.Has(model.ChildNotMatched | model.LinkNotMatched))
	s.True(gears.Parameters.Warnings.Has(model.OverproductionRequired))
}

func (s *SolverSuite) TestSuspendHookWrapsEverySolve() {
	s.row(s.root, s.smelting())
	s.link(s.root, s.plate, 2, model.Match)

	calls := 0
	sv := solver.New(solver.WithSuspend(func(run func()) {
		calls++
		run()
	}))
	_, err := sv.Solve(s.ctx, s.net, s.root)
	s.Require().NoError(err)
	s.Equal(1, calls)
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

type brokenBackend struct{}

func (brokenBackend) Solve([]float64, *mat.Dense, []float64) ([]float64, error) {
	return nil, lp.ErrNumerical
}

func TestSolveArguments(t *testing.T) {
	ctx := context.Background()
	sv := solver.New()

	_, err := sv.Solve(ctx, nil, 0)
	require.ErrorIs(t, err, solver.ErrNilNetwork)

	net := model.NewNetwork()
	_, err = sv.Solve(ctx, net, 3)
	require.ErrorIs(t, err, model.ErrUnknownTable)

	root := net.NewTable()
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sv.Solve(cancelled, net, root)
	require.ErrorIs(t, err, context.Canceled)

	msg, err := sv.Solve(ctx, net, root)
	require.NoError(t, err)
	require.Empty(t, msg)
	require.Empty(t, net.Table(root).Flow)
}
