// SPDX-License-Identifier: MIT

// Package params computes the per-row scalars the solver consumes: recipe time,
// productivity multiplier, fuel usage and structural warnings.
//
// Standard is pure given its inputs and its construction-time options, so it
// may be shared between concurrent solves.
package params

import (
	"math"

	"github.com/katalvlaran/prodnet/model"
)

// DefaultTickRate is the game simulation rate; no recipe completes faster than one tick.
const DefaultTickRate = 60.0

// minEffect is the floor of 1+bonus for speed and consumption modifiers.
const minEffect = 0.2

// Option configures a Standard provider.
type Option func(s *Standard)

// WithTickRate sets the simulation rate used for the recipe time floor.
// A zero rate disables the floor. Panics on a negative rate.
func WithTickRate(rate float64) Option {
	if rate < 0 {
		panic("params: WithTickRate(rate<0)")
	}

	return func(s *Standard) { s.tickRate = rate }
}

// WithMiningProductivity sets the global bonus applied to recipes flagged
// model.UsesMiningProductivity. Panics on a negative bonus.
func WithMiningProductivity(bonus float64) Option {
	if bonus < 0 {
		panic("params: WithMiningProductivity(bonus<0)")
	}

	return func(s *Standard) { s.mining = bonus }
}

// Standard is the default parameter provider.
type Standard struct {
	tickRate float64
	mining   float64
}

// NewStandard builds a provider with the given options.
func NewStandard(opts ...Option) *Standard {
	s := &Standard{tickRate: DefaultTickRate}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Compute returns the parameters of one row.
func (s *Standard) Compute(r *model.Recipe, e *model.Entity, fuel *model.Goods, m model.ModuleEffects) model.Parameters {
	p := model.Parameters{RecipeTime: r.Time, Productivity: 1}
	if r.Flags&model.UsesMiningProductivity != 0 {
		p.Productivity += s.mining
	}

	if e == nil {
		p.Warnings |= model.EntityNotSpecified
	} else {
		speed := e.CraftingSpeed * math.Max(minEffect, 1+m.Speed)
		if speed > 0 {
			p.RecipeTime = r.Time / speed
		}
		p.Productivity += e.Productivity + m.Productivity

		if e.BurnsFuel {
			switch {
			case fuel == nil:
				p.Warnings |= model.FuelNotSpecified
			case fuel.FuelValue <= 0:
				p.Warnings |= model.FuelDoesNotProvideEnergy
			default:
				p.FuelUsagePerSecondPerBuilding = e.EnergyUsage * math.Max(minEffect, 1+m.Consumption) / fuel.FuelValue
			}
		}
	}

	if s.tickRate > 0 && p.RecipeTime < 1/s.tickRate {
		p.RecipeTime = 1 / s.tickRate
		p.Warnings |= model.RecipeTickLimit
	}

	return p
}

// GoodsCost is the default cost function: the goods' own unit cost.
func GoodsCost(g *model.Goods) float64 { return g.Cost }
