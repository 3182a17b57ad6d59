// SPDX-License-Identifier: MIT

package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prodnet/model"
	"github.com/katalvlaran/prodnet/params"
)

var (
	coal  = &model.Goods{Name: "coal", FuelValue: 4, Cost: 1}
	stone = &model.Goods{Name: "stone", Cost: 1}
	plate = &model.Recipe{Name: "iron-plate", Time: 3.2}
	drill = &model.Recipe{Name: "iron-ore", Time: 1, Flags: model.UsesMiningProductivity}
)

func TestNoEntity(t *testing.T) {
	p := params.NewStandard().Compute(plate, nil, nil, model.ModuleEffects{})

	assert.InDelta(t, 3.2, p.RecipeTime, 1e-12)
	assert.InDelta(t, 1, p.Productivity, 1e-12)
	assert.True(t, p.Warnings.Has(model.EntityNotSpecified))
	assert.Zero(t, p.FuelUsagePerRecipe())
}

func TestElectricEntityWithModules(t *testing.T) {
	furnace := &model.Entity{Name: "electric-furnace", CraftingSpeed: 2, Productivity: 0.1, EnergyUsage: 0.18}
	mods := model.ModuleEffects{Speed: 0.6, Productivity: 0.2}

	p := params.NewStandard().Compute(plate, furnace, nil, mods)

	assert.InDelta(t, 3.2/(2*1.6), p.RecipeTime, 1e-12)
	assert.InDelta(t, 1.3, p.Productivity, 1e-12)
	assert.Zero(t, p.Warnings)
	assert.Zero(t, p.FuelUsagePerSecondPerBuilding)
}

func TestBurnerFuel(t *testing.T) {
	stoneFurnace := &model.Entity{Name: "stone-furnace", CraftingSpeed: 1, EnergyUsage: 0.09, BurnsFuel: true}
	std := params.NewStandard()

	p := std.Compute(plate, stoneFurnace, coal, model.ModuleEffects{})
	require.Zero(t, p.Warnings)
	assert.InDelta(t, 0.09/4, p.FuelUsagePerSecondPerBuilding, 1e-12)
	assert.InDelta(t, 0.09/4*3.2, p.FuelUsagePerRecipe(), 1e-12)

	p = std.Compute(plate, stoneFurnace, nil, model.ModuleEffects{})
	assert.True(t, p.Warnings.Has(model.FuelNotSpecified))

	p = std.Compute(plate, stoneFurnace, stone, model.ModuleEffects{})
	assert.True(t, p.Warnings.Has(model.FuelDoesNotProvideEnergy))
	assert.Zero(t, p.FuelUsagePerSecondPerBuilding)

	p = std.Compute(plate, stoneFurnace, coal, model.ModuleEffects{Consumption: -2})
	assert.InDelta(t, 0.09*0.2/4, p.FuelUsagePerSecondPerBuilding, 1e-12, "consumption is floored")
}

func TestTickLimit(t *testing.T) {
	fast := &model.Entity{Name: "fast", CraftingSpeed: 1000}

	p := params.NewStandard().Compute(plate, fast, nil, model.ModuleEffects{})
	assert.InDelta(t, 1.0/60, p.RecipeTime, 1e-12)
	assert.True(t, p.Warnings.Has(model.RecipeTickLimit))

	p = params.NewStandard(params.WithTickRate(0)).Compute(plate, fast, nil, model.ModuleEffects{})
	assert.InDelta(t, 3.2/1000, p.RecipeTime, 1e-12)
	assert.False(t, p.Warnings.Has(model.RecipeTickLimit))
}

func TestMiningProductivity(t *testing.T) {
	miner := &model.Entity{Name: "drill", CraftingSpeed: 0.5}
	std := params.NewStandard(params.WithMiningProductivity(0.3))

	assert.InDelta(t, 1.3, std.Compute(drill, miner, nil, model.ModuleEffects{}).Productivity, 1e-12)
	assert.InDelta(t, 1, std.Compute(plate, miner, nil, model.ModuleEffects{}).Productivity, 1e-12)
}

func TestOptionsPanic(t *testing.T) {
	require.Panics(t, func() { params.WithTickRate(-1) })
	require.Panics(t, func() { params.WithMiningProductivity(-0.1) })
	require.Equal(t, 1.0, params.GoodsCost(coal))
}
