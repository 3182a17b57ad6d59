// SPDX-License-Identifier: MIT

package model

import "fmt"

// FluidNormalization is the default divisor for fluid amounts when items and
// fluids are ranked together.
const FluidNormalization = 50.0

// GoodsKind distinguishes items from fluids.
type GoodsKind int

const (
	Item GoodsKind = iota
	Fluid
)

// Goods is an item or a fluid. Goods values are compared by pointer identity.
type Goods struct {
	Name        string
	Kind        GoodsKind
	Temperature int     // fluids only
	Cost        float64 // objective weight per unit
	FuelValue   float64 // MJ per unit, 0 when not a fuel
	SpentFuel   *Goods  // burnt result, nil when none
}

// IsFluid reports whether g is a fluid.
func (g *Goods) IsFluid() bool { return g.Kind == Fluid }

// String returns the name, with the temperature appended for fluids.
func (g *Goods) String() string {
	if g == nil {
		return "<nil>"
	}
	if g.Kind == Fluid && g.Temperature != 0 {
		return fmt.Sprintf("%s@%d", g.Name, g.Temperature)
	}

	return g.Name
}

// SortKey ranks an amount of g on a scale shared by items and fluids.
// Fluid amounts are divided by fluidDivisor; a non-positive divisor means
// FluidNormalization.
func SortKey(g *Goods, amount, fluidDivisor float64) float64 {
	if !g.IsFluid() {
		return amount
	}
	if fluidDivisor <= 0 {
		fluidDivisor = FluidNormalization
	}

	return amount / fluidDivisor
}

// Ingredient is one consumed term of a recipe, per cycle.
type Ingredient struct {
	Goods  *Goods
	Amount float64
}

// Product is one produced term of a recipe, per cycle.
// Catalyst is the part of Amount that productivity bonuses do not multiply.
type Product struct {
	Goods    *Goods
	Amount   float64
	Catalyst float64
}

// PerCycle returns the produced amount for the given productivity multiplier.
func (p Product) PerCycle(productivity float64) float64 {
	return p.Catalyst + (p.Amount-p.Catalyst)*productivity
}

// RecipeFlags is a bitset of static recipe properties.
type RecipeFlags uint8

const (
	// UsesMiningProductivity makes the row pick up the global mining productivity bonus.
	UsesMiningProductivity RecipeFlags = 1 << iota
)

// Recipe is an immutable production step definition.
type Recipe struct {
	Name        string
	Ingredients []Ingredient
	Products    []Product
	Time        float64 // seconds per cycle at crafting speed 1
	Flags       RecipeFlags
	Cost        float64 // static base cost, see BaseCost
}

// BaseCost is the primary objective weight of one cycle per second.
// A recipe without an explicit cost weighs 1.
func (r *Recipe) BaseCost() float64 {
	if r.Cost > 0 {
		return r.Cost
	}

	return 1
}

// References reports whether g appears among the ingredients or products of r.
func (r *Recipe) References(g *Goods) bool {
	for _, in := range r.Ingredients {
		if in.Goods == g {
			return true
		}
	}
	for _, p := range r.Products {
		if p.Goods == g {
			return true
		}
	}

	return false
}

// Entity is a crafting machine.
type Entity struct {
	Name          string
	CraftingSpeed float64
	Productivity  float64 // intrinsic bonus, 0.1 = +10 %
	EnergyUsage   float64 // MW while working
	BurnsFuel     bool    // true for burner machines
}

// ModuleEffects are the summed module and beacon bonuses applied to a row.
type ModuleEffects struct {
	Speed        float64
	Productivity float64
	Consumption  float64
}
