// SPDX-License-Identifier: MIT

package catalog

// document mirrors the on-disk layout; see documentSchema.
type document struct {
	Goods    []goodsDoc  `yaml:"goods"`
	Entities []entityDoc `yaml:"entities"`
	Recipes  []recipeDoc `yaml:"recipes"`
	Table    tableDoc    `yaml:"table"`
}

type goodsDoc struct {
	Name        string  `yaml:"name"`
	Fluid       bool    `yaml:"fluid"`
	Temperature int     `yaml:"temperature"`
	Cost        float64 `yaml:"cost"`
	FuelValue   float64 `yaml:"fuel_value"`
	SpentFuel   string  `yaml:"spent_fuel"`
}

type entityDoc struct {
	Name          string  `yaml:"name"`
	CraftingSpeed float64 `yaml:"crafting_speed"`
	Productivity  float64 `yaml:"productivity"`
	EnergyUsage   float64 `yaml:"energy_usage"`
	BurnsFuel     bool    `yaml:"burns_fuel"`
}

type termDoc struct {
	Goods    string  `yaml:"goods"`
	Amount   float64 `yaml:"amount"`
	Catalyst float64 `yaml:"catalyst"`
}

type recipeDoc struct {
	Name               string    `yaml:"name"`
	Time               float64   `yaml:"time"`
	Cost               float64   `yaml:"cost"`
	MiningProductivity bool      `yaml:"mining_productivity"`
	Ingredients        []termDoc `yaml:"ingredients"`
	Products           []termDoc `yaml:"products"`
}

type modulesDoc struct {
	Speed        float64 `yaml:"speed"`
	Productivity float64 `yaml:"productivity"`
	Consumption  float64 `yaml:"consumption"`
}

type rowDoc struct {
	Recipe         string     `yaml:"recipe"`
	Entity         string     `yaml:"entity"`
	Fuel           string     `yaml:"fuel"`
	FixedBuildings float64    `yaml:"fixed_buildings"`
	BuiltBuildings int        `yaml:"built_buildings"`
	Enabled        *bool      `yaml:"enabled"`
	Modules        modulesDoc `yaml:"modules"`
	Subgroup       *tableDoc  `yaml:"subgroup"`
}

type linkDoc struct {
	Goods     string  `yaml:"goods"`
	Amount    float64 `yaml:"amount"`
	Algorithm string  `yaml:"algorithm"`
}

type tableDoc struct {
	Rows  []rowDoc  `yaml:"rows"`
	Links []linkDoc `yaml:"links"`
}
