// SPDX-License-Identifier: MIT

// Package catalog loads a production network from a YAML or JSON document.
//
// A document lists goods, entities and recipes by name and describes the root
// table with its rows, nested subgroups and links. Documents are validated
// against a JSON schema before decoding; files ending in ".zst" are
// decompressed transparently.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/prodnet/model"
)

var (
	// ErrInvalidDocument is returned when a document fails to parse or validate.
	ErrInvalidDocument = errors.New("catalog: invalid document")
	// ErrUnknownName is returned for a reference to an undeclared goods, entity or recipe.
	ErrUnknownName = errors.New("catalog: unknown name")
	// ErrDuplicateName is returned when two declarations share a name.
	ErrDuplicateName = errors.New("catalog: duplicate name")
)

// Catalog is a loaded document: the declared definitions and the network built from them.
type Catalog struct {
	Goods    map[string]*model.Goods
	Entities map[string]*model.Entity
	Recipes  map[string]*model.Recipe

	Network *model.Network
	Root    model.TableID
}

// Load reads and parses the document at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("catalog: zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	return Parse(raw)
}

// Parse validates raw and builds the network it describes.
// JSON input is accepted since it is a subset of YAML.
func Parse(raw []byte) (*Catalog, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	c := &Catalog{
		Goods:    make(map[string]*model.Goods, len(doc.Goods)),
		Entities: make(map[string]*model.Entity, len(doc.Entities)),
		Recipes:  make(map[string]*model.Recipe, len(doc.Recipes)),
		Network:  model.NewNetwork(),
	}
	if err := c.declare(&doc); err != nil {
		return nil, err
	}
	c.Root = c.Network.NewTable()
	if err := c.buildTable(c.Root, &doc.Table, "table"); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) declare(doc *document) error {
	for _, gd := range doc.Goods {
		if _, dup := c.Goods[gd.Name]; dup {
			return fmt.Errorf("goods %q: %w", gd.Name, ErrDuplicateName)
		}
		g := &model.Goods{
			Name:        gd.Name,
			Temperature: gd.Temperature,
			Cost:        gd.Cost,
			FuelValue:   gd.FuelValue,
		}
		if gd.Fluid {
			g.Kind = model.Fluid
		}
		c.Goods[gd.Name] = g
	}
	// Spent fuel may reference goods declared later.
	for _, gd := range doc.Goods {
		if gd.SpentFuel == "" {
			continue
		}
		spent, err := c.goods(gd.SpentFuel, "goods "+gd.Name+" spent_fuel")
		if err != nil {
			return err
		}
		c.Goods[gd.Name].SpentFuel = spent
	}

	for _, ed := range doc.Entities {
		if _, dup := c.Entities[ed.Name]; dup {
			return fmt.Errorf("entity %q: %w", ed.Name, ErrDuplicateName)
		}
		c.Entities[ed.Name] = &model.Entity{
			Name:          ed.Name,
			CraftingSpeed: ed.CraftingSpeed,
			Productivity:  ed.Productivity,
			EnergyUsage:   ed.EnergyUsage,
			BurnsFuel:     ed.BurnsFuel,
		}
	}

	for _, rd := range doc.Recipes {
		if _, dup := c.Recipes[rd.Name]; dup {
			return fmt.Errorf("recipe %q: %w", rd.Name, ErrDuplicateName)
		}
		r := &model.Recipe{Name: rd.Name, Time: rd.Time, Cost: rd.Cost}
		if rd.MiningProductivity {
			r.Flags |= model.UsesMiningProductivity
		}
		for _, in := range rd.Ingredients {
			g, err := c.goods(in.Goods, "recipe "+rd.Name+" ingredient")
			if err != nil {
				return err
			}
			r.Ingredients = append(r.Ingredients, model.Ingredient{Goods: g, Amount: in.Amount})
		}
		for _, p := range rd.Products {
			g, err := c.goods(p.Goods, "recipe "+rd.Name+" product")
			if err != nil {
				return err
			}
			if p.Catalyst > p.Amount {
				return fmt.Errorf("%w: recipe %s product %s: catalyst exceeds amount",
					ErrInvalidDocument, rd.Name, p.Goods)
			}
			r.Products = append(r.Products, model.Product{Goods: g, Amount: p.Amount, Catalyst: p.Catalyst})
		}
		c.Recipes[rd.Name] = r
	}

	return nil
}

// buildTable adds the rows and links of td to table t, recursing into subgroups.
// where names the position in the document for error messages.
func (c *Catalog) buildTable(t model.TableID, td *tableDoc, where string) error {
	for i, rd := range td.Rows {
		at := fmt.Sprintf("%s.rows[%d]", where, i)
		recipe, err := c.recipe(rd.Recipe, at)
		if err != nil {
			return err
		}
		id, err := c.Network.AddRow(t, recipe)
		if err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
		row := c.Network.Row(id)
		if rd.Entity != "" {
			if row.Entity, err = c.entity(rd.Entity, at); err != nil {
				return err
			}
		}
		if rd.Fuel != "" {
			if row.Fuel, err = c.goods(rd.Fuel, at+" fuel"); err != nil {
				return err
			}
		}
		row.Modules = model.ModuleEffects(rd.Modules)
		row.FixedBuildings = rd.FixedBuildings
		row.BuiltBuildings = rd.BuiltBuildings
		if rd.Enabled != nil {
			row.Enabled = *rd.Enabled
		}
		if rd.Subgroup != nil {
			sub, err := c.Network.AddSubgroup(id)
			if err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}
			if err := c.buildTable(sub, rd.Subgroup, at+".subgroup"); err != nil {
				return err
			}
		}
	}

	for i, ld := range td.Links {
		at := fmt.Sprintf("%s.links[%d]", where, i)
		g, err := c.goods(ld.Goods, at)
		if err != nil {
			return err
		}
		alg := model.Match
		if ld.Algorithm != "" {
			var ok bool
			if alg, ok = model.ParseLinkAlgorithm(ld.Algorithm); !ok {
				return fmt.Errorf("%w: %s: algorithm %q", ErrInvalidDocument, at, ld.Algorithm)
			}
		}
		if _, err := c.Network.AddLink(t, g, ld.Amount, alg); err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
	}

	return nil
}

func (c *Catalog) goods(name, at string) (*model.Goods, error) {
	if g, ok := c.Goods[name]; ok {
		return g, nil
	}

	return nil, unknown("goods", name, at, c.Goods)
}

func (c *Catalog) entity(name, at string) (*model.Entity, error) {
	if e, ok := c.Entities[name]; ok {
		return e, nil
	}

	return nil, unknown("entity", name, at, c.Entities)
}

func (c *Catalog) recipe(name, at string) (*model.Recipe, error) {
	if r, ok := c.Recipes[name]; ok {
		return r, nil
	}

	return nil, unknown("recipe", name, at, c.Recipes)
}
