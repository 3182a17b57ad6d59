// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for Network mutations.
var (
	ErrUnknownTable  = errors.New("model: unknown table")
	ErrUnknownRow    = errors.New("model: unknown row")
	ErrUnknownLink   = errors.New("model: unknown link")
	ErrDuplicateLink = errors.New("model: table already links this goods")
	ErrHasSubgroup   = errors.New("model: row already owns a subgroup")
	ErrNilRecipe     = errors.New("model: recipe is nil")
	ErrNilGoods      = errors.New("model: goods is nil")
)

// Handles into a Network arena. Handles stay valid for the Network's lifetime.
type (
	TableID int
	RowID   int
	LinkID  int
)

// Absent handles.
const (
	NoTable TableID = -1
	NoRow   RowID   = -1
	NoLink  LinkID  = -1
)

// Parameters are the per-row scalars produced by the parameter provider.
type Parameters struct {
	RecipeTime                    float64 // seconds per cycle in the assigned entity
	Productivity                  float64 // product multiplier, 1 = no bonus
	FuelUsagePerSecondPerBuilding float64 // fuel units per second of one working building
	Warnings                      WarningFlags
}

// FuelUsagePerRecipe is the fuel burnt by one cycle.
func (p Parameters) FuelUsagePerRecipe() float64 {
	return p.FuelUsagePerSecondPerBuilding * p.RecipeTime
}

// RowLinks records the link each recipe term resolved to in the last solve.
type RowLinks struct {
	Products    []LinkID // parallel to Recipe.Products
	Ingredients []LinkID // parallel to Recipe.Ingredients
	Fuel        LinkID
	SpentFuel   LinkID
}

// Flow is one entry of a table's net-flow array.
type Flow struct {
	Goods  *Goods
	Amount float64 // positive: net production
	Link   LinkID  // nearest link for Goods, NoLink when none
}

// Row is one production step.
type Row struct {
	id       RowID
	owner    TableID
	subgroup TableID

	Recipe         *Recipe
	Entity         *Entity
	Fuel           *Goods
	Modules        ModuleEffects
	FixedBuildings float64 // > 0 pins the building count
	BuiltBuildings int     // > 0 caps the building count the model may require
	Enabled        bool

	// Computed by the solver.
	Parameters       Parameters
	RecipesPerSecond float64
	Links            RowLinks
}

// ID returns the row handle.
func (r *Row) ID() RowID { return r.id }

// Owner returns the table that lists r.
func (r *Row) Owner() TableID { return r.owner }

// Subgroup returns the nested table owned by r, or NoTable.
func (r *Row) Subgroup() TableID { return r.subgroup }

// BuildingCount is the number of working buildings implied by the solved throughput.
func (r *Row) BuildingCount() float64 { return r.RecipesPerSecond * r.Parameters.RecipeTime }

// Link constrains the net flow of one goods across a table.
type Link struct {
	id    LinkID
	owner TableID

	Goods     *Goods
	Amount    float64 // target net production; negative for a desired input
	Algorithm LinkAlgorithm

	// Computed by the solver.
	Flags          LinkFlags
	LinkFlow       float64 // gross production routed through the link
	NotMatchedFlow float64 // signed residual, 0 when matched
	Captured       []RowID // rows that contributed a coefficient
}

// ID returns the link handle.
func (l *Link) ID() LinkID { return l.id }

// Owner returns the table that holds l.
func (l *Link) Owner() TableID { return l.owner }

// Table is a node of the recipe tree.
type Table struct {
	id      TableID
	owner   RowID
	rows    []RowID
	links   []LinkID
	linkMap map[*Goods]LinkID

	// Computed by the solver.
	Flow []Flow
}

// ID returns the table handle.
func (t *Table) ID() TableID { return t.id }

// Owner returns the row owning t, or NoRow for a root table.
func (t *Table) Owner() RowID { return t.owner }

// IsRoot reports whether t has no owning row.
func (t *Table) IsRoot() bool { return t.owner == NoRow }

// Rows returns the row handles in display order. The slice is shared.
func (t *Table) Rows() []RowID { return t.rows }

// Links returns the link handles in creation order. The slice is shared.
func (t *Table) Links() []LinkID { return t.links }

// LocalLink returns the link for g held directly by t.
func (t *Table) LocalLink(g *Goods) (LinkID, bool) {
	id, ok := t.linkMap[g]

	return id, ok
}

// Network is the arena holding every table, row and link of a model.
type Network struct {
	tables  []*Table
	rows    []*Row
	links   []*Link
	version uint64
}

// NewNetwork returns an empty network.
func NewNetwork() *Network { return &Network{} }

// Version is the structural version, advanced by every mutation and by Touch.
func (n *Network) Version() uint64 { return n.version }

// Touch advances the structural version after direct edits of row or link fields.
func (n *Network) Touch() { n.version++ }

// NewTable creates a root table.
func (n *Network) NewTable() TableID {
	n.version++

	return n.newTable(NoRow)
}

func (n *Network) newTable(owner RowID) TableID {
	id := TableID(len(n.tables))
	n.tables = append(n.tables, &Table{id: id, owner: owner, linkMap: make(map[*Goods]LinkID)})

	return id
}

// AddRow appends an enabled row for recipe to table t.
func (n *Network) AddRow(t TableID, recipe *Recipe) (RowID, error) {
	tab := n.Table(t)
	if tab == nil {
		return NoRow, fmt.Errorf("add row to %d: %w", t, ErrUnknownTable)
	}
	if recipe == nil {
		return NoRow, ErrNilRecipe
	}
	id := RowID(len(n.rows))
	n.rows = append(n.rows, &Row{
		id:       id,
		owner:    t,
		subgroup: NoTable,
		Recipe:   recipe,
		Enabled:  true,
		Links:    RowLinks{Fuel: NoLink, SpentFuel: NoLink},
	})
	tab.rows = append(tab.rows, id)
	n.version++

	return id, nil
}

// AddSubgroup creates the nested table owned by row r.
func (n *Network) AddSubgroup(r RowID) (TableID, error) {
	row := n.Row(r)
	if row == nil {
		return NoTable, fmt.Errorf("add subgroup to %d: %w", r, ErrUnknownRow)
	}
	if row.subgroup != NoTable {
		return NoTable, fmt.Errorf("add subgroup to %q: %w", row.Recipe.Name, ErrHasSubgroup)
	}
	row.subgroup = n.newTable(r)
	n.version++

	return row.subgroup, nil
}

// AddLink creates the link for g in table t.
func (n *Network) AddLink(t TableID, g *Goods, amount float64, alg LinkAlgorithm) (LinkID, error) {
	tab := n.Table(t)
	if tab == nil {
		return NoLink, fmt.Errorf("add link to %d: %w", t, ErrUnknownTable)
	}
	if g == nil {
		return NoLink, ErrNilGoods
	}
	if _, dup := tab.linkMap[g]; dup {
		return NoLink, fmt.Errorf("link %s: %w", g, ErrDuplicateLink)
	}
	id := LinkID(len(n.links))
	n.links = append(n.links, &Link{id: id, owner: t, Goods: g, Amount: amount, Algorithm: alg})
	tab.links = append(tab.links, id)
	tab.linkMap[g] = id
	n.version++

	return id, nil
}

// RemoveLink detaches l from its table and advances the version.
func (n *Network) RemoveLink(l LinkID) error {
	if err := n.PruneLink(l); err != nil {
		return err
	}
	n.version++

	return nil
}

// PruneLink detaches l from its table without advancing the version.
// The solver uses it for links that no active row references.
func (n *Network) PruneLink(l LinkID) error {
	link := n.Link(l)
	if link == nil || link.owner == NoTable {
		return fmt.Errorf("remove link %d: %w", l, ErrUnknownLink)
	}
	tab := n.tables[link.owner]
	delete(tab.linkMap, link.Goods)
	for i, id := range tab.links {
		if id == l {
			tab.links = append(tab.links[:i], tab.links[i+1:]...)

			break
		}
	}
	link.owner = NoTable

	return nil
}

// Table returns the table for id, or nil.
func (n *Network) Table(id TableID) *Table {
	if id < 0 || int(id) >= len(n.tables) {
		return nil
	}

	return n.tables[id]
}

// Row returns the row for id, or nil.
func (n *Network) Row(id RowID) *Row {
	if id < 0 || int(id) >= len(n.rows) {
		return nil
	}

	return n.rows[id]
}

// Link returns the link for id, or nil. Removed links stay addressable
// with Owner() == NoTable.
func (n *Network) Link(id LinkID) *Link {
	if id < 0 || int(id) >= len(n.links) {
		return nil
	}

	return n.links[id]
}

// FindLink returns the link for g visible from table t: the local one, or the
// nearest one in an ancestor table.
func (n *Network) FindLink(t TableID, g *Goods) (LinkID, bool) {
	for t != NoTable {
		tab := n.tables[t]
		if id, ok := tab.linkMap[g]; ok {
			if n.links[id].Goods != g || n.links[id].owner != t {
				panic(fmt.Sprintf("model: link map of table %d is inconsistent for %s", t, g))
			}

			return id, true
		}
		if tab.owner == NoRow {
			break
		}
		t = n.rows[tab.owner].owner
	}

	return NoLink, false
}

// LinkRoot is the table where link search for r's own goods starts:
// its subgroup when it has one, otherwise its owner.
func (n *Network) LinkRoot(r RowID) TableID {
	row := n.rows[r]
	if row.subgroup != NoTable {
		return row.subgroup
	}

	return row.owner
}

// HierarchyEnabled reports whether r and every ancestor row are enabled.
func (n *Network) HierarchyEnabled(r RowID) bool {
	for r != NoRow {
		row := n.rows[r]
		if !row.Enabled {
			return false
		}
		r = n.tables[row.owner].owner
	}

	return true
}

// HasDisabledRowReferencing reports whether table t, or a table nested in it,
// lists a row outside the enabled hierarchy whose recipe or fuel references g.
func (n *Network) HasDisabledRowReferencing(t TableID, g *Goods) bool {
	for _, id := range n.tables[t].rows {
		row := n.rows[id]
		if !n.HierarchyEnabled(id) && rowReferences(row, g) {
			return true
		}
		if row.subgroup != NoTable && n.HasDisabledRowReferencing(row.subgroup, g) {
			return true
		}
	}

	return false
}

func rowReferences(r *Row, g *Goods) bool {
	if r.Recipe.References(g) {
		return true
	}

	return r.Fuel != nil && (r.Fuel == g || r.Fuel.SpentFuel == g)
}

// ActiveRows returns the rows of t and its nested tables that take part in a
// solve, depth first in display order. Rows of disabled rows' subgroups are skipped.
func (n *Network) ActiveRows(t TableID) []RowID {
	var out []RowID
	n.walkActive(t, func(tab *Table) {
		for _, id := range tab.rows {
			if n.rows[id].Enabled {
				out = append(out, id)
			}
		}
	})

	return out
}

// ActiveLinks returns the links of t and of every nested table reachable
// through enabled rows, tables in depth-first order.
func (n *Network) ActiveLinks(t TableID) []LinkID {
	var out []LinkID
	n.walkActive(t, func(tab *Table) { out = append(out, tab.links...) })

	return out
}

// walkActive visits t, then the subgroups of its enabled rows recursively.
func (n *Network) walkActive(t TableID, visit func(*Table)) {
	tab := n.tables[t]
	visit(tab)
	for _, id := range tab.rows {
		row := n.rows[id]
		if row.Enabled && row.subgroup != NoTable {
			n.walkActive(row.subgroup, visit)
		}
	}
}
