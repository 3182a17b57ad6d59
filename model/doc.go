// SPDX-License-Identifier: MIT

// Package model holds the recipe-network data model consumed by the solver.
//
// A Network is an arena of Tables, Rows and Links addressed by the stable
// handles TableID, RowID and LinkID. Tables form a tree: a root table has no
// owner; any Row may own at most one nested Table (its subgroup).
//
//	root Table
//	├── Row "iron plate"
//	├── Row "gears" ── subgroup Table
//	│                  ├── Row "gear"
//	│                  └── Link(iron-plate)
//	└── Link(gear, amount 1)
//
// Links are unique per goods within one table. A goods that has no link in a
// table is implicitly linked to the nearest link for the same goods in an
// ancestor table (Network.FindLink).
//
// Static data (Goods, Recipe, Entity) is immutable and compared by identity.
// Rows and links expose user-editable fields directly; fields documented as
// computed are written only by the solver.
//
// A Network is not safe for concurrent use; callers serialise access
// (see package page).
package model
