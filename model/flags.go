// SPDX-License-Identifier: MIT

package model

import "strings"

// WarningFlags are per-row diagnostics; none of them blocks solving.
type WarningFlags uint32

const (
	EntityNotSpecified WarningFlags = 1 << iota
	FuelNotSpecified
	FuelDoesNotProvideEnergy
	RecipeTickLimit
	ExceedsBuiltCount
	// DeadlockCandidate marks rows touching a link that needed borrowed production.
	DeadlockCandidate
	// OverproductionRequired marks rows touching a link that needed an outlet for excess.
	OverproductionRequired
)

var warningNames = []string{
	"EntityNotSpecified",
	"FuelNotSpecified",
	"FuelDoesNotProvideEnergy",
	"RecipeTickLimit",
	"ExceedsBuiltCount",
	"DeadlockCandidate",
	"OverproductionRequired",
}

// Has reports whether all bits of f are set.
func (w WarningFlags) Has(f WarningFlags) bool { return w&f == f }

func (w WarningFlags) String() string { return bitNames(uint32(w), warningNames) }

// LinkFlags describe how a link was used by the last solve.
type LinkFlags uint32

const (
	HasProduction LinkFlags = 1 << iota
	HasConsumption
	LinkNotMatched
	// LinkRecursiveNotMatched is set when the mismatch was localised by slack variables.
	LinkRecursiveNotMatched
	// ChildNotMatched is set when a nested table left a residual for this goods.
	ChildNotMatched

	HasProductionAndConsumption = HasProduction | HasConsumption
)

var linkNames = []string{
	"HasProduction",
	"HasConsumption",
	"LinkNotMatched",
	"LinkRecursiveNotMatched",
	"ChildNotMatched",
}

// Has reports whether all bits of f are set.
func (l LinkFlags) Has(f LinkFlags) bool { return l&f == f }

// HasAny reports whether at least one bit of f is set.
func (l LinkFlags) HasAny(f LinkFlags) bool { return l&f != 0 }

func (l LinkFlags) String() string { return bitNames(uint32(l), linkNames) }

func bitNames(v uint32, names []string) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, "|")
}

// LinkAlgorithm selects the bounds of a link constraint.
type LinkAlgorithm int

const (
	// Match requires net production to equal the link amount.
	Match LinkAlgorithm = iota
	// AllowOverProduction lets net production exceed the link amount.
	AllowOverProduction
	// AllowOverConsumption lets net production fall short of the link amount.
	AllowOverConsumption
)

func (a LinkAlgorithm) String() string {
	switch a {
	case Match:
		return "match"
	case AllowOverProduction:
		return "allow-overproduction"
	case AllowOverConsumption:
		return "allow-overconsumption"
	default:
		return "unknown"
	}
}

// ParseLinkAlgorithm is the inverse of LinkAlgorithm.String.
func ParseLinkAlgorithm(s string) (LinkAlgorithm, bool) {
	for _, a := range []LinkAlgorithm{Match, AllowOverProduction, AllowOverConsumption} {
		if a.String() == s {
			return a, true
		}
	}

	return Match, false
}
