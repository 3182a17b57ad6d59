// SPDX-License-Identifier: MIT

package catalog

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// unknown builds an ErrUnknownName error, with a suggestion when a declared
// name is within editing distance of the missing one.
func unknown[V any](kind, name, at string, declared map[string]V) error {
	if s := suggest(name, declared); s != "" {
		return fmt.Errorf("%s: %s %q: %w (did you mean %q?)", at, kind, name, ErrUnknownName, s)
	}

	return fmt.Errorf("%s: %s %q: %w", at, kind, name, ErrUnknownName)
}

// suggest returns the closest declared name within the distance limit for
// name, or "" when none is close enough. Ties go to the lexically smaller name.
func suggest[V any](name string, declared map[string]V) string {
	names := make([]string, 0, len(declared))
	for k := range declared {
		names = append(names, k)
	}
	sort.Strings(names)

	limit := distanceLimit(len(name))
	best, bestDist := "", limit+1
	for _, k := range names {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}

	return best
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
