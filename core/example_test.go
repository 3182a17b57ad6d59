// SPDX-License-Identifier: MIT
package core_test

import (
	"fmt"

	"github.com/katalvlaran/prodnet/core"
)

// ExampleGraph demonstrates basic creation, mutation, and queries.
func ExampleGraph() {
	// Recipes as nodes: an edge points from a consumer to its producer.
	g := core.NewGraph[string]()
	_ = g.AddEdge("gear", "iron-plate")
	_ = g.AddEdge("iron-plate", "iron-ore")

	fmt.Println("Nodes:", g.Nodes())
	fmt.Println("gear → iron-plate?", g.HasConnection("gear", "iron-plate"))
	fmt.Println("iron-ore → gear?", g.HasConnection("iron-ore", "gear"))

	// Output:
	// Nodes: [gear iron-plate iron-ore]
	// gear → iron-plate? true
	// iron-ore → gear? false
}
