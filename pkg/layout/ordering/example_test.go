package ordering_test

import (
	"fmt"

	"github.com/matzehuels/yamlviz/pkg/dag"
	"github.com/matzehuels/yamlviz/pkg/layout/ordering"
)

func ExampleBarycentric() {
	// A document tree keeps its siblings in source order.
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "root0", Row: 0})
	_ = g.AddNode(dag.Node{ID: "name", Row: 1})
	_ = g.AddNode(dag.Node{ID: "tags", Row: 1})
	_ = g.AddNode(dag.Node{ID: "web", Row: 2})
	_ = g.AddNode(dag.Node{ID: "db", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "root0", To: "name"})
	_ = g.AddEdge(dag.Edge{From: "root0", To: "tags"})
	_ = g.AddEdge(dag.Edge{From: "tags", To: "web"})
	_ = g.AddEdge(dag.Edge{From: "tags", To: "db"})

	orders := ordering.Barycentric{}.OrderRows(g)
	fmt.Println(orders[1])
	fmt.Println(orders[2])
	fmt.Println("crossings:", dag.CountCrossings(g, orders))
	// Output:
	// [name tags]
	// [web db]
	// crossings: 0
}

func ExampleBarycentric_crossingMinimization() {
	// X pattern: a→y, b→x
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println("Initial crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))

	orders := ordering.Barycentric{}.OrderRows(g)
	fmt.Println("After ordering:", dag.CountLayerCrossings(g, orders[0], orders[1]))
	// Output:
	// Initial crossings: 1
	// After ordering: 0
}
