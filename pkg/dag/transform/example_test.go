package transform_test

import (
	"fmt"

	"github.com/matzehuels/yamlviz/pkg/dag"
	"github.com/matzehuels/yamlviz/pkg/dag/transform"
)

func ExampleAssignLayers() {
	// root0 -> a -> 1, root0 -> b -> c -> 2
	g := dag.New()
	for _, id := range []string{"root0", "a", "1", "b", "c", "2"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "root0", To: "a"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "1"})
	_ = g.AddEdge(dag.Edge{From: "root0", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "c"})
	_ = g.AddEdge(dag.Edge{From: "c", To: "2"})

	transform.AssignLayers(g)

	for _, row := range g.RowIDs() {
		fmt.Println(row, dag.NodeIDs(g.NodesInRow(row)))
	}
	fmt.Println("valid:", g.Validate() == nil)
	// Output:
	// 0 [root0]
	// 1 [a b]
	// 2 [1 c]
	// 3 [2]
	// valid: true
}
