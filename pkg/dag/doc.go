// Package dag provides a layered directed acyclic graph, the structure the
// layout engine positions document trees on.
//
// # Overview
//
// Nodes are organized into horizontal rows (layers). For a document tree the
// row of a node is its depth: the synthetic root sits in row 0, top-level
// keys in row 1, and so on. Edges in a valid layered graph connect nodes in
// consecutive rows only, which is always true for trees once layers are
// assigned.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "root0", Row: 0})
//	g.AddNode(dag.Node{ID: "root0-0-name-0", Row: 1})
//	g.AddEdge(dag.Edge{From: "root0", To: "root0-0-name-0"})
//
// Query the graph with [DAG.Children], [DAG.Parents] and [DAG.NodesInRow].
// Unlike a bare map-based graph, every query reports nodes in insertion order,
// so any layout computed from a DAG is reproducible.
//
// # Validation
//
// [DAG.Validate] checks the layered-graph invariants (known endpoints,
// consecutive rows, no cycles). [DAG.ValidateTree] checks the stronger tree
// invariants the document builder guarantees: one root, one parent per node,
// every node reachable.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between adjacent
// rows with a Fenwick tree in O(E log V). The ordering step of the layout
// engine uses them to accept or reject candidate swaps.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Counting crossings on a
// read-only graph can run in parallel.
//
// The [transform] subpackage assigns rows from graph depth.
//
// [transform]: github.com/matzehuels/yamlviz/pkg/dag/transform
package dag
