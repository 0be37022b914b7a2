// Package transform assigns layers to a [dag.DAG] before it is laid out.
//
// [AssignLayers] places every source in row 0 and each other node one row
// below its deepest parent. For a document tree, whose nodes have a single
// parent, this is exactly the node's depth from the synthetic root, and the
// resulting graph satisfies the consecutive-rows invariant checked by
// [dag.DAG.Validate].
package transform
