// Package ordering decides the left-to-right order of nodes within each row
// of a layered graph.
//
// Ordering is the second phase of a Sugiyama-style layout: once every node
// has a row, the order inside each row determines how many edges cross.
// [Barycentric] starts from the depth-first order of the graph, which is
// already crossing-free for trees and keeps siblings in document order, and
// then refines it with alternating barycenter sweeps and adjacent swaps
// whenever that removes crossings.
package ordering

import (
	"context"
	"time"

	"github.com/matzehuels/yamlviz/pkg/dag"
)

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to minimize edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// ContextOrderer is an Orderer that supports cancellation and timeouts
// via a context.
type ContextOrderer interface {
	Orderer
	OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of sweeps Barycentric runs when Passes is 0.
const DefaultPasses = 24

// DefaultTimeout bounds ordering when called through OrderWithTimeout.
const DefaultTimeout = 2 * time.Second

// OrderWithTimeout runs o with a deadline if it supports contexts, falling
// back to a plain OrderRows call otherwise.
func OrderWithTimeout(ctx context.Context, o Orderer, g *dag.DAG, timeout time.Duration) map[int][]string {
	co, ok := o.(ContextOrderer)
	if !ok {
		return o.OrderRows(g)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return co.OrderRowsContext(ctx, g)
}
