package ordering

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/yamlviz/pkg/dag"
)

// Barycentric orders rows by the average position of each node's neighbours
// in the adjacent row, alternating downward and upward sweeps, and finishes
// every sweep with a transpose pass that swaps adjacent nodes when that
// lowers the crossing count. The best ordering seen is returned, so the
// result never has more crossings than the initial depth-first order.
type Barycentric struct {
	// Passes is the number of sweeps; 0 selects DefaultPasses.
	Passes int
}

// OrderRows implements Orderer.
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	return b.OrderRowsContext(context.Background(), g)
}

// OrderRowsContext implements ContextOrderer. Cancellation stops refinement
// and returns the best ordering found so far.
func (b Barycentric) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	orders := DepthFirst(g)
	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)
	rows := g.RowIDs()

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if ctx.Err() != nil {
			break
		}
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				sortByBarycenter(g, orders, rows[i], rows[i-1], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				sortByBarycenter(g, orders, rows[i], rows[i+1], false)
			}
		}
		transpose(g, orders, rows)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

// DepthFirst returns the pre-order traversal of g from its sources, split by
// row. Children are visited in insertion order, so for a document tree every
// row lists siblings in source order and no two edges cross.
func DepthFirst(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	visited := make(map[string]bool, g.NodeCount())

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		n, _ := g.Node(id)
		orders[n.Row] = append(orders[n.Row], id)
		for _, c := range g.Children(id) {
			visit(c)
		}
	}

	for _, src := range g.Sources() {
		visit(src.ID)
	}
	// Nodes only reachable through a cycle keep insertion order.
	for _, n := range g.Nodes() {
		if !visited[n.ID] {
			visit(n.ID)
		}
	}
	return orders
}

func sortByBarycenter(g *dag.DAG, orders map[int][]string, row, adjRow int, useParents bool) {
	current := orders[row]
	if len(current) < 2 {
		return
	}
	adjPos := dag.PosMap(orders[adjRow])

	bary := make(map[string]float64, len(current))
	for i, id := range current {
		var nbrs []string
		if useParents {
			nbrs = g.Parents(id)
		} else {
			nbrs = g.Children(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
			continue
		}
		bary[id] = sum / float64(n)
	}

	slices.SortStableFunc(current, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for _, r := range rows {
		row := orders[r]
		if len(row) < 2 {
			continue
		}
		upper := dag.PosMap(orders[r-1])
		lower := dag.PosMap(orders[r+1])

		for improved, iter := true, 0; improved && iter < len(row); iter++ {
			improved = false
			for i := 0; i+1 < len(row); i++ {
				a, b := row[i], row[i+1]
				before := dag.CountPairCrossingsWithPos(g, a, b, upper, true) +
					dag.CountPairCrossingsWithPos(g, a, b, lower, false)
				after := dag.CountPairCrossingsWithPos(g, b, a, upper, true) +
					dag.CountPairCrossingsWithPos(g, b, a, lower, false)
				if after < before {
					row[i], row[i+1] = b, a
					improved = true
				}
			}
		}
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		out[r] = slices.Clone(orders[r])
	}
	return out
}
