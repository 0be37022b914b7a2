package transform

import "github.com/matzehuels/yamlviz/pkg/dag"

// AssignLayers sets every node's row to the length of the longest path that
// reaches it from a source, and returns the number of rows used.
//
// Sources land in row 0 and every edge points to a lower row, so a tree gets
// its depths. Nodes are visited in Kahn order; a node on a cycle is never
// released and keeps row 0, which [dag.DAG.Validate] then reports.
// Existing rows are overwritten. O(V + E).
func AssignLayers(g *dag.DAG) int {
	nodes := g.Nodes()
	pending := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	order := make([]string, 0, len(nodes))

	for _, n := range nodes {
		pending[n.ID] = g.InDegree(n.ID)
		rows[n.ID] = 0
		if pending[n.ID] == 0 {
			order = append(order, n.ID)
		}
	}

	depth := 0
	for head := 0; head < len(order); head++ {
		id := order[head]
		depth = max(depth, rows[id]+1)
		for _, child := range g.Children(id) {
			rows[child] = max(rows[child], rows[id]+1)
			if pending[child]--; pending[child] == 0 {
				order = append(order, child)
			}
		}
	}

	g.SetRows(rows)
	return depth
}
