package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/yamlviz/pkg/dag"
)

func build(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range ids {
		require.NoError(t, g.AddNode(dag.Node{ID: id}))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(dag.Edge{From: e[0], To: e[1]}))
	}
	return g
}

func row(t *testing.T, g *dag.DAG, id string) int {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, id)
	return n.Row
}

func TestAssignLayersForest(t *testing.T) {
	g := build(t,
		[]string{"root0", "k", "v", "root1", "w"},
		[][2]string{{"root0", "k"}, {"k", "v"}, {"root1", "w"}})

	assert.Equal(t, 3, AssignLayers(g))
	assert.Equal(t, 0, row(t, g, "root0"))
	assert.Equal(t, 0, row(t, g, "root1"))
	assert.Equal(t, 2, row(t, g, "v"))
	assert.Equal(t, 1, row(t, g, "w"))
}

func TestAssignLayersLongestPath(t *testing.T) {
	// a -> b -> c and a -> c: c sits below b, not next to it.
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	assert.Equal(t, 3, AssignLayers(g))
	assert.Equal(t, 2, row(t, g, "c"))
}

func TestAssignLayersEmpty(t *testing.T) {
	assert.Zero(t, AssignLayers(dag.New()))
}
