// Package tree turns a decoded YAML value into a labeled node/edge tree.
//
// Node IDs are structural. Every mapping entry or sequence item under parent
// P at nesting level L gets the ID "P-L-<key>-<i>", where i is its sibling
// index; a scalar hanging directly under P gets "P-L-value". The sibling index
// keeps IDs unique even when duplicate keys were kept, and the scheme makes
// Build a pure function of its input: identical values always produce
// identical IDs, labels and edges.
//
// Keys that contain dashes can, rarely, spell out another node's path. The
// later node then gets a "~n" suffix so IDs stay unique within a graph.
//
// Every document tree hangs off a synthetic root, "root<N>" labeled "YAML"
// by default, where N is the document's position in the stream.
package tree

import (
	"strconv"

	"github.com/matzehuels/yamlviz/pkg/dag"
	"github.com/matzehuels/yamlviz/pkg/document"
)

// DefaultRootLabel is the label of the synthetic document root.
const DefaultRootLabel = "YAML"

// Kind classifies a node.
type Kind string

const (
	KindRoot      Kind = "root"
	KindContainer Kind = "container"
	KindLeaf      Kind = "leaf"
)

// Node is a labeled vertex of a document tree.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Kind  Kind   `json:"kind" bson:"kind"`
}

// Edge connects a parent to one of its children.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Graph is the node and edge list of one document, in pre-order.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// RootID returns the synthetic root ID for the document at index.
func RootID(index int) string { return "root" + strconv.Itoa(index) }

// EdgeID returns the ID of the edge from source to target.
func EdgeID(source, target string) string { return source + "->" + target }

// Build walks v depth-first and returns its tree, rooted at a synthetic node
// with the given ID and label. An empty rootLabel selects DefaultRootLabel.
// A nil value yields just the root.
func Build(v *document.Value, rootID, rootLabel string) Graph {
	if rootLabel == "" {
		rootLabel = DefaultRootLabel
	}
	b := &builder{seen: map[string]int{rootID: 1}}
	b.nodes = append(b.nodes, Node{ID: rootID, Label: rootLabel, Kind: KindRoot})
	if v != nil {
		b.walk(v, rootID, 0)
	}
	return Graph{Nodes: b.nodes, Edges: b.edges}
}

// BuildDocument builds the tree of the document at index with the default
// root ID and label.
func BuildDocument(v *document.Value, index int) Graph {
	return Build(v, RootID(index), DefaultRootLabel)
}

type builder struct {
	nodes []Node
	edges []Edge
	seen  map[string]int
}

// unique returns id, or id with a "~n" suffix if a key containing dashes
// already produced the same path-derived ID elsewhere in the tree.
func (b *builder) unique(id string) string {
	n := b.seen[id]
	b.seen[id] = n + 1
	if n == 0 {
		return id
	}
	for {
		candidate := id + "~" + strconv.Itoa(n)
		if b.seen[candidate] == 0 {
			b.seen[candidate] = 1
			return candidate
		}
		n++
	}
}

func (b *builder) walk(v *document.Value, parent string, level int) {
	prefix := parent + "-" + strconv.Itoa(level)
	switch v.Kind {
	case document.Mapping:
		for i, e := range v.Entries {
			b.child(prefix, parent, e.Key, i, e.Value, level)
		}
	case document.Sequence:
		for i, item := range v.Items {
			b.child(prefix, parent, strconv.Itoa(i), i, item, level)
		}
	default:
		id := b.unique(prefix + "-value")
		b.add(parent, Node{ID: id, Label: v.String(), Kind: KindLeaf})
	}
}

func (b *builder) child(prefix, parent, key string, i int, v *document.Value, level int) {
	kind := KindLeaf
	if v.IsContainer() {
		kind = KindContainer
	}
	id := b.unique(prefix + "-" + key + "-" + strconv.Itoa(i))
	b.add(parent, Node{ID: id, Label: key, Kind: kind})
	b.walk(v, id, level+1)
}

func (b *builder) add(parent string, n Node) {
	b.nodes = append(b.nodes, n)
	b.edges = append(b.edges, Edge{ID: EdgeID(parent, n.ID), Source: parent, Target: n.ID})
}

// Root returns the root node, which Build always emits first.
func (g Graph) Root() (Node, bool) {
	for _, n := range g.Nodes {
		if n.Kind == KindRoot {
			return n, true
		}
	}
	return Node{}, false
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// DAG converts the graph into a layered graph. Every node starts in row 0;
// run transform.AssignLayers to compute depths. Returns an error when an
// edge references an unknown node or an ID is duplicated.
func (g Graph) DAG() (*dag.DAG, error) {
	d := dag.New()
	for _, n := range g.Nodes {
		if err := d.AddNode(dag.Node{ID: n.ID, Meta: dag.Metadata{"label": n.Label, "kind": string(n.Kind)}}); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges {
		if err := d.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Validate checks that the graph is a single rooted tree: unique IDs, known
// edge endpoints, one root, at most one parent per node, no cycles, and every
// node reachable from the root.
func (g Graph) Validate() error {
	d, err := g.DAG()
	if err != nil {
		return err
	}
	return d.ValidateTree()
}

// Depths returns the distance of every node from the root.
func (g Graph) Depths() map[string]int {
	children := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}
	root, ok := g.Root()
	if !ok {
		return nil
	}
	depths := map[string]int{root.ID: 0}
	queue := []string{root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			if _, seen := depths[c]; seen {
				continue
			}
			depths[c] = depths[id] + 1
			queue = append(queue, c)
		}
	}
	return depths
}
