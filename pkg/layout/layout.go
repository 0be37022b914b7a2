// Package layout assigns 2D coordinates to document trees.
//
// The algorithm is a Sugiyama-style layered layout in three phases:
//
//  1. Ranking: every node is assigned a rank equal to its distance from the
//     root ([transform.AssignLayers]).
//  2. Ordering: nodes within each rank are ordered to avoid edge crossings
//     ([ordering.Barycentric] by default).
//  3. Coordinates: leaves take consecutive slots along the cross axis in
//     final order and every parent is centered over its first and last child;
//     ranks are stacked along the main axis.
//
// Every node occupies the same fixed box (160×40 by default) regardless of
// its label. Positions are reported as the top-left corner of the box, with
// the bounding box of the whole drawing starting at (0, 0).
//
// Layout is a pure function: it never mutates its input and recomputes every
// position from scratch on each call.
package layout

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/yamlviz/pkg/dag"
	"github.com/matzehuels/yamlviz/pkg/dag/transform"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/layout/ordering"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// Default box and spacing values, in logical units.
const (
	DefaultNodeWidth  = 160.0
	DefaultNodeHeight = 40.0
	DefaultNodeSep    = 50.0
	DefaultRankSep    = 50.0
)

// Direction is the flow direction of the drawing.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// DefaultDirection is top-to-bottom.
const DefaultDirection = TopToBottom

// ParseDirection accepts TB, BT, LR and RL in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return d, nil
	case "":
		return DefaultDirection, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "invalid direction: %s (must be TB, BT, LR or RL)", s)
}

// Vertical reports whether ranks are stacked along the y axis.
func (d Direction) Vertical() bool { return d != LeftToRight && d != RightToLeft }

// SourceSide is the side of a box edges leave from.
func (d Direction) SourceSide() string {
	switch d {
	case BottomToTop:
		return "top"
	case LeftToRight:
		return "right"
	case RightToLeft:
		return "left"
	}
	return "bottom"
}

// TargetSide is the side of a box edges arrive at.
func (d Direction) TargetSide() string {
	switch d {
	case BottomToTop:
		return "bottom"
	case LeftToRight:
		return "left"
	case RightToLeft:
		return "right"
	}
	return "top"
}

// Options controls the layout.
type Options struct {
	Direction  Direction
	NodeWidth  float64
	NodeHeight float64
	NodeSep    float64 // gap between neighbouring boxes in a rank
	RankSep    float64 // gap between ranks
	Orderer    ordering.Orderer
}

// Option mutates Options.
type Option func(*Options)

// WithDirection sets the flow direction.
func WithDirection(d Direction) Option { return func(o *Options) { o.Direction = d } }

// WithNodeSize sets the fixed box size.
func WithNodeSize(width, height float64) Option {
	return func(o *Options) { o.NodeWidth, o.NodeHeight = width, height }
}

// WithSpacing sets the gaps between boxes and between ranks.
func WithSpacing(nodeSep, rankSep float64) Option {
	return func(o *Options) { o.NodeSep, o.RankSep = nodeSep, rankSep }
}

// WithOrderer replaces the default Barycentric orderer.
func WithOrderer(ord ordering.Orderer) Option { return func(o *Options) { o.Orderer = ord } }

func defaults() Options {
	return Options{
		Direction:  DefaultDirection,
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		NodeSep:    DefaultNodeSep,
		RankSep:    DefaultRankSep,
		Orderer:    ordering.Barycentric{},
	}
}

// Positioned is a tree node with its box.
type Positioned struct {
	tree.Node `bson:",inline"`

	X      float64 `json:"x" bson:"x"` // top-left corner
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Rank   int     `json:"rank" bson:"rank"`
}

// CenterX returns the horizontal center of the box.
func (p Positioned) CenterX() float64 { return p.X + p.Width/2 }

// CenterY returns the vertical center of the box.
func (p Positioned) CenterY() float64 { return p.Y + p.Height/2 }

// Result is a laid-out document tree. Nodes keep the order of the input.
type Result struct {
	Nodes     []Positioned `json:"nodes" bson:"nodes"`
	Edges     []tree.Edge  `json:"edges" bson:"edges"`
	Direction Direction    `json:"direction" bson:"direction"`
	Width     float64      `json:"width" bson:"width"`
	Height    float64      `json:"height" bson:"height"`
	Ranks     int          `json:"ranks" bson:"ranks"`
	Crossings int          `json:"crossings" bson:"crossings"`
}

// Node returns the positioned node with the given ID.
func (r Result) Node(id string) (Positioned, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Positioned{}, false
}

// Graph lays out a tree built by the tree package.
func Graph(ctx context.Context, g tree.Graph, opts ...Option) (Result, error) {
	return Layout(ctx, g.Nodes, g.Edges, opts...)
}

// Layout positions nodes connected by edges. The edges must form a forest:
// an edge naming an unknown node, a node with two parents, or a cycle is a
// LAYOUT_PRECONDITION error. Such input cannot come out of tree.Build, so
// the error signals a bug in the caller rather than bad user input.
func Layout(ctx context.Context, nodes []tree.Node, edges []tree.Edge, opts ...Option) (Result, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Orderer == nil {
		o.Orderer = ordering.Barycentric{}
	}
	dir, err := ParseDirection(string(o.Direction))
	if err != nil {
		return Result{}, err
	}
	o.Direction = dir

	res := Result{Edges: edges, Direction: o.Direction}
	if len(nodes) == 0 {
		return res, nil
	}

	g, err := buildDAG(nodes, edges)
	if err != nil {
		return Result{}, err
	}
	transform.AssignLayers(g)
	if err := g.Validate(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "edges do not form a tree")
	}

	orders := ordering.OrderWithTimeout(ctx, o.Orderer, g, ordering.DefaultTimeout)
	cross := assignCross(g, orders)

	var mainExtent, crossExtent float64
	if o.Direction.Vertical() {
		mainExtent, crossExtent = o.NodeHeight, o.NodeWidth
	} else {
		mainExtent, crossExtent = o.NodeWidth, o.NodeHeight
	}
	pitch := crossExtent + o.NodeSep
	maxRow := g.MaxRow()

	res.Ranks = maxRow + 1
	res.Nodes = make([]Positioned, len(nodes))
	induced := make(map[int][]string, res.Ranks)
	for i, n := range nodes {
		dn, _ := g.Node(n.ID)
		rank := dn.Row
		if o.Direction == BottomToTop || o.Direction == RightToLeft {
			rank = maxRow - dn.Row
		}
		crossCenter := cross[n.ID]*pitch + crossExtent/2
		mainCenter := float64(rank)*(mainExtent+o.RankSep) + mainExtent/2

		p := Positioned{Node: n, Width: o.NodeWidth, Height: o.NodeHeight, Rank: dn.Row}
		if o.Direction.Vertical() {
			p.X, p.Y = crossCenter-o.NodeWidth/2, mainCenter-o.NodeHeight/2
		} else {
			p.X, p.Y = mainCenter-o.NodeWidth/2, crossCenter-o.NodeHeight/2
		}
		res.Nodes[i] = p
		res.Width = max(res.Width, p.X+p.Width)
		res.Height = max(res.Height, p.Y+p.Height)
		induced[dn.Row] = append(induced[dn.Row], n.ID)
	}
	for _, row := range induced {
		sortBySlot(row, cross)
	}
	res.Crossings = dag.CountCrossings(g, induced)
	return res, nil
}

func buildDAG(nodes []tree.Node, edges []tree.Edge) (*dag.DAG, error) {
	g := dag.New()
	for _, n := range nodes {
		if err := g.AddNode(dag.Node{ID: n.ID}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "node %q", n.ID)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutPrecondition, err, "edge %s references an unknown node", e.ID)
		}
	}
	for _, n := range nodes {
		if p := g.InDegree(n.ID); p > 1 {
			return nil, errors.New(errors.ErrCodeLayoutPrecondition, "node %q has %d parents", n.ID, p)
		}
	}
	return g, nil
}

// assignCross returns the cross-axis slot of every node. Leaves take
// consecutive slots in depth-first order, with children visited in their row
// order; a parent sits halfway between its first and last child. Subtrees
// occupy disjoint slot ranges, so boxes in one rank never overlap.
func assignCross(g *dag.DAG, orders map[int][]string) map[string]float64 {
	pos := make(map[string]int, g.NodeCount())
	for _, row := range orders {
		for i, id := range row {
			pos[id] = i
		}
	}

	slots := make(map[string]float64, g.NodeCount())
	next := 0.0
	var place func(id string)
	place = func(id string) {
		children := append([]string(nil), g.Children(id)...)
		if len(children) == 0 {
			slots[id] = next
			next++
			return
		}
		sortByPos(children, pos)
		for _, c := range children {
			place(c)
		}
		slots[id] = (slots[children[0]] + slots[children[len(children)-1]]) / 2
	}

	for _, id := range orders[0] {
		if g.InDegree(id) == 0 {
			place(id)
		}
	}
	return slots
}

func sortByPos(ids []string, pos map[string]int) {
	slices.SortStableFunc(ids, func(a, b string) int { return cmp.Compare(pos[a], pos[b]) })
}

func sortBySlot(ids []string, slots map[string]float64) {
	slices.SortStableFunc(ids, func(a, b string) int { return cmp.Compare(slots[a], slots[b]) })
}

// Describe returns a one-line summary used in logs.
func (r Result) Describe() string {
	return fmt.Sprintf("%d nodes, %d ranks, %.0fx%.0f", len(r.Nodes), r.Ranks, r.Width, r.Height)
}
