// Package nodelink renders laid-out document trees as node-link diagrams.
//
// # Overview
//
// Positions come from pkg/layout, not from Graphviz. [ToDOT] writes every
// node with a pinned position (pos="x,y!") and a fixed-size box, and
// [RenderSVG] runs the neato engine, which keeps pinned nodes where they are
// and only routes the edges. The drawing therefore matches the coordinates
// returned by the API and the JSON export exactly.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render package:
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Styling
//
// Node fills follow the node's role in the tree: the synthetic root is grey,
// keys and sequence items are white with a grey border, and scalar values are
// pale blue.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
