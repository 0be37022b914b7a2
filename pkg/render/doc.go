// Package render exports laid-out documents as images and data.
//
// # Overview
//
// [Export] turns one [graph.DocumentGraph] into a single artifact:
//
//   - svg: node-link diagram rendered in-process by Graphviz
//   - png: the SVG rasterized by rsvg-convert, or Graphviz directly when
//     rsvg-convert is missing
//   - pdf: the SVG converted by rsvg-convert
//   - dot: the Graphviz source with pinned node positions
//   - json: the document's nodes, edges and coordinates
//
// Node positions always come from pkg/layout, so every format shows the same
// drawing the API returns.
//
//	svg, err := render.Export(ctx, doc, render.FormatSVG)
//	png, err := render.Export(ctx, doc, render.FormatPNG, render.WithScale(2))
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). When the tool is not installed they fail with an
// UNSUPPORTED error.
//
// [graph.DocumentGraph]: github.com/matzehuels/yamlviz/pkg/graph.DocumentGraph
package render
