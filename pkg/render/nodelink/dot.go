package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// pointsPerInch converts layout units (treated as points) to the inches
// Graphviz expects for node sizes.
const pointsPerInch = 72.0

// DefaultMaxLabel is the label length, in runes, above which labels are
// shortened with an ellipsis so they fit the fixed box.
const DefaultMaxLabel = 22

// Node fill colours.
const (
	RootFill  = "#e0e0e0"
	KeyFill   = "#ffffff"
	KeyBorder = "#b4b4b4"
	ValueFill = "#f0f0ff"
)

// Options configures diagram generation.
type Options struct {
	// MaxLabel overrides DefaultMaxLabel. Negative disables shortening.
	MaxLabel int
	// Detailed appends the node ID to every label.
	Detailed bool
}

// ToDOT converts a laid-out document to Graphviz DOT with every node pinned
// at its layout position. Graphviz's y axis points up, so y is flipped
// against the drawing height.
func ToDOT(d graph.DocumentGraph, opts Options) string {
	maxLabel := opts.MaxLabel
	if maxLabel == 0 {
		maxLabel = DefaultMaxLabel
	}

	hasChildren := make(map[string]bool, len(d.Nodes))
	for _, e := range d.Edges {
		hasChildren[e.Source] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [layout=neato, splines=true, overlap=true, bgcolor=\"white\", pad=\"0.2\", bb=\"0,0,%s,%s\"];\n",
		num(d.Width), num(d.Height))
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"Helvetica\", fontsize=12, penwidth=1];\n")
	buf.WriteString("  edge [color=\"#888888\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		label := shorten(n.Label, maxLabel)
		if opts.Detailed {
			label += "\n" + n.ID
		}
		attrs := []string{
			"label=" + quote(label),
			fmt.Sprintf("pos=\"%s,%s!\"", num(n.CenterX()), num(d.Height-n.CenterY())),
			"width=" + num(n.Width/pointsPerInch),
			"height=" + num(n.Height/pointsPerInch),
		}
		attrs = append(attrs, styleAttrs(n.Kind, hasChildren[n.ID])...)
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.Source), quote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func styleAttrs(kind tree.Kind, hasChildren bool) []string {
	switch {
	case kind == tree.KindRoot:
		return []string{"fillcolor=\"" + RootFill + "\"", "color=\"" + RootFill + "\""}
	case kind == tree.KindLeaf && !hasChildren:
		return []string{"fillcolor=\"" + ValueFill + "\"", "color=\"" + ValueFill + "\""}
	}
	return []string{"fillcolor=\"" + KeyFill + "\"", "color=\"" + KeyBorder + "\""}
}

func shorten(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:max(limit-1, 1)]) + "…"
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", `\n`)

// quote renders s as a DOT double-quoted string.
func quote(s string) string { return `"` + dotEscaper.Replace(s) + `"` }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG with the neato engine, honouring the
// pinned node positions written by ToDOT.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT source straight to PNG with Graphviz. It is the
// fallback when rsvg-convert is not installed.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose width and
// height equal the viewBox, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
