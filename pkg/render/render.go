package render

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/observability"
	"github.com/matzehuels/yamlviz/pkg/render/nodelink"
)

// Export formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every supported export format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ParseFormat normalizes s and checks it is a supported format.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %s (must be %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// ContentType returns the MIME type of an exported format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "text/vnd.graphviz"
}

// Options controls an export.
type Options struct {
	Scale    float64 // PNG scale factor
	MaxLabel int
	Detailed bool
}

// Option mutates Options.
type Option func(*Options)

// WithScale sets the PNG scale factor.
func WithScale(scale float64) Option { return func(o *Options) { o.Scale = scale } }

// WithMaxLabel sets the label length above which labels are shortened.
func WithMaxLabel(n int) Option { return func(o *Options) { o.MaxLabel = n } }

// WithDetailed appends node IDs to labels.
func WithDetailed(detailed bool) Option { return func(o *Options) { o.Detailed = detailed } }

// Export renders a laid-out document in the given format. A document without
// nodes cannot be drawn and yields an EMPTY_DOCUMENT error for every format
// except JSON.
func Export(ctx context.Context, d graph.DocumentGraph, format string, opts ...Option) (out []byte, err error) {
	o := Options{Scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, f)
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, f, len(out), time.Since(start), err) }()

	if f == FormatJSON {
		return graph.MarshalDocument(d)
	}
	if d.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document %d has no graph to render", d.Index)
	}

	dot := nodelink.ToDOT(d, nodelink.Options{MaxLabel: o.MaxLabel, Detailed: o.Detailed})
	if f == FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render document %d", d.Index)
	}

	switch f {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		if !HasRSVG() {
			png, err := nodelink.RenderPNG(ctx, dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render document %d", d.Index)
			}
			return png, nil
		}
		return ToPNG(ctx, svg, o.Scale)
	}
	return svg, nil
}
