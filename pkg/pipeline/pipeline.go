// Package pipeline provides the core visualization pipeline for yamlviz.
//
// This package implements the complete parse → build → layout → export
// pipeline used by the CLI, the HTTP server and the MCP tools. By
// centralizing this logic, every entry point turns the same text into the
// same drawing.
//
// # Architecture
//
// The pipeline is a pure function of the input text and the options:
//
//  1. Parse: split the stream and decode every document ([document.ParseAll])
//  2. Build: turn each decoded document into a node/edge tree ([tree.Build])
//  3. Layout: position each tree ([layout.Graph])
//  4. Export: render documents as SVG, PNG, PDF, DOT or JSON ([render.Export])
//
// Steps 1 to 3 are performed by [Run], which returns a
// [graph.Visualization] whose documents and errors are index-aligned with
// the documents of the input. A failed document never stops the others.
// Nothing is carried over between calls: every change to the text is a full
// rebuild.
//
// # Usage
//
// Run the pure pipeline:
//
//	v, err := pipeline.Run(ctx, text, pipeline.Options{})
//
// Or use a Runner to memoize results and artifacts:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, text, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts[0].Data
package pipeline

import (
	"cmp"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/document"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/layout/ordering"
	"github.com/matzehuels/yamlviz/pkg/render"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and MCP
// =============================================================================

const (
	// DefaultMaxNodes bounds the values one document may expand to.
	DefaultMaxNodes = document.DefaultMaxNodes

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultDirection is the layout flow direction.
	DefaultDirection = string(layout.DefaultDirection)
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatJSON = render.FormatJSON
	FormatDOT  = render.FormatDOT
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	DuplicateKeys bool `json:"duplicate_keys,omitempty"` // keep repeated mapping keys
	MaxNodes      int  `json:"max_nodes,omitempty" validate:"gte=0"`
	MaxBytes      int  `json:"-"` // input cap; 0 disables the check

	// Layout options
	Direction      string  `json:"direction,omitempty"`
	NodeWidth      float64 `json:"node_width,omitempty" validate:"gte=0"`
	NodeHeight     float64 `json:"node_height,omitempty" validate:"gte=0"`
	NodeSep        float64 `json:"node_sep,omitempty" validate:"gte=0"`
	RankSep        float64 `json:"rank_sep,omitempty" validate:"gte=0"`
	RootLabel      string  `json:"root_label,omitempty"`
	OrderingPasses int     `json:"ordering_passes,omitempty" validate:"gte=0"`

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty" validate:"gte=0"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // bypass cached results

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	dir, err := layout.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = string(dir)

	for name, v := range map[string]float64{
		"node_width": o.NodeWidth, "node_height": o.NodeHeight,
		"node_sep": o.NodeSep, "rank_sep": o.RankSep, "scale": o.Scale,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative", name)
		}
	}
	if o.MaxNodes < 0 || o.OrderingPasses < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_nodes and ordering_passes must not be negative")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.NodeWidth == 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	if o.NodeSep == 0 {
		o.NodeSep = layout.DefaultNodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = layout.DefaultRankSep
	}
	if o.RootLabel == "" {
		o.RootLabel = tree.DefaultRootLabel
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.OrderingPasses == 0 {
		o.OrderingPasses = ordering.DefaultPasses
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Merge returns a copy of o with every non-zero field of over applied on
// top. Booleans are or-ed, except Refresh which is taken from over. The
// result needs ValidateAndSetDefaults again.
func (o Options) Merge(over Options) Options {
	m := Options{
		DuplicateKeys:  o.DuplicateKeys || over.DuplicateKeys,
		MaxNodes:       cmp.Or(over.MaxNodes, o.MaxNodes),
		MaxBytes:       cmp.Or(over.MaxBytes, o.MaxBytes),
		Direction:      cmp.Or(over.Direction, o.Direction),
		NodeWidth:      cmp.Or(over.NodeWidth, o.NodeWidth),
		NodeHeight:     cmp.Or(over.NodeHeight, o.NodeHeight),
		NodeSep:        cmp.Or(over.NodeSep, o.NodeSep),
		RankSep:        cmp.Or(over.RankSep, o.RankSep),
		RootLabel:      cmp.Or(over.RootLabel, o.RootLabel),
		OrderingPasses: cmp.Or(over.OrderingPasses, o.OrderingPasses),
		Formats:        o.Formats,
		Scale:          cmp.Or(over.Scale, o.Scale),
		Detailed:       o.Detailed || over.Detailed,
		Refresh:        over.Refresh,
		Logger:         cmp.Or(over.Logger, o.Logger),
	}
	if len(over.Formats) > 0 {
		m.Formats = over.Formats
	}
	return m
}

// parseOptions returns the document parser options.
func (o *Options) parseOptions() []document.Option {
	return []document.Option{
		document.WithDuplicateKeys(o.DuplicateKeys),
		document.WithMaxNodes(o.MaxNodes),
	}
}

// layoutOptions returns the layout engine options.
func (o *Options) layoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithDirection(layout.Direction(o.Direction)),
		layout.WithNodeSize(o.NodeWidth, o.NodeHeight),
		layout.WithSpacing(o.NodeSep, o.RankSep),
		layout.WithOrderer(ordering.Barycentric{Passes: o.OrderingPasses}),
	}
}

// exportOptions returns the export options.
func (o *Options) exportOptions() []render.Option {
	return []render.Option{render.WithScale(o.Scale), render.WithDetailed(o.Detailed)}
}

// ResultKeyOpts returns cache key options for a pipeline result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Direction:      o.Direction,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		NodeSep:        o.NodeSep,
		RankSep:        o.RankSep,
		RootLabel:      o.RootLabel,
		DuplicateKeys:  o.DuplicateKeys,
		MaxNodes:       o.MaxNodes,
		OrderingPasses: o.OrderingPasses,
	}
}

// ArtifactKeyOpts returns cache key options for one exported document.
func (o *Options) ArtifactKeyOpts(doc int, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Document: doc}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.Detailed {
		k.Format += "+detailed"
	}
	return k
}

// ArtifactName is the conventional file name of an exported document.
func ArtifactName(doc int, format string) string {
	return fmt.Sprintf("document-%d.%s", doc, format)
}
