package pipeline

import (
	"context"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/layout"
)

// Run turns text into one laid-out graph per document. Documents and Errors
// of the result are index-aligned with the input: a document that failed to
// parse has an empty graph and an error record, every other document has a
// graph and a nil record. The returned error is reserved for invalid options,
// oversized input and internal faults.
func Run(ctx context.Context, text string, opts Options) (graph.Visualization, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Visualization{}, err
	}

	docs, err := Parse(ctx, text, opts)
	if err != nil {
		return graph.Visualization{}, err
	}

	v := graph.Visualization{
		Version:   graph.FormatVersion,
		Direction: layout.Direction(opts.Direction),
		Documents: make([]graph.DocumentGraph, len(docs)),
		Errors:    make([]*graph.ErrorRecord, len(docs)),
	}
	var lines []string
	for i, d := range docs {
		if err := ctx.Err(); err != nil {
			return graph.Visualization{}, errors.Wrap(errors.ErrCodeTimeout, err, "visualize")
		}
		if !d.OK() {
			if lines == nil {
				lines = SplitLines(text)
			}
			v.Documents[i] = emptyDocument(d.Index, opts.Direction)
			v.Errors[i] = NewErrorRecord(d, lines)
			opts.Logger.Warn("document failed", "document", d.Index, "error", d.Err.Message)
			continue
		}
		dg, err := BuildDocument(ctx, d, opts)
		if err != nil {
			return graph.Visualization{}, err
		}
		v.Documents[i] = dg
	}

	opts.Logger.Info("visualized input", "documents", v.Len(), "failed", len(v.Failed()))
	return v, nil
}
