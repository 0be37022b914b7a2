package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/yamlviz/pkg/document"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/observability"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// BuildDocument builds and lays out one successfully decoded document.
// A layout error means the tree builder produced something that is not a
// tree and is reported as-is.
func BuildDocument(ctx context.Context, d document.Document, opts Options) (graph.DocumentGraph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.DocumentGraph{}, err
	}
	g := tree.Build(d.Value, tree.RootID(d.Index), opts.RootLabel)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, d.Index, len(g.Nodes))
	start := time.Now()

	res, err := layout.Graph(ctx, g, opts.layoutOptions()...)
	hooks.OnLayoutComplete(ctx, d.Index, time.Since(start), err)
	if err != nil {
		return graph.DocumentGraph{}, err
	}

	opts.Logger.Debug("laid out document", "document", d.Index, "layout", res.Describe())
	return graph.DocumentGraph{Index: d.Index, Result: res}, nil
}

// emptyDocument is the placeholder graph of a failed document.
func emptyDocument(index int, dir string) graph.DocumentGraph {
	return graph.DocumentGraph{Index: index, Result: layout.Result{Direction: layout.Direction(dir)}}
}
