package pipeline

import (
	"context"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/render"
)

// Artifact is one exported document.
type Artifact struct {
	Document int
	Format   string
	Data     []byte
}

// Name returns the conventional file name of the artifact.
func (a Artifact) Name() string { return ArtifactName(a.Document, a.Format) }

// Export renders the document at index in the given format.
// Failed documents cannot be exported and yield their parse error.
func Export(ctx context.Context, v graph.Visualization, index int, format string, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if index < 0 || index >= v.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document %d does not exist (input has %d)", index, v.Len())
	}
	if rec := v.Errors[index]; rec != nil {
		return nil, errors.New(errors.ErrCodeParse, "document %d has no graph: %s", index, rec.Message)
	}
	return render.Export(ctx, v.Documents[index], format, opts.exportOptions()...)
}

// ExportAll renders every valid document in every requested format, in
// document order. Failed documents are skipped.
func ExportAll(ctx context.Context, v graph.Visualization, opts Options) ([]Artifact, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	var out []Artifact
	for i := range v.Documents {
		if v.Errors[i] != nil {
			continue
		}
		for _, f := range opts.Formats {
			data, err := Export(ctx, v, i, f, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, Artifact{Document: i, Format: f, Data: data})
		}
	}
	return out, nil
}
