package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/yamlviz/pkg/document"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/locate"
	"github.com/matzehuels/yamlviz/pkg/observability"
)

// Parse splits text into documents and decodes each one.
func Parse(ctx context.Context, text string, opts Options) ([]document.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.MaxBytes > 0 {
		if err := errors.ValidateDocumentText(text, opts.MaxBytes); err != nil {
			return nil, err
		}
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(text))
	start := time.Now()

	docs := document.ParseAll(text, opts.parseOptions()...)

	failed := 0
	for _, d := range docs {
		if !d.OK() {
			failed++
		}
	}
	hooks.OnParseComplete(ctx, len(docs), failed, time.Since(start))
	opts.Logger.Debug("parsed input", "documents", len(docs), "failed", failed)
	return docs, nil
}

// NewErrorRecord describes a failed document. When the parser did not report
// a position, the line and column are recovered from the message. lines is
// the full input split on "\n" and is used to attach the offending line.
func NewErrorRecord(d document.Document, lines []string) *graph.ErrorRecord {
	if d.Err == nil {
		return nil
	}
	rec := &graph.ErrorRecord{
		DocumentIndex: d.Index,
		Code:          string(d.Err.Code),
		Message:       d.Err.Message,
		Line:          d.Err.Line,
		Column:        d.Err.Column,
	}
	if rec.Line == nil {
		if n, ok := locate.Locate(rec.Message); ok {
			rec.Line = &n
		}
	}
	if rec.Column == nil {
		if c, ok := locate.Column(rec.Message); ok {
			rec.Column = &c
		}
	}
	if rec.Line != nil && *rec.Line >= 0 && *rec.Line < len(lines) {
		rec.SourceLine = strings.TrimRight(lines[*rec.Line], "\r")
	}
	return rec
}

// SplitLines splits text into lines the way error records number them.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
