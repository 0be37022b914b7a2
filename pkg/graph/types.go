package graph

import (
	"fmt"

	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// FormatVersion is bumped whenever the wire format changes incompatibly.
const FormatVersion = 1

// =============================================================================
// DocumentGraph - One Laid-Out Document
// =============================================================================

// DocumentGraph is the laid-out tree of one document. A failed document has
// no nodes and no edges.
type DocumentGraph struct {
	Index         int `json:"index" bson:"index"`
	layout.Result `bson:",inline"`
}

// Empty reports whether the document produced no graph.
func (d DocumentGraph) Empty() bool { return len(d.Nodes) == 0 }

// Tree strips positions and returns the underlying node/edge tree.
func (d DocumentGraph) Tree() tree.Graph {
	g := tree.Graph{
		Nodes: make([]tree.Node, len(d.Nodes)),
		Edges: append([]tree.Edge(nil), d.Edges...),
	}
	for i, n := range d.Nodes {
		g.Nodes[i] = n.Node
	}
	return g
}

// =============================================================================
// ErrorRecord - One Failed Document
// =============================================================================

// ErrorRecord describes why a document produced no graph.
type ErrorRecord struct {
	DocumentIndex int    `json:"document_index" bson:"document_index"`
	Code          string `json:"code,omitempty" bson:"code,omitempty"`
	Message       string `json:"message" bson:"message"`
	Line          *int   `json:"line,omitempty" bson:"line,omitempty"` // 0-based, absolute in the input
	Column        *int   `json:"column,omitempty" bson:"column,omitempty"`
	SourceLine    string `json:"source_line,omitempty" bson:"source_line,omitempty"`
}

// Error implements error.
func (e *ErrorRecord) Error() string { return e.Message }

// Location renders the 1-based position of the error, or "" when unknown.
func (e *ErrorRecord) Location() string {
	switch {
	case e.Line == nil:
		return ""
	case e.Column == nil:
		return fmt.Sprintf("line %d", *e.Line+1)
	}
	return fmt.Sprintf("line %d, column %d", *e.Line+1, *e.Column+1)
}

// =============================================================================
// Visualization - Whole-Stream Result
// =============================================================================

// Visualization is the result for a complete input stream. Documents and
// Errors are index-aligned with the documents of the input.
type Visualization struct {
	Version   int              `json:"version" bson:"version"`
	Direction layout.Direction `json:"direction" bson:"direction"`
	Documents []DocumentGraph  `json:"documents" bson:"documents"`
	Errors    []*ErrorRecord   `json:"errors" bson:"errors"`
}

// Len returns the number of documents.
func (v Visualization) Len() int { return len(v.Documents) }

// Failed returns the non-nil error records in document order.
func (v Visualization) Failed() []*ErrorRecord {
	var out []*ErrorRecord
	for _, e := range v.Errors {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// OK reports whether every document produced a graph.
func (v Visualization) OK() bool { return len(v.Failed()) == 0 }

// Document returns the graph at index, if it exists and did not fail.
func (v Visualization) Document(index int) (DocumentGraph, bool) {
	if index < 0 || index >= len(v.Documents) || v.Errors[index] != nil {
		return DocumentGraph{}, false
	}
	return v.Documents[index], true
}

// Validate checks the index alignment of Documents and Errors.
func (v Visualization) Validate() error {
	if len(v.Documents) != len(v.Errors) {
		return fmt.Errorf("documents (%d) and errors (%d) are not index-aligned", len(v.Documents), len(v.Errors))
	}
	for i, d := range v.Documents {
		if d.Index != i {
			return fmt.Errorf("document %d has index %d", i, d.Index)
		}
		if e := v.Errors[i]; e != nil {
			if e.DocumentIndex != i {
				return fmt.Errorf("error record %d has document index %d", i, e.DocumentIndex)
			}
			if !d.Empty() {
				return fmt.Errorf("document %d has both a graph and an error", i)
			}
		}
	}
	return nil
}
