// Package graph provides the serialization types for laid-out YAML documents.
//
// This package defines the canonical wire format for yamlviz results, used for
// JSON files, API responses, caching, and the MCP tools.
//
// # Architecture
//
// The package sits at the serialization boundary between the pipeline and
// everything that stores or transmits its output:
//
//   - [Visualization]: one result for a whole input stream (this package)
//   - [DocumentGraph]: one laid-out document tree
//   - [ErrorRecord]: one failed document
//   - pkg/layout.Result: the positions a DocumentGraph wraps
//
// # Index Alignment
//
// Documents and Errors always have the same length, and entry i of each
// describes the i-th document of the input. A document that failed to parse
// has an empty DocumentGraph and a non-nil ErrorRecord; a valid document has a
// nil ErrorRecord:
//
//	{
//	  "documents": [{"index": 0, "nodes": [...]}, {"index": 1, "nodes": []}],
//	  "errors":    [null, {"document_index": 1, "message": "...", "line": 3}]
//	}
//
// # Serialization
//
//	data, _ := graph.MarshalVisualization(v)      // Visualization → []byte
//	v, _ := graph.UnmarshalVisualization(data)    // []byte → Visualization
//	graph.WriteVisualizationFile(v, "out.json")   // Visualization → File
//	v, _ = graph.ReadVisualizationFile("out.json") // File → Visualization
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
