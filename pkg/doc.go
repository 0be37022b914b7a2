// Package pkg provides the core libraries for yamlviz YAML visualization.
//
// # Overview
//
// yamlviz turns a multi-document YAML stream into one tree drawing per
// document. Every key, nested mapping, sequence item and scalar value becomes
// a fixed-size box; boxes are placed in ranks by a layered (Sugiyama) layout.
// Documents that fail to parse produce an error record with the offending
// line instead of a drawing, and never stop the other documents.
//
// # Architecture
//
// The data flow through yamlviz:
//
//	YAML text
//	     ↓
//	[document] package (split the stream, decode each document)
//	     ↓
//	[locate] package (line and column of a parser message)
//	     ↓
//	[tree] package (node ids, labels and edges per document)
//	     ↓
//	[dag] + [layout] packages (ranks, crossing reduction, coordinates)
//	     ↓
//	[render] package (SVG/PNG/PDF/DOT/JSON)
//
// # Quick Start
//
// Run the whole pipeline on a text:
//
//	import "github.com/matzehuels/yamlviz/pkg/pipeline"
//
//	v, err := pipeline.Run(ctx, "a: 1\nb:\n  c: 2\n", pipeline.Options{})
//	for i, d := range v.Documents {
//	    if rec := v.Errors[i]; rec != nil {
//	        fmt.Printf("document %d: %s (%s)\n", i, rec.Message, rec.Location())
//	        continue
//	    }
//	    fmt.Printf("document %d: %d nodes\n", i, len(d.Nodes))
//	}
//
// # Main Packages
//
// ## Domain
//
// [document] - Multi-document parsing on top of gopkg.in/yaml.v3 with
// duplicate key detection and a node budget.
//
// [locate] - Extraction of line and column from parser messages.
//
// [tree] - Tree building with stable, path-derived node ids.
//
// [dag] - Layered directed graph used by the layout, with crossing counting.
//
// [layout] - Sugiyama layout: layering, ordering and coordinate assignment.
//
// [graph] - Serialization types for drawn documents and error records.
//
// [render] - Export of a drawn document through Graphviz and rsvg-convert.
//
// [fix] - Suggestions for invalid documents: local heuristics and a remote
// language model.
//
// ## Infrastructure
//
// [pipeline] - Complete visualization pipeline (parse → build → layout →
// export) used by the CLI, the HTTP server and the MCP tools.
//
// [cache] - Result and artifact caching with file, Redis and MongoDB backends.
//
// [config] - TOML configuration with environment overrides.
//
// [server] - HTTP API built on chi.
//
// [metrics] and [observability] - Prometheus metrics and the hooks that feed
// them.
//
// [httputil] - HTTP client with retries, used by the remote fixer.
//
// [errors] - Coded errors shared by every entry point.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// [document]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/document
// [locate]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/locate
// [tree]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/tree
// [dag]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/render
// [fix]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/fix
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/server
// [metrics]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/yamlviz/pkg/errors
package pkg
