// Package mcpserver exposes the visualization pipeline as Model Context
// Protocol tools, served over stdio by `yamlviz mcp`.
//
// Tools:
//
//   - visualize_yaml: lay out every document of a YAML stream
//   - locate_yaml_error: find the line a parser message points at
//   - fix_yaml: suggest a corrected document (only when a fixer is configured)
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/yamlviz/pkg/buildinfo"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/locate"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

const serverName = "yamlviz"

type VisualizeRequest struct {
	Text      string `json:"yaml_text"`
	Direction string `json:"direction"`
	Detailed  bool   `json:"detailed"`
}

// VisualizeResponse summarizes every document and carries the full
// visualization for clients that want to draw it.
type VisualizeResponse struct {
	Documents     []DocumentSummary   `json:"documents"`
	Visualization graph.Visualization `json:"visualization"`
}

type DocumentSummary struct {
	Index  int                `json:"index"`
	Nodes  int                `json:"nodes"`
	Edges  int                `json:"edges"`
	Width  float64            `json:"width"`
	Height float64            `json:"height"`
	Error  *graph.ErrorRecord `json:"error,omitempty"`
}

type LocateRequest struct {
	ErrorMessage string `json:"error_message"`
	Text         string `json:"yaml_text"`
}

// LocateResponse reports a 1-based line for people and the 0-based index
// used everywhere else.
type LocateResponse struct {
	Found      bool   `json:"found"`
	Line       int    `json:"line,omitempty"`
	LineIndex  int    `json:"line_index,omitempty"`
	Column     *int   `json:"column,omitempty"`
	SourceLine string `json:"source_line,omitempty"`
}

type FixRequest struct {
	Text         string `json:"yaml_text"`
	ErrorMessage string `json:"error_message"`
}

// Deps are the collaborators of the tools. A nil Fixer leaves fix_yaml
// unregistered.
type Deps struct {
	Runner  *pipeline.Runner
	Fixer   fix.Fixer
	Options pipeline.Options
	Logger  *log.Logger
}

// NewServer creates the MCP server with its tools registered.
func NewServer(deps Deps) *server.MCPServer {
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(nil, nil, deps.Logger)
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	s := server.NewMCPServer(serverName, buildinfo.Version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("visualize_yaml",
		mcp.WithDescription("Parse a multi-document YAML stream and lay out each document as a tree of 160x40 boxes. Returns one graph or error record per document."),
		mcp.WithString("yaml_text", mcp.Required(), mcp.Description("The YAML text, documents separated by ---")),
		mcp.WithString("direction", mcp.Description("Layout direction: TB (default), BT, LR or RL")),
		mcp.WithBoolean("detailed", mcp.Description("Label nodes with their ids")),
	), mcp.NewTypedToolHandler(visualizeHandler(deps)))

	s.AddTool(mcp.NewTool("locate_yaml_error",
		mcp.WithDescription("Find the line a YAML parser error message refers to"),
		mcp.WithString("error_message", mcp.Required(), mcp.Description("The parser error message")),
		mcp.WithString("yaml_text", mcp.Description("The YAML text, to return the offending source line")),
	), mcp.NewTypedToolHandler(locateHandler))

	if deps.Fixer != nil {
		s.AddTool(mcp.NewTool("fix_yaml",
			mcp.WithDescription("Suggest a corrected version of a YAML document that fails to parse"),
			mcp.WithString("yaml_text", mcp.Required(), mcp.Description("The faulty YAML text")),
			mcp.WithString("error_message", mcp.Required(), mcp.Description("The parser error message")),
		), mcp.NewTypedToolHandler(fixHandler(deps)))
	}
	return s
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func visualizeHandler(deps Deps) func(context.Context, mcp.CallToolRequest, VisualizeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args VisualizeRequest) (*mcp.CallToolResult, error) {
		if err := errors.ValidateDocumentText(args.Text, 0); err != nil {
			return toolError(err), nil
		}
		opts := deps.Options.Merge(pipeline.Options{
			Direction: args.Direction,
			Detailed:  args.Detailed,
			MaxBytes:  errors.MaxDocumentBytes,
			Logger:    deps.Logger,
		})
		v, err := deps.Runner.Visualize(ctx, args.Text, opts)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(VisualizeResponse{Documents: summarize(v), Visualization: v})
	}
}

func summarize(v graph.Visualization) []DocumentSummary {
	out := make([]DocumentSummary, v.Len())
	for i, d := range v.Documents {
		out[i] = DocumentSummary{
			Index:  i,
			Nodes:  len(d.Nodes),
			Edges:  len(d.Edges),
			Width:  d.Width,
			Height: d.Height,
			Error:  v.Errors[i],
		}
	}
	return out
}

func locateHandler(_ context.Context, _ mcp.CallToolRequest, args LocateRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.ErrorMessage) == "" {
		return mcp.NewToolResultError("error_message is required"), nil
	}
	line, ok := locate.Locate(args.ErrorMessage)
	if !ok {
		return jsonResult(LocateResponse{})
	}
	resp := LocateResponse{Found: true, Line: line + 1, LineIndex: line}
	if col, ok := locate.Column(args.ErrorMessage); ok {
		resp.Column = &col
	}
	if lines := pipeline.SplitLines(args.Text); line < len(lines) {
		resp.SourceLine = strings.TrimRight(lines[line], "\r")
	}
	return jsonResult(resp)
}

func fixHandler(deps Deps) func(context.Context, mcp.CallToolRequest, FixRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args FixRequest) (*mcp.CallToolResult, error) {
		if args.Text == "" || args.ErrorMessage == "" {
			return mcp.NewToolResultError("yaml_text and error_message are required"), nil
		}
		if err := errors.ValidateDocumentText(args.Text, 0); err != nil {
			return toolError(err), nil
		}
		res, err := deps.Fixer.Fix(ctx, fix.Request{DocumentText: args.Text, ErrorMessage: args.ErrorMessage})
		if err != nil {
			deps.Logger.Debug("fix_yaml failed", "error", err)
			return toolError(err), nil
		}
		return jsonResult(res)
	}
}

func toolError(err error) *mcp.CallToolResult {
	if code := errors.GetCode(err); code != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", code, errors.UserMessage(err)))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
