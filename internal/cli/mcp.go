package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/internal/mcpserver"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

// mcpCommand creates the mcp command, which serves the pipeline as Model
// Context Protocol tools on stdio. Logs go to stderr; stdout carries the
// protocol.
func (c *CLI) mcpCommand() *cobra.Command {
	var (
		noCache bool
		noFix   bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve yamlviz tools over the Model Context Protocol (stdio)",
		Long: `Serve yamlviz tools over the Model Context Protocol (stdio).

Tools: visualize_yaml, locate_yaml_error and, unless --no-fix is given,
fix_yaml. Register the command with an MCP client, for example:

  {"command": "yamlviz", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			ch := c.openCache(cmd.Context(), noCache)
			runner := pipeline.NewRunner(ch, cfg.Keyer(), c.Logger)
			defer runner.Close()

			deps := mcpserver.Deps{
				Runner:  runner,
				Options: c.pipelineOptions(pipeline.Options{}),
				Logger:  c.Logger,
			}
			if !noFix {
				deps.Fixer = c.newFixer(ch, false)
			}
			c.Logger.Debug("serving MCP on stdio")
			return mcpserver.ServeStdio(mcpserver.NewServer(deps))
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noFix, "no-fix", false, "do not offer the fix_yaml tool")

	return cmd
}
