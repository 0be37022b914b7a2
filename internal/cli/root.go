package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the yamlviz CLI with the process arguments.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stderr)
}

// run builds the command tree and executes it with args. It is split from
// Execute so tests can drive the CLI without touching os.Args.
func run(ctx context.Context, args []string, logOut io.Writer) error {
	var verbose bool

	c := New(logOut, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return loadConfig(cmd, args)
	}

	root.SetOut(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
