package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

// checkCommand creates the check command, which validates a YAML stream
// without exporting anything.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		interactive bool
		noCache     bool
		opts        pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Report documents that fail to parse",
		Long: `Report documents that fail to parse.

Every document is parsed and laid out; failures are printed with their line
and source. The command exits non-zero when any document is invalid, so it
can guard CI pipelines. With --interactive the errors open in a browser where
f requests a fix for the selected document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], interactive, noCache, c.pipelineOptions(opts))
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse errors interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.DuplicateKeys, "duplicate-keys", false, "allow repeated mapping keys")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, interactive, noCache bool, opts pipeline.Options) error {
	text, err := c.readInput(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	v, err := runner.Visualize(ctx, text, opts)
	if err != nil {
		return err
	}

	failed := v.Failed()
	if len(failed) == 0 {
		printSuccess("%s: %d valid document(s)", displayName(input), v.Len())
		return nil
	}

	if interactive {
		rec, err := browseErrors(failed, pipeline.SplitLines(text))
		if err != nil {
			return err
		}
		if rec != nil {
			if err := c.suggestFix(ctx, input, text, rec, fixFlags{noCache: noCache}); err != nil {
				return err
			}
		}
	} else {
		for _, rec := range failed {
			printDocumentError(rec)
		}
	}
	return errors.New(errors.ErrCodeParse, "%d of %d documents are invalid", len(failed), v.Len())
}

// browseErrors runs the error modal and returns the record the user picked
// for fixing, or nil when the modal was closed.
func browseErrors(failed []*graph.ErrorRecord, lines []string) (*graph.ErrorRecord, error) {
	final, err := tea.NewProgram(newErrorModel(failed, lines)).Run()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "error browser")
	}
	return final.(errorModel).Fix, nil
}
