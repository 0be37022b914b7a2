package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

// fixFlags holds the flags of the fix command.
type fixFlags struct {
	document int
	write    bool
	local    bool
	noCache  bool
}

// fixCommand creates the fix command, which asks the fixer chain for a
// corrected version of the input.
func (c *CLI) fixCommand() *cobra.Command {
	flags := fixFlags{document: -1}

	cmd := &cobra.Command{
		Use:   "fix [file|-]",
		Short: "Suggest a corrected version of an invalid YAML file",
		Long: `Suggest a corrected version of an invalid YAML file.

The whole text is sent together with the parser message of one failed
document (the first one unless --document is given). Local heuristics are
tried first; when they do not produce valid YAML and an API key is
configured, a language model is asked. The suggestion is printed, or
written back with --write.`,
		Example: `  yamlviz fix config.yaml
  yamlviz fix --local --write config.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.write && args[0] == stdinName {
				return errors.New(errors.ErrCodeInvalidInput, "--write needs a file argument")
			}
			return c.runFix(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().IntVarP(&flags.document, "document", "d", -1, "failed document to fix (default: first)")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "overwrite the input with the suggestion")
	cmd.Flags().BoolVar(&flags.local, "local", false, "only use local heuristics")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runFix(ctx context.Context, input string, flags fixFlags) error {
	text, err := c.readInput(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	v, err := runner.Visualize(ctx, text, c.pipelineOptions(pipeline.Options{}))
	if err != nil {
		return err
	}
	rec, err := pickFailed(v, flags.document)
	if err != nil {
		return err
	}
	if rec == nil {
		printSuccess("%s: nothing to fix", displayName(input))
		return nil
	}
	return c.suggestFix(ctx, input, text, rec, flags)
}

// pickFailed returns the error record of document index, or of the first
// failed document when index is negative. A nil record means every document
// parsed.
func pickFailed(v graph.Visualization, index int) (*graph.ErrorRecord, error) {
	if index < 0 {
		if failed := v.Failed(); len(failed) > 0 {
			return failed[0], nil
		}
		return nil, nil
	}
	if index >= v.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document %d out of range (%d documents)", index, v.Len())
	}
	if v.Errors[index] == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document %d is valid", index)
	}
	return v.Errors[index], nil
}

// suggestFix runs the fixer for rec and prints or writes the suggestion.
func (c *CLI) suggestFix(ctx context.Context, input, text string, rec *graph.ErrorRecord, flags fixFlags) error {
	printDocumentError(rec)

	fixer := c.newFixer(c.openCache(ctx, flags.noCache), flags.local)
	spinner := newSpinnerWithContext(ctx, "Looking for a fix...")
	spinner.Start()
	res, err := fixer.Fix(ctx, fix.Request{DocumentText: text, ErrorMessage: rec.Message})
	if err != nil {
		spinner.StopWithError("No fix found")
		return err
	}
	spinner.Stop()

	if !res.Parses {
		printWarning("The %s suggestion still does not parse", res.Source)
	}

	if flags.write {
		if err := os.WriteFile(input, []byte(res.Text), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", input)
		}
		printSuccess("Applied %s fix", res.Source)
		printFile(input)
		return nil
	}

	printSuccess("Suggested %s fix:", res.Source)
	fmt.Fprintln(out)
	fmt.Fprint(out, res.Text)
	if len(res.Text) > 0 && res.Text[len(res.Text)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}
