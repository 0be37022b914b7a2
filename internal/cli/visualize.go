package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/graph"
	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
	"github.com/matzehuels/yamlviz/pkg/render"
)

// visualizeFlags holds the flags of the visualize command.
type visualizeFlags struct {
	formats string
	output  string
	noCache bool
	asJSON  bool
	strict  bool
}

// visualizeCommand creates the visualize command: parse, lay out and export
// every document of a YAML stream.
func (c *CLI) visualizeCommand() *cobra.Command {
	var flags visualizeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [file|-]",
		Short: "Draw every document of a YAML file",
		Long: `Draw every document of a YAML file.

Each document is parsed, turned into a tree of keys and values, laid out and
exported in the requested formats. Documents that fail to parse are reported
with the offending line and skipped; the others are still drawn.

With several documents the document index is appended to the output name
(config-0.svg, config-1.svg). Read from standard input with "-".`,
		Example: `  yamlviz visualize config.yaml
  yamlviz visualize -f svg,png --direction LR config.yaml
  kubectl get pods -o yaml | yamlviz visualize --json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			if flags.asJSON {
				opts.Formats = nil
			} else if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], c.pipelineOptions(opts), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the visualization as JSON instead of writing files")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when any document is invalid")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addLayoutFlags registers the flags shared by visualize and render, and
// completions for them and for --format. Zero values leave the configured
// defaults in place.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "layout direction: TB (default), BT, LR, RL")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show node ids and positions in drawings")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.DuplicateKeys, "duplicate-keys", false, "allow repeated mapping keys")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	directions := []string{string(layout.TopToBottom), string(layout.BottomToTop), string(layout.LeftToRight), string(layout.RightToLeft)}
	_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(directions, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, flags visualizeFlags) error {
	text, err := c.readInput(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Visualizing %s...", displayName(input)))
	spinner.Start()
	result, err := runner.Execute(ctx, text, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return err
	}
	spinner.Stop()

	v := result.Visualization
	if flags.asJSON {
		if err := graph.WriteVisualization(v, out); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write visualization")
		}
		return failIfInvalid(v, flags.strict)
	}

	for i := range v.Documents {
		if rec := v.Errors[i]; rec != nil {
			printDocumentError(rec)
			continue
		}
		printDocumentStats(v.Documents[i], result.CacheInfo.ResultHit)
	}

	base := basePath(flags.output, input)
	for _, a := range result.Artifacts {
		path := artifactPath(base, a.Document, v.Len(), a.Format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}

	if failed := v.Failed(); len(failed) > 0 {
		fmt.Fprintln(out)
		printNextStep("Suggest a fix", fmt.Sprintf("yamlviz fix -d %d %s", failed[0].DocumentIndex, input))
	}
	return failIfInvalid(v, flags.strict)
}

// failIfInvalid turns failed documents into an error when strict is set.
func failIfInvalid(v graph.Visualization, strict bool) error {
	failed := v.Failed()
	if !strict || len(failed) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeParse, "%d of %d documents are invalid", len(failed), v.Len())
}
