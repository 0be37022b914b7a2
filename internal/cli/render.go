package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
	"github.com/matzehuels/yamlviz/pkg/render"
)

// renderCommand creates the render command, which exports one document in
// one format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format  string
		output  string
		index   int
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Export a single document in one format",
		Long: `Export a single document in one format.

Use --document to pick the document of a multi-document stream (0-based).
With --output - the artifact is written to standard output, which suits
piping DOT into other Graphviz tools.`,
		Example: `  yamlviz render -d 1 -f png manifests.yaml
  yamlviz render -f dot -o - config.yaml | dot -Tpdf > config.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], index, f, output, noCache, c.pipelineOptions(opts))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, png, pdf, dot, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: input name)`)
	cmd.Flags().IntVarP(&index, "document", "d", 0, "document index (0-based)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, index int, format, output string, noCache bool, opts pipeline.Options) error {
	text, err := c.readInput(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	data, err := runner.Export(ctx, text, index, format, opts)
	if err != nil {
		return err
	}
	prog.done("rendered document", "document", index, "format", format, "bytes", len(data))

	if output == stdinName {
		_, err := out.Write(data)
		return err
	}
	path := output
	if path == "" {
		path = fmt.Sprintf("%s.%s", basePath("", input), format)
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printSuccess("Rendered document %d", index)
	printFile(path)
	return nil
}
