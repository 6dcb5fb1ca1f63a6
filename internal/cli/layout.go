package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// layoutOpts holds options for the layout command.
type layoutOpts struct {
	pipeline.Options
	output  string
	noCache bool
}

// layoutCommand creates the layout command for placing keywords.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout [keywords.json]",
		Short: "Place keywords and write a layout document",
		Long: `Layout places a ranked keyword list on the canvas and writes the placed words as JSON.

The input is an array of {"text", "count"} objects as written by 'normalize'.
The layout document records position, size, font size and color of every word
together with the canvas bounds, and can be rendered later with 'render'.`,
		Example: `  wordcloud layout board.keywords.json
  wordcloud layout board.keywords.json --measurer shaped -o board.layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	c.layoutFlags(cmd, &opts.Options)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file ('-' for stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)

	data, err := readInput(input)
	if err != nil {
		return err
	}
	kws, err := keyword.DecodeKeywords(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	c.applyConfigDefaults(&opts.Options)
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	layout, hit, err := runner.LayoutWithCacheInfo(ctx, kws, opts.Options)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d words", len(layout.Words)))

	out, err := sink.RenderJSON(layout, sink.WithJSONMeasurer(opts.Measurer))
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = basePath("", input) + ".layout.json"
	}
	if err := writeFile(output, out); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printStats(len(layout.Words), layout.Fallbacks(), layout.Bounds.Width, layout.Bounds.Height, hit)
	if n := layout.Fallbacks(); n > 0 {
		printWarning("%d words could not be placed without overlap", n)
	}
	printFile(output)
	printNextStep("Render it", "wordcloud render "+output)
	return nil
}
