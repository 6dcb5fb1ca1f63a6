package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	pipeline.Options
	formats string
	output  string
	noCache bool
}

// renderCommand creates the render command for generating cloud images.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [keywords.json|layout.json]",
		Short: "Render a word cloud as SVG, PNG or JSON",
		Long: `Render draws a word cloud from a ranked keyword list or a saved layout.

Keyword lists are laid out first. Layout documents written by 'layout' are
rendered as they are, so the same placement can be exported to several formats.`,
		Example: `  # Render keywords to SVG
  wordcloud render board.keywords.json

  # Render a saved layout to PNG at 3x with a white background
  wordcloud render board.layout.json -f png --scale 3 --background "#ffffff"

  # Several formats at once
  wordcloud render board.keywords.json -f svg,png,json -o out/board`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	c.layoutFlags(cmd, &opts.Options)
	c.renderFlags(cmd, &opts.Options, &opts.formats)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := readInput(input)
	if err != nil {
		return err
	}

	opts.Formats = parseFormats(opts.formats)
	c.applyConfigDefaults(&opts.Options)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	layout, artifacts, cached, err := c.renderInput(ctx, runner, data, &opts.Options)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Rendered %d words", len(layout.Words)))

	printSuccess("Render complete")
	printStats(len(layout.Words), layout.Fallbacks(), layout.Bounds.Width, layout.Bounds.Height, cached)
	return writeArtifacts(artifacts, opts.Formats, basePath(opts.output, input))
}

// renderInput renders data as a layout document when it parses as one, and
// as a keyword list otherwise.
func (c *CLI) renderInput(ctx context.Context, runner *pipeline.Runner, data []byte, opts *pipeline.Options) (cloud.Result, map[string][]byte, bool, error) {
	if doc, err := sink.ParseJSON(data); err == nil {
		if doc.Measurer != "" {
			opts.Measurer = doc.Measurer
		}
		artifacts, hit, err := runner.RenderWithCacheInfo(ctx, doc.Result, *opts)
		if err != nil {
			return cloud.Result{}, nil, false, err
		}
		return doc.Result, artifacts, hit, nil
	}

	kws, err := keyword.DecodeKeywords(data)
	if err != nil {
		return cloud.Result{}, nil, false, err
	}
	res, err := runner.Run(ctx, kws, *opts)
	if err != nil {
		return cloud.Result{}, nil, false, err
	}
	return res.Layout, res.Artifacts, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit, nil
}
