package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// boardOpts holds options for the board command.
type boardOpts struct {
	pipeline.Options
	formats string
	output  string
	noCache bool
}

// boardCommand creates the board command for rendering a board's live cloud.
func (c *CLI) boardCommand() *cobra.Command {
	opts := boardOpts{}

	cmd := &cobra.Command{
		Use:   "board <board-id>",
		Short: "Render the cloud of a board from the configured source",
		Long: `Board loads the top keywords of a board from the configured source
(a submissions directory or MongoDB) and renders them as a word cloud.

Keyword lists are cached for a short time; use --refresh to bypass the cache.`,
		Example: `  wordcloud board 4f1c2b9e-8d3a-4c71-9a55-2f0e6b1d7c48
  wordcloud board 4f1c2b9e-8d3a-4c71-9a55-2f0e6b1d7c48 -n 10 -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.BoardID = args[0]
			return c.runBoard(cmd.Context(), opts)
		},
	}

	c.layoutFlags(cmd, &opts.Options)
	c.renderFlags(cmd, &opts.Options, &opts.formats)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "number of keywords (default from config)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached keywords and layouts")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: board id)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBoard(ctx context.Context, opts boardOpts) error {
	opts.Formats = parseFormats(opts.formats)
	c.applyConfigDefaults(&opts.Options)

	runner, err := c.newSourceRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Building cloud for %s...", opts.BoardID))
	spinner.Start()
	res, err := runner.Execute(ctx, opts.Options)
	if err != nil {
		spinner.StopWithError("Failed to build cloud")
		return err
	}
	spinner.StopWithSuccess("Cloud ready")

	printKeyValue("Board", res.BoardID)
	printKeyValue("Source", c.Config.Source.Backend)
	printKeyValue("Keywords", fmt.Sprintf("%d", res.Stats.KeywordCount))
	printKeyValue("Duration", (res.Stats.SourceTime + res.Stats.LayoutTime + res.Stats.RenderTime).Round(time.Millisecond).String())
	printStats(len(res.Layout.Words), res.Stats.Fallbacks, res.Stats.Width, res.Stats.Height,
		res.CacheInfo.SourceHit && res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	if res.Stats.KeywordCount == 0 {
		printWarning("Board has no approved submissions")
	}

	output := opts.output
	if output == "" {
		output = res.BoardID
	}
	return writeArtifacts(res.Artifacts, opts.Formats, basePath(output, ""))
}
