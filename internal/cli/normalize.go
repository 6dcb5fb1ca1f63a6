package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/keyword"
)

// normalizeOpts holds options for the normalize command.
type normalizeOpts struct {
	output      string
	inputFormat string
	limit       int
}

// normalizeCommand creates the normalize command for counting raw submissions.
func (c *CLI) normalizeCommand() *cobra.Command {
	opts := normalizeOpts{}

	cmd := &cobra.Command{
		Use:   "normalize [submissions]",
		Short: "Count submissions into a ranked keyword list",
		Long: `Normalize reads raw board submissions and writes the top keywords with their counts.

Submissions are lowercased and stripped of punctuation, so "Go!", " go " and
"GO" count as one keyword. Unapproved submissions are ignored.

Input formats are inferred from the extension:
  .txt   one submission per line ('#' starts a comment)
  .json  array of strings or {"text", "approved"} objects
  .toml  [[submission]] tables

The result is written to <input>.keywords.json unless -o is given.`,
		Example: `  wordcloud normalize board.txt
  wordcloud normalize export.json --limit 10 -o top10.keywords.json
  cat board.txt | wordcloud normalize - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNormalize(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file ('-' for stdout)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "submission format: txt, json, toml (default: from extension)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "number of keywords to keep (default from config)")

	return cmd
}

func (c *CLI) runNormalize(cmd *cobra.Command, input string, opts normalizeOpts) error {
	logger := loggerFromContext(cmd.Context())

	data, err := readInput(input)
	if err != nil {
		return err
	}
	format := opts.inputFormat
	if format == "" {
		format = keyword.FormatForPath(input)
	}
	subs, err := keyword.ReadSubmissions(bytes.NewReader(data), format)
	if err != nil {
		return fmt.Errorf("read submissions: %w", err)
	}

	limit := opts.limit
	if limit == 0 {
		limit = c.Config.Layout.Limit
	}
	kws := keyword.Aggregate(subs, limit)
	logger.Debug("aggregated submissions", "submissions", len(subs), "keywords", len(kws))

	out, err := json.MarshalIndent(kws, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	output := opts.output
	if output == "" {
		output = basePath("", input) + ".keywords.json"
	}
	if err := writeFile(output, out); err != nil {
		return err
	}
	if output != "-" {
		printSuccess("Counted %d submissions into %d keywords", len(subs), len(kws))
		printFile(output)
	}
	return nil
}
