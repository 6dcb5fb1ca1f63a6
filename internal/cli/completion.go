package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/measure"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// completionCommand generates shell completion scripts. Besides subcommands
// and flags, the scripts complete --format and --measurer values.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for wordcloud.

The script completes subcommands (normalize, layout, render, board, inspect,
serve, cache), their flags, and the values of --format and --measurer.

  $ source <(wordcloud completion bash)
  $ wordcloud completion zsh > "${fpath[1]}/_wordcloud"
  $ wordcloud completion fish > ~/.config/fish/completions/wordcloud.fish
  PS> wordcloud completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFormats completes a comma-separated --format value one entry at a
// time, skipping formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	seen := make(map[string]bool)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			seen[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for _, f := range pipeline.Formats {
		if !seen[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeMeasurers completes --measurer with the registered backends.
func completeMeasurers(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return measure.Names(), cobra.ShellCompDirectiveNoFileComp
}
