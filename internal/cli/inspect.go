package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/render/sink"
)

// inspectCommand creates the inspect command for browsing a saved layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse the placed words of a layout",
		Long: `Inspect lists every placed word of a layout document with its count,
font size, center, color and whether it fell back to an overlapping position.

By default an interactive table is shown; --plain prints it once.`,
		Example: `  wordcloud inspect board.layout.json
  wordcloud inspect board.layout.json --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			doc, err := sink.ParseJSON(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			model := NewWordListModel(doc.Result)
			if plain {
				model.Height = len(model.Words)
				fmt.Println(model.table())
				printDetail("%d words · %d fallbacks · %.0f×%.0f", len(doc.Words), doc.Fallbacks(), doc.Bounds.Width, doc.Bounds.Height)
				return nil
			}

			if _, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("run inspector: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table without interaction")

	return cmd
}
