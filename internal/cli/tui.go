package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// WordListModel - Interactive layout inspection
// =============================================================================

// WordListModel is the bubbletea model for browsing the placed words of a layout.
type WordListModel struct {
	Words   []cloud.PlacedWord
	Bounds  cloud.Bounds
	Cursor  int
	Height  int
	Offset  int
	Details bool
}

// NewWordListModel creates a new word list model.
func NewWordListModel(res cloud.Result) WordListModel {
	return WordListModel{
		Words:  res.Words,
		Bounds: res.Bounds,
		Height: 15,
	}
}

func (m WordListModel) Init() tea.Cmd {
	return nil
}

func (m WordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Words)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m WordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d words · %.0f×%.0f", len(m.Words), m.Bounds.Width, m.Bounds.Height)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Words) == 0 {
		b.WriteString(listDimStyle.Render("  (no words)"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.table())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Words))))

	if m.Details {
		b.WriteString("\n\n")
		b.WriteString(wordDetails(m.Words[m.Cursor]))
	}
	return b.String()
}

func (m WordListModel) table() string {
	end := min(m.Offset+m.Height, len(m.Words))

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		w := m.Words[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		flag := ""
		if w.Fallback {
			flag = iconWarning
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			w.Text,
			fmt.Sprintf("%d", w.Count),
			fmt.Sprintf("%.1f", w.FontSize),
			fmt.Sprintf("%.0f,%.0f", w.X, w.Y),
			"■ " + w.Color.Hex(),
			flag,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Word", "Count", "Size", "Center", "Color", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Words) {
				return lipgloss.NewStyle()
			}
			w := m.Words[idx]

			base := lipgloss.NewStyle()
			switch col {
			case 6:
				base = base.Foreground(lipgloss.Color(w.Color.Hex()))
			case 7:
				base = base.Foreground(colorYellow)
			case 1, 3, 4, 5:
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
				if col == 2 {
					base = base.Foreground(colorCyan)
				}
			}
			return base
		})

	return t.Render()
}

// wordDetails renders every field of one placed word.
func wordDetails(w cloud.PlacedWord) string {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(key))
		b.WriteString(" ")
		b.WriteString(StyleValue.Render(value))
		b.WriteString("\n")
	}
	line("Word", w.Text)
	line("Count", fmt.Sprintf("%d", w.Count))
	line("Rect", fmt.Sprintf("%.1f,%.1f → %.1f,%.1f", w.Left(), w.Top(), w.Right(), w.Bottom()))
	line("Size", fmt.Sprintf("%.1f×%.1f", w.Width, w.Height))
	line("Font", fmt.Sprintf("%.2fpx", w.FontSize))
	line("Color", w.Color.String())
	line("Attempts", fmt.Sprintf("%d", w.Attempts))
	if w.Fallback {
		line("Placement", StyleWarning.Render("fallback (may overlap)"))
	}
	return b.String()
}
