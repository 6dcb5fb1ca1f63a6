package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

func testLayout(n int) cloud.Result {
	words := make([]cloud.PlacedWord, n)
	for i := range words {
		text := string(rune('a'+i%26)) + "word"
		words[i] = cloud.PlacedWord{
			Text: text, Count: n - i, X: float64(i * 10), Y: 50,
			Width: 40, Height: 12, FontSize: 12, Color: cloud.ColorFor(text),
		}
	}
	return cloud.Result{Words: words, Bounds: cloud.Bounds{Width: 480, Height: 240}}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestWordListNavigation(t *testing.T) {
	var m tea.Model = NewWordListModel(testLayout(3))

	m = press(m, "down", "j", "down")
	if got := m.(WordListModel).Cursor; got != 2 {
		t.Errorf("Cursor after moving past the end = %d, want 2", got)
	}

	m = press(m, "up", "k", "k", "up")
	if got := m.(WordListModel).Cursor; got != 0 {
		t.Errorf("Cursor after moving past the start = %d, want 0", got)
	}
}

func TestWordListScrolls(t *testing.T) {
	var m tea.Model = NewWordListModel(testLayout(20))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	if got := m.(WordListModel).Height; got != 5 {
		t.Fatalf("Height = %d, want 5", got)
	}

	for range 7 {
		m = press(m, "down")
	}
	wl := m.(WordListModel)
	if wl.Cursor != 7 || wl.Offset != 3 {
		t.Errorf("Cursor, Offset = %d, %d, want 7, 3", wl.Cursor, wl.Offset)
	}

	view := wl.View()
	if !strings.Contains(view, "[8/20]") {
		t.Errorf("view missing position indicator:\n%s", view)
	}
	if strings.Contains(view, "aword") {
		t.Errorf("view shows scrolled-out row:\n%s", view)
	}
}

func TestWordListDetails(t *testing.T) {
	var m tea.Model = NewWordListModel(testLayout(2))
	if strings.Contains(m.View(), "Attempts") {
		t.Fatal("details shown before toggling")
	}

	m = press(m, "down", "enter")
	view := m.View()
	if !strings.Contains(view, "Attempts") || !strings.Contains(view, "bword") {
		t.Errorf("details for selected word missing:\n%s", view)
	}

	m = press(m, "enter")
	if strings.Contains(m.View(), "Attempts") {
		t.Error("details still shown after second toggle")
	}
}

func TestWordListQuit(t *testing.T) {
	m := NewWordListModel(testLayout(1))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestWordListEmpty(t *testing.T) {
	m := NewWordListModel(cloud.Result{Bounds: cloud.DefaultBounds()})
	if !strings.Contains(m.View(), "no words") {
		t.Error("empty layout view missing placeholder")
	}
}
