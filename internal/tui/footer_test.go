package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symphony/internal/model"
)

func TestRenderFooterListsBindings(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	out := m.renderFooter()
	if !containsAll(out, []string{"ctrl+s", "start", "ctrl+r", "playback", "f1-f12"}) {
		t.Fatalf("footer missing expected bindings: %s", out)
	}
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !containsAll(m.renderFooter(), []string{"ctrl+e", "export midi", "ctrl+l", "clear"}) {
		t.Fatalf("expected full help after ctrl+g: %s", m.renderFooter())
	}
}

func TestHeaderShowsCounters(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	if !strings.Contains(m.renderHeader(), "idle") {
		t.Fatalf("expected idle marker")
	}
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("asdf")})
	header := m.renderHeader()
	if !containsAll(header, []string{"recording", "Keys", "4", "122"}) {
		t.Fatalf("header missing counters: %s", header)
	}
}

func TestSongPanelMarksFunctionKeys(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	out := m.renderSongs(20)
	first, _ := m.book.At(0)
	if !strings.Contains(out, "F1") || !strings.Contains(out, first.Name) {
		t.Fatalf("song panel missing first song: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
