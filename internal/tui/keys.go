package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Start    key.Binding
	Pause    key.Binding
	Clear    key.Binding
	Playback key.Binding
	Stop     key.Binding
	Song     key.Binding
	Export   key.Binding
	Suspend  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start")),
		Pause:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pause")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Playback: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "playback")),
		Stop:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop")),
		Song: key.NewBinding(
			key.WithKeys("f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12"),
			key.WithHelp("f1-f12", "song"),
		),
		Export:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export midi")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Help:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "more")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Playback, k.Song, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Clear},
		{k.Playback, k.Stop, k.Song},
		{k.Export, k.Suspend, k.Quit},
	}
}

// songIndex maps "f1".."f12" to 0..11.
func songIndex(msg tea.KeyMsg) int {
	s := msg.String()
	if !strings.HasPrefix(s, "f") {
		return -1
	}
	n := 0
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > 12 {
		return -1
	}
	return n - 1
}

var namedKeys = map[tea.KeyType]string{
	tea.KeySpace:     " ",
	tea.KeyEnter:     "Enter",
	tea.KeyBackspace: "Backspace",
	tea.KeyTab:       "Tab",
	tea.KeyShiftTab:  "Tab",
	tea.KeyEsc:       "Escape",
	tea.KeyDelete:    "Delete",
	tea.KeyUp:        "ArrowUp",
	tea.KeyDown:      "ArrowDown",
	tea.KeyLeft:      "ArrowLeft",
	tea.KeyRight:     "ArrowRight",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
	tea.KeyPgUp:      "PageUp",
	tea.KeyPgDown:    "PageDown",
	tea.KeyInsert:    "Insert",
}

// keyNames converts a key message into the key names the recorder expects.
// A paste or a burst of runes yields one name per rune. Terminals never
// report a bare modifier, so an unbound ctrl or shift chord stands in for it.
func keyNames(msg tea.KeyMsg) []string {
	if msg.Type == tea.KeyRunes {
		names := make([]string, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			names = append(names, string(r))
		}
		return names
	}
	if name, ok := namedKeys[msg.Type]; ok {
		return []string{name}
	}
	switch s := msg.String(); {
	case strings.HasPrefix(s, "ctrl+"):
		return []string{"Control"}
	case strings.HasPrefix(s, "shift+"):
		return []string{"Shift"}
	}
	return nil
}
