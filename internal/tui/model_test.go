package tui

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/model"
	"github.com/verte-zerg/symphony/internal/soundbank"
	"github.com/verte-zerg/symphony/internal/store"
)

type fakeSynth struct {
	inits int
	notes []float64
}

func (f *fakeSynth) Init() bool {
	f.inits++
	return f.inits == 1
}

func (f *fakeSynth) Play(freq float64, _ soundbank.Family, _ time.Duration) {
	f.notes = append(f.notes, freq)
}

func newTestModel(t *testing.T, cfg model.Config) (*Model, *fakeSynth) {
	t.Helper()
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	synth := &fakeSynth{}
	m := NewModel(st, synth, Options{Config: cfg})
	m.sched.tick = immediateTick
	m.sched.pending = nil
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, synth
}

// send delivers msg and runs every timer it schedules, in scheduling order.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 10000 {
			t.Fatalf("timers did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case timerMsg:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func kinds(rows []activity.Entry) []activity.Kind {
	out := make([]activity.Kind, len(rows))
	for i, r := range rows {
		out[i] = r.Kind
	}
	return out
}

func TestModifierChordsPlaySpecialBank(t *testing.T) {
	m, synth := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	synth.notes = nil
	start := len(m.rows)

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	send(t, m, tea.KeyMsg{Type: tea.KeyShiftUp})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

	rows := m.rows[start:]
	if len(rows) != 2 || rows[0].Details != "Tom (Control)" || rows[1].Details != "Bass (Shift)" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if len(synth.notes) != 2 || synth.notes[0] != 150 || synth.notes[1] != 80 {
		t.Fatalf("expected Tom then Bass, got %v", synth.notes)
	}
	if m.rec.Stats().Keystrokes != 2 {
		t.Fatalf("bound ctrl+x must not count as a keystroke, got %d", m.rec.Stats().Keystrokes)
	}
}

func TestKeysAreMusicOnlyWhenArmed(t *testing.T) {
	m, synth := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if len(m.rows) != 0 || len(synth.notes) != 0 {
		t.Fatalf("expected no effect while disarmed")
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.rec.Armed() {
		t.Fatalf("expected ctrl+s to arm the recorder")
	}
	synth.notes = nil
	start := len(m.rows)

	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q1")})
	send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	rows := m.rows[start:]
	want := []string{"C4 (Q)", "High E String (1)", "Kick Drum (Space)", "Snare (Enter)"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), kinds(rows))
	}
	for i := range want {
		if rows[i].Details != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], rows[i].Details)
		}
	}
	if !strings.Contains(m.View(), "High E String (1)") {
		t.Fatalf("expected the log pane to show the entry")
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.rec.Armed() {
		t.Fatalf("expected ctrl+p to disarm")
	}
}

func TestMouseAndFocusSignals(t *testing.T) {
	m, _ := newTestModel(t, model.Config{ScrollStep: 40})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	start := len(m.rows)

	send(t, m, tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, m, tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	send(t, m, tea.MouseMsg{X: 10, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	send(t, m, tea.BlurMsg{})
	send(t, m, tea.FocusMsg{})
	send(t, m, tea.ResumeMsg{})

	rows := m.rows[start:]
	want := []activity.Kind{activity.KindClick, activity.KindScroll, activity.KindTab, activity.KindTab, activity.KindTab}
	got := kinds(rows)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if p, ok := rows[1].Payload.(activity.ScrollPos); !ok || p.Position != 40 {
		t.Fatalf("expected scroll position 40, got %+v", rows[1].Payload)
	}
	if m.rec.Stats().TabSwitches != 2 {
		t.Fatalf("expected 2 tab switches, got %d", m.rec.Stats().TabSwitches)
	}
}

func TestMouseFlowFollowsConfig(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	start := len(m.rows)
	send(t, m, tea.MouseMsg{X: 50, Y: 2, Action: tea.MouseActionMotion})
	if len(m.rows) != start {
		t.Fatalf("expected motion to be ignored without mouse flow")
	}

	m, _ = newTestModel(t, model.Config{MouseFlow: true})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	start = len(m.rows)
	send(t, m, tea.MouseMsg{X: 50, Y: 2, Action: tea.MouseActionMotion})
	if len(m.rows) != start+1 || m.rows[start].Kind != activity.KindMove {
		t.Fatalf("expected one movement row")
	}
}

func TestSongKeyPlaysWithoutArming(t *testing.T) {
	m, synth := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	first, _ := m.book.At(0)
	if len(synth.notes) < len(first.Keys()) {
		t.Fatalf("expected the song notes, got %d", len(synth.notes))
	}
	var banners []string
	for _, r := range m.rows {
		if r.Kind == activity.KindSong {
			banners = append(banners, r.Details)
		}
	}
	if len(banners) != 2 || !strings.HasPrefix(banners[1], "Finished") {
		t.Fatalf("unexpected song banners %v", banners)
	}
	if m.rec.Armed() {
		t.Fatalf("songs must not arm the recorder")
	}
}

func TestClearShowsBannerOnly(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.rows) != 0 || m.banner == "" {
		t.Fatalf("expected only the cleared banner")
	}
	if !strings.Contains(m.View(), m.banner) {
		t.Fatalf("expected the banner in the view")
	}
}

func TestPlaybackOfEmptyLogReportsError(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if len(m.rows) != 1 || m.rows[0].Kind != activity.KindError {
		t.Fatalf("expected a single error row, got %v", kinds(m.rows))
	}
}

func TestExportWritesMidi(t *testing.T) {
	dir := t.TempDir()
	m, _ := newTestModel(t, model.Config{ExportDir: dir})
	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("qwe")})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if !strings.HasPrefix(m.sess.Status.Text(), "Exported ") {
		t.Fatalf("unexpected status %q", m.sess.Status.Text())
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0].Name(), ".mid") {
		t.Fatalf("expected one midi file, got %v", files)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	found := false
	var walk func(tea.Cmd)
	walk = func(c tea.Cmd) {
		if c == nil {
			return
		}
		switch msg := c().(type) {
		case tea.QuitMsg:
			found = true
		case tea.BatchMsg:
			for _, inner := range msg {
				walk(inner)
			}
		}
	}
	walk(cmd)
	if !found {
		t.Fatalf("expected tea.Quit")
	}
}

func TestGuideAppearsWhenIdle(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m := NewModel(st, &fakeSynth{}, Options{})
	if len(m.sched.pending) != 1 {
		t.Fatalf("expected the guide timer to be pending, got %d", len(m.sched.pending))
	}
	m.sched.pending = nil
	m.sched.tick = immediateTick
	m.rec.Greet()
	send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if len(m.rows) != 1 || m.rows[0].Kind != activity.KindGuide {
		t.Fatalf("expected a guide row, got %v", kinds(m.rows))
	}
}

func TestLogPaneStaysBounded(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entry := func(i int) activity.Entry {
		return activity.Entry{WallClock: base.Add(time.Duration(i) * time.Second), Kind: activity.KindPiano, Details: fmt.Sprintf("note %d", i), Tag: activity.TagPiano}
	}
	for i := 0; i < maxLogRows; i++ {
		m.Append(entry(i))
	}
	full := m.logView.TotalLineCount()
	for i := maxLogRows; i < 3*maxLogRows; i++ {
		m.Append(entry(i))
	}
	if len(m.rows) != maxLogRows || len(m.rendered) != maxLogRows {
		t.Fatalf("expected %d rows kept, got %d/%d", maxLogRows, len(m.rows), len(m.rendered))
	}
	if got := m.logView.TotalLineCount(); got != full {
		t.Fatalf("expected pane to stay at %d lines, got %d", full, got)
	}
	if last := m.rows[len(m.rows)-1].Details; last != fmt.Sprintf("note %d", 3*maxLogRows-1) {
		t.Fatalf("expected newest row last, got %q", last)
	}
	if !strings.Contains(m.View(), fmt.Sprintf("note %d", 3*maxLogRows-1)) {
		t.Fatalf("expected the pane to follow the newest row")
	}
}

func TestLogPaneRewrapsOnResize(t *testing.T) {
	m, _ := newTestModel(t, model.Config{})
	m.Append(activity.Entry{WallClock: time.Now(), Kind: activity.KindGuide, Details: strings.Repeat("word ", 30)})
	wide := len(m.rendered[0])
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	if narrow := len(m.rendered[0]); narrow <= wide {
		t.Fatalf("expected more wrapped lines after narrowing, got %d then %d", wide, narrow)
	}
}
