// Package tui provides the Bubble Tea symphony interface.
package tui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/midiexport"
	"github.com/verte-zerg/symphony/internal/model"
	"github.com/verte-zerg/symphony/internal/playback"
	"github.com/verte-zerg/symphony/internal/recorder"
	"github.com/verte-zerg/symphony/internal/session"
	"github.com/verte-zerg/symphony/internal/songbook"
)

// Options configures NewModel.
type Options struct {
	Config model.Config
	Book   *songbook.Book
	Logger *slog.Logger
	// Suspend runs before the program is suspended with ctrl+z.
	Suspend func()
}

// Model implements the Bubble Tea symphony UI. It is also the display sink
// for the session.
type Model struct {
	config  model.Config
	book    *songbook.Book
	logger  *slog.Logger
	suspend func()

	sched  *teaScheduler
	sess   *session.Session
	rec    *recorder.Recorder
	replay *playback.Session
	song   *playback.Song

	keys     keyMap
	help     help.Model
	logView  viewport.Model
	rows     []activity.Entry
	rendered [][]string
	renderW  int
	banner   string
	followed bool

	width     int
	height    int
	scrollPos int
}

// NewModel constructs the UI around an activity log and a synthesizer.
func NewModel(log session.Log, synth session.Synth, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	book := opts.Book
	if book == nil {
		book = songbook.Builtin()
	}
	cfg := opts.Config
	if cfg.ScrollStep <= 0 {
		cfg.ScrollStep = model.DefaultScrollStep
	}
	m := &Model{
		config:   cfg,
		book:     book,
		logger:   logger,
		suspend:  opts.Suspend,
		sched:    newTeaScheduler(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		logView:  viewport.New(0, 0),
		followed: true,
		renderW:  defaultLogWidth,
	}
	m.sess = session.New(log, synth, m.sched, session.Options{Sink: m, Logger: logger})
	m.rec = recorder.New(m.sess, recorder.Options{MouseFlow: cfg.MouseFlow, Location: cfg.Location})
	m.replay = playback.NewSession(m.sess)
	m.song = playback.NewSong(m.sess)
	m.rec.Greet()
	return m
}

// Recorder exposes the recorder for the end-of-session report.
func (m *Model) Recorder() *recorder.Recorder {
	return m.rec
}

// Append implements session.Sink.
func (m *Model) Append(e activity.Entry) {
	m.banner = ""
	m.rows = append(m.rows, e)
	m.rendered = append(m.rendered, formatRow(e, m.renderW))
	if over := len(m.rows) - maxLogRows; over > 0 {
		m.rows = m.rows[over:]
		m.rendered = m.rendered[over:]
	}
	m.refreshLog()
}

// Reset implements session.Sink.
func (m *Model) Reset(banner string) {
	m.rows = nil
	m.rendered = nil
	m.banner = banner
	m.followed = true
	m.refreshLog()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.sched.drain()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case timerMsg:
		m.sched.fire(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rec.SetViewportWidth(msg.Width)
		m.help.Width = msg.Width
		m.updateLayout()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.FocusMsg:
		m.rec.FocusGained()
	case tea.BlurMsg:
		m.rec.FocusLost()
	case tea.ResumeMsg:
		m.rec.VisibilityRestored()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.rec.Start()
	case key.Matches(msg, m.keys.Pause):
		m.rec.Pause()
	case key.Matches(msg, m.keys.Clear):
		m.rec.Clear()
	case key.Matches(msg, m.keys.Playback):
		m.replay.Start()
	case key.Matches(msg, m.keys.Stop):
		m.replay.Cancel()
		m.song.Cancel()
	case key.Matches(msg, m.keys.Song):
		m.playSong(songIndex(msg))
	case key.Matches(msg, m.keys.Export):
		m.export()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateLayout()
	case key.Matches(msg, m.keys.Suspend):
		if m.suspend != nil {
			m.suspend()
		}
		return tea.Suspend
	default:
		for _, name := range keyNames(msg) {
			m.rec.KeyPress(name)
		}
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.rec.MouseMove(msg.X, msg.Y)
	case msg.Action != tea.MouseActionPress:
		return
	case msg.Button == tea.MouseButtonLeft:
		m.rec.Click(msg.X, msg.Y)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollPos += m.config.ScrollStep
		m.logView.LineDown(1)
		m.followed = m.logView.AtBottom()
		m.rec.Scroll(m.scrollPos)
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollPos -= m.config.ScrollStep
		if m.scrollPos < 0 {
			m.scrollPos = 0
		}
		m.logView.LineUp(1)
		m.followed = m.logView.AtBottom()
		m.rec.Scroll(m.scrollPos)
	}
}

func (m *Model) playSong(i int) {
	s, ok := m.book.At(i)
	if !ok {
		return
	}
	m.song.Play(s.Keys(), s.Name)
}

func (m *Model) export() {
	if m.config.ExportDir == "" {
		m.sess.Status.Flash("Export directory not configured")
		return
	}
	path, err := midiexport.WriteFile(m.config.ExportDir, m.sess.Now(), m.sess.Entries())
	if err != nil {
		m.logger.Error("midi export failed", "err", err)
		m.sess.Status.Flash(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.logger.Info("midi exported", "path", path)
	m.sess.Status.Flash("Exported " + path)
}
