package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symphony/internal/sched"
)

// timerMsg delivers a due timer back into Update.
type timerMsg struct {
	t *teaTimer
}

type teaTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *teaTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// teaScheduler turns AfterFunc calls into tea.Tick commands so every timer
// callback runs on the Update goroutine. Commands queue until drain.
type teaScheduler struct {
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	pending []tea.Cmd
}

var _ sched.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tick: tea.Tick}
}

func (s *teaScheduler) AfterFunc(d time.Duration, f func()) sched.Timer {
	t := &teaTimer{f: f}
	s.pending = append(s.pending, s.tick(d, func(time.Time) tea.Msg {
		return timerMsg{t: t}
	}))
	return t
}

// fire runs a delivered timer unless it was stopped first.
func (s *teaScheduler) fire(msg timerMsg) {
	t := msg.t
	if t.stopped || t.fired {
		return
	}
	t.fired = true
	t.f()
}

func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
