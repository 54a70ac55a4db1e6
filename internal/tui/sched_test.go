package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return fn(time.Time{})
	}
}

func TestTeaSchedulerDeliversTimers(t *testing.T) {
	s := newTeaScheduler()
	s.tick = immediateTick
	calls := 0
	s.AfterFunc(time.Second, func() { calls++ })
	cmd := s.drain()
	if cmd == nil {
		t.Fatalf("expected a command for the pending timer")
	}
	if s.drain() != nil {
		t.Fatalf("expected drain to empty the queue")
	}
	msg, ok := cmd().(timerMsg)
	if !ok {
		t.Fatalf("expected timerMsg")
	}
	s.fire(msg)
	s.fire(msg)
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if msg.t.Stop() {
		t.Fatalf("stop after firing should report false")
	}
}

func TestTeaSchedulerStop(t *testing.T) {
	s := newTeaScheduler()
	s.tick = immediateTick
	called := false
	timer := s.AfterFunc(time.Millisecond, func() { called = true })
	if !timer.Stop() {
		t.Fatalf("expected stop to succeed")
	}
	if timer.Stop() {
		t.Fatalf("second stop should report false")
	}
	msg := s.drain()().(timerMsg)
	s.fire(msg)
	if called {
		t.Fatalf("stopped timer must not run")
	}
}
