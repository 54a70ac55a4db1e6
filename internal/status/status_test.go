package status

import (
	"testing"
	"time"

	"github.com/verte-zerg/symphony/internal/sched"
)

func TestFlashReverts(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	l := New(clock, "")
	l.Flash("C4 (Q)")
	if l.Text() != "C4 (Q)" {
		t.Fatalf("expected flashed text, got %q", l.Text())
	}
	clock.Advance(1999 * time.Millisecond)
	if l.Text() != "C4 (Q)" {
		t.Fatalf("reverted too early: %q", l.Text())
	}
	clock.Advance(time.Millisecond)
	if l.Text() != Placeholder {
		t.Fatalf("expected placeholder, got %q", l.Text())
	}
}

func TestLaterUpdateWins(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	l := New(clock, "idle")
	l.Flash("first")
	clock.Advance(time.Second)
	l.Flash("second")
	clock.Advance(1500 * time.Millisecond)
	if l.Text() != "second" {
		t.Fatalf("expected second to remain, got %q", l.Text())
	}
	l.Set("Recording paused")
	clock.Advance(5 * time.Second)
	if l.Text() != "Recording paused" {
		t.Fatalf("sticky status reverted: %q", l.Text())
	}
}
