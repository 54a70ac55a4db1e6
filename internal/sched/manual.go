package sched

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Callbacks run inside Advance, in due
// order, on the caller's goroutine.
type Manual struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m    *Manual
	due  time.Time
	seq  int
	f    func()
	done bool
}

func (mt *manualTimer) Stop() bool {
	if mt.done {
		return false
	}
	mt.done = true
	mt.m.remove(mt)
	return true
}

// NewManual starts the virtual clock at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	mt := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, mt)
	return mt
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due.
// Timers scheduled by callbacks fire too when they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.next()
		if next == nil || next.due.After(target) {
			break
		}
		m.now = next.due
		next.done = true
		m.remove(next)
		next.f()
	}
	m.now = target
}

func (m *Manual) next() *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})
	return m.timers[0]
}

func (m *Manual) remove(mt *manualTimer) {
	for i, t := range m.timers {
		if t == mt {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
