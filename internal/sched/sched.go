// Package sched provides cancellable timers that fire on a single event loop.
package sched

import (
	"context"
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped a pending callback.
	Stop() bool
}

// Scheduler runs f on the owning event loop after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a Scheduler whose callbacks run on the goroutine calling Run.
type Loop struct {
	tasks chan func()
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{tasks: make(chan func(), 64)}
}

type loopTimer struct {
	mu      sync.Mutex
	stopped bool
	fired   bool
	t       *time.Timer
}

func (lt *loopTimer) Stop() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped || lt.fired {
		return false
	}
	lt.stopped = true
	lt.t.Stop()
	return true
}

// claim marks the timer fired unless it was stopped first.
func (lt *loopTimer) claim() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped {
		return false
	}
	lt.fired = true
	return true
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.t = time.AfterFunc(d, func() {
		l.tasks <- func() {
			if lt.claim() {
				f()
			}
		}
	})
	return lt
}

// Do queues f to run on the loop.
func (l *Loop) Do(f func()) {
	l.tasks <- f
}

// Run executes queued callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
		}
	}
}
