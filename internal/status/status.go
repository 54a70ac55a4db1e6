// Package status holds the "now playing" line.
package status

import (
	"time"

	"github.com/verte-zerg/symphony/internal/sched"
)

// Placeholder is shown when nothing is playing.
const Placeholder = "Press keys to make music!"

// RevertAfter is how long a flashed message stays up.
const RevertAfter = 2 * time.Second

// Line is a status string that can revert to an earlier value on a timer.
type Line struct {
	sched       sched.Scheduler
	placeholder string
	text        string
	revert      sched.Timer
}

// New creates a line showing placeholder. An empty placeholder uses Placeholder.
func New(s sched.Scheduler, placeholder string) *Line {
	if placeholder == "" {
		placeholder = Placeholder
	}
	return &Line{sched: s, placeholder: placeholder, text: placeholder}
}

// Text returns the current status.
func (l *Line) Text() string {
	return l.text
}

// Set replaces the status until the next update.
func (l *Line) Set(text string) {
	l.stopRevert()
	l.text = text
}

// Reset shows the placeholder.
func (l *Line) Reset() {
	l.Set(l.placeholder)
}

// Flash shows text for RevertAfter, then the placeholder.
func (l *Line) Flash(text string) {
	l.FlashFor(text, RevertAfter, l.placeholder)
}

// FlashFor shows text for d, then revertTo, unless something else was shown meanwhile.
func (l *Line) FlashFor(text string, d time.Duration, revertTo string) {
	l.stopRevert()
	l.text = text
	l.revert = l.sched.AfterFunc(d, func() {
		l.revert = nil
		if l.text == text {
			l.text = revertTo
		}
	})
}

func (l *Line) stopRevert() {
	if l.revert != nil {
		l.revert.Stop()
		l.revert = nil
	}
}
