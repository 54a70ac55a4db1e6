package playback

import (
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/sched"
	"github.com/verte-zerg/symphony/internal/session"
)

// SessionPeriod is the spacing between replayed log entries.
const SessionPeriod = 250 * time.Millisecond

// Session replays the activity log in recorded order.
type Session struct {
	sess *session.Session

	// OnDone, if set, runs when a replay completes or is cancelled.
	OnDone func()

	entries    []activity.Entry
	generation int
	index      int
	timer      sched.Timer
}

// NewSession creates an idle session replay.
func NewSession(sess *session.Session) *Session {
	return &Session{sess: sess}
}

// Active reports whether a replay is in flight.
func (p *Session) Active() bool {
	return p.timer != nil
}

// Start replays a snapshot of the log. A replay already in flight is
// dropped and the new one starts from the first entry.
func (p *Session) Start() {
	p.stop()
	entries := p.sess.Entries()
	if len(entries) == 0 {
		p.sess.Record(activity.KindError, "No activity recorded yet!", activity.TagNone, nil)
		return
	}
	p.entries = entries
	p.generation = p.sess.Generation()
	p.index = 0
	p.sess.Record(activity.KindPlayback, "Playing your procrastination symphony!", activity.TagNone, nil)
	p.sess.Status.Set("Playing symphony...")
	p.timer = p.sess.Sched.AfterFunc(SessionPeriod, p.step)
}

// Cancel stops a replay in flight. It reports whether one was running.
func (p *Session) Cancel() bool {
	if !p.stop() {
		return false
	}
	p.sess.Record(activity.KindPlayback, "Symphony stopped", activity.TagNone, nil)
	p.sess.Status.Reset()
	p.done()
	return true
}

func (p *Session) step() {
	// A cleared log ends the replay without sounding the dropped entries.
	if p.sess.Generation() != p.generation {
		p.stop()
		p.done()
		return
	}
	if p.index >= len(p.entries) {
		p.timer = nil
		p.entries = nil
		p.sess.Record(activity.KindPlayback, "Symphony complete!", activity.TagNone, nil)
		p.sess.Status.Flash("Symphony complete!")
		p.done()
		return
	}
	if cue, ok := CueFor(p.entries[p.index]); ok {
		p.sess.Synth.Play(cue.Frequency, cue.Family, cue.Duration)
	}
	p.index++
	p.timer = p.sess.Sched.AfterFunc(SessionPeriod, p.step)
}

func (p *Session) stop() bool {
	if p.timer == nil {
		return false
	}
	p.timer.Stop()
	p.timer = nil
	p.entries = nil
	return true
}

func (p *Session) done() {
	if p.OnDone != nil {
		p.OnDone()
	}
}
