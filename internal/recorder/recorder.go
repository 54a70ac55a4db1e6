// Package recorder turns live input into notes and log entries.
package recorder

import (
	"fmt"
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/sched"
	"github.com/verte-zerg/symphony/internal/session"
	"github.com/verte-zerg/symphony/internal/soundbank"
)

const (
	initialTempo = 120.0
	maxTempo     = 180.0
	tempoStep    = 0.5

	moveThrottle   = 200 * time.Millisecond
	scrollDebounce = 150 * time.Millisecond
	guideDelay     = 3 * time.Second

	clickDur  = 400 * time.Millisecond
	focusDur  = 500 * time.Millisecond
	flowDur   = 400 * time.Millisecond
	scrollDur = 200 * time.Millisecond
	chordDur  = 300 * time.Millisecond
)

// Instruments reported in the used-instruments set besides bank tags.
const (
	InstrumentEffects = "effects"
	InstrumentFlow    = "flowing-melody"
)

// ClearedBanner is shown in place of the log after Clear.
const ClearedBanner = "Session cleared. Ready for a new symphony!"

var welcomeChord = []struct {
	key   string
	delay time.Duration
}{
	{"q", 200 * time.Millisecond},
	{"e", 300 * time.Millisecond},
	{"t", 400 * time.Millisecond},
}

// Stats are the running session counters.
type Stats struct {
	TabSwitches    int
	Keystrokes     int
	MouseClicks    int
	MouseMovements int
	Tempo          float64
}

func initialStats() Stats {
	return Stats{Tempo: initialTempo}
}

// Options tunes optional recorder behaviour.
type Options struct {
	// MouseFlow enables the mouse-movement melody.
	MouseFlow bool
	// Location names the host in focus entries.
	Location string
}

// Recorder is the armed/disarmed state machine.
type Recorder struct {
	sess *session.Session
	opts Options

	armed       bool
	stats       Stats
	instruments map[string]struct{}

	width int

	lastMove  time.Time
	moved     bool
	scrollTmr sched.Timer
}

// New creates a disarmed recorder.
func New(sess *session.Session, opts Options) *Recorder {
	if opts.Location == "" {
		opts.Location = "terminal"
	}
	return &Recorder{
		sess:        sess,
		opts:        opts,
		stats:       initialStats(),
		instruments: map[string]struct{}{},
	}
}

// Armed reports whether input is being recorded.
func (r *Recorder) Armed() bool {
	return r.armed
}

// Stats returns a copy of the counters.
func (r *Recorder) Stats() Stats {
	return r.stats
}

// Instruments returns how many distinct instruments were used this session.
func (r *Recorder) Instruments() int {
	return len(r.instruments)
}

// UsedInstrument reports whether name is in the used set.
func (r *Recorder) UsedInstrument(name string) bool {
	_, ok := r.instruments[name]
	return ok
}

// SetViewportWidth sets the width used to place mouse positions on the scale.
func (r *Recorder) SetViewportWidth(width int) {
	r.width = width
}

// Start arms the recorder and plays the welcome chord.
func (r *Recorder) Start() {
	r.sess.InitAudio()
	if r.armed {
		return
	}
	r.armed = true
	r.sess.Record(activity.KindSession, "Recording started!", activity.TagNone, nil)
	r.sess.Status.Set("Recording... Play some keys!")
	for _, n := range welcomeChord {
		entry, _ := soundbank.LookupPiano(n.key)
		r.sess.Sched.AfterFunc(n.delay, func() {
			r.sess.Synth.Play(entry.Frequency, soundbank.Piano, chordDur)
		})
	}
}

// Pause disarms the recorder.
func (r *Recorder) Pause() {
	if !r.armed {
		return
	}
	r.armed = false
	r.cancelScroll()
	r.sess.Record(activity.KindSession, "Recording paused", activity.TagNone, nil)
	r.sess.Status.Set("Recording paused")
}

// Clear empties the log and resets counters. The armed state is kept.
func (r *Recorder) Clear() {
	r.cancelScroll()
	r.stats = initialStats()
	r.instruments = map[string]struct{}{}
	r.moved = false
	r.sess.Clear(ClearedBanner)
	r.sess.Status.Reset()
}

// Greet adds a usage hint if nothing was recorded shortly after launch.
func (r *Recorder) Greet() {
	r.sess.Sched.AfterFunc(guideDelay, func() {
		if r.sess.Empty() {
			r.sess.Record(activity.KindGuide, "Try Q-W-E-R-T-Y for piano notes, 1-2-3-4-5-6 for guitar strings, or a song from the list!", activity.TagNone, nil)
		}
	})
}

// KeyPress handles one keystroke.
func (r *Recorder) KeyPress(key string) {
	if !r.armed || key == "" {
		return
	}
	r.stats.Keystrokes++
	entry := soundbank.Resolve(key)
	dur := time.Duration(0)
	if entry.Bank == soundbank.BankFallback {
		dur = 400 * time.Millisecond
	}
	r.sess.Synth.Play(entry.Frequency, entry.Family, dur)

	details := keyDetails(entry, key)
	tag := entry.Bank.Tag()
	symbol := entry.Symbol
	if entry.Bank == soundbank.BankFallback {
		symbol = key
	}
	r.sess.Record(activity.KindForBank(entry.Bank), details, tag, activity.Note{Bank: entry.Bank, Key: symbol})
	if entry.Bank != soundbank.BankFallback {
		r.instruments[tag] = struct{}{}
	}
	r.sess.Status.Flash(details)

	r.stats.Tempo += tempoStep
	if r.stats.Tempo > maxTempo {
		r.stats.Tempo = maxTempo
	}
}

func keyDetails(e soundbank.Entry, key string) string {
	switch e.Bank {
	case soundbank.BankGuitar:
		return fmt.Sprintf("%s String (%s)", e.Label, soundbank.DisplayKey(key))
	default:
		return fmt.Sprintf("%s (%s)", e.Label, soundbank.DisplayKey(key))
	}
}

// Click handles a mouse click.
func (r *Recorder) Click(x, y int) {
	if !r.armed {
		return
	}
	r.stats.MouseClicks++
	r.sess.Synth.Play(soundbank.ClickFrequency, soundbank.Piano, clickDur)
	details := fmt.Sprintf("Click at (%d, %d)", x, y)
	r.sess.Record(activity.KindClick, details, activity.TagEffects, activity.Point{X: x, Y: y})
	r.instruments[InstrumentEffects] = struct{}{}
	r.sess.Status.Flash(details)
}

// MouseMove handles cursor motion, at most once per throttle window.
func (r *Recorder) MouseMove(x, y int) {
	if !r.armed || !r.opts.MouseFlow {
		return
	}
	now := r.sess.Now()
	if r.moved && now.Sub(r.lastMove) < moveThrottle {
		return
	}
	r.moved = true
	r.lastMove = now
	r.stats.MouseMovements++

	freq := soundbank.FlowFrequency(x, r.width)
	r.sess.Synth.Play(freq, soundbank.Ambient, flowDur)
	r.sess.Record(activity.KindMove, fmt.Sprintf("%d,%d", x, y), activity.TagMouseMove, activity.Motion{X: x, Y: y, Width: r.width})
	r.instruments[InstrumentFlow] = struct{}{}
}

// Scroll restarts the debounce timer; the note sounds once scrolling settles.
func (r *Recorder) Scroll(position int) {
	if !r.armed {
		return
	}
	r.cancelScroll()
	r.scrollTmr = r.sess.Sched.AfterFunc(scrollDebounce, func() {
		r.scrollTmr = nil
		r.sess.Synth.Play(soundbank.ScrollFrequency(position), soundbank.Piano, scrollDur)
		details := fmt.Sprintf("Position: %d", position)
		r.sess.Record(activity.KindScroll, details, activity.TagNone, activity.ScrollPos{Position: position})
		r.sess.Status.Flash(details)
	})
}

func (r *Recorder) cancelScroll() {
	if r.scrollTmr != nil {
		r.scrollTmr.Stop()
		r.scrollTmr = nil
	}
}

// FocusGained handles the window regaining focus.
func (r *Recorder) FocusGained() {
	r.focusReturn(activity.FocusReturned, "Returned to")
}

// VisibilityRestored handles the program becoming visible again.
func (r *Recorder) VisibilityRestored() {
	r.focusReturn(activity.FocusVisible, "Visible")
}

func (r *Recorder) focusReturn(change activity.FocusChange, verb string) {
	if !r.armed {
		return
	}
	r.stats.TabSwitches++
	r.sess.Synth.Play(soundbank.FocusFrequency, soundbank.Piano, focusDur)
	details := fmt.Sprintf("%s: %s", verb, r.opts.Location)
	r.sess.Record(activity.KindTab, details, activity.TagNone, activity.Focus{Change: change})
	r.sess.Status.Flash(details)
}

// FocusLost logs leaving; it makes no sound and changes no counter.
func (r *Recorder) FocusLost() {
	if !r.armed {
		return
	}
	r.sess.Record(activity.KindTab, fmt.Sprintf("Left: %s", r.opts.Location), activity.TagNone, activity.Focus{Change: activity.FocusLeft})
}
