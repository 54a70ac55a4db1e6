// Package playback replays the activity log and songs.
package playback

import (
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/soundbank"
)

// Cue is the sound an entry produces on replay.
type Cue struct {
	Frequency float64
	Family    soundbank.Family
	Duration  time.Duration
}

// Replay durations are shorter than the live ones so a replay stays brisk.
const (
	replayPiano      = 500 * time.Millisecond
	replayGuitar     = 600 * time.Millisecond
	replayPercussion = 300 * time.Millisecond
	replayOther      = 300 * time.Millisecond
	replayClick      = 300 * time.Millisecond
	replayFlow       = 300 * time.Millisecond
	replayTab        = 400 * time.Millisecond
	replayScroll     = 200 * time.Millisecond
)

// CueFor derives an entry's replay sound from its kind and typed payload.
// Entries without a sound, or whose key no longer resolves, report false.
func CueFor(e activity.Entry) (Cue, bool) {
	switch e.Kind {
	case activity.KindPiano, activity.KindGuitar, activity.KindPercussion, activity.KindOther:
		n, ok := e.Payload.(activity.Note)
		if !ok {
			return Cue{}, false
		}
		entry, ok := soundbank.Lookup(n.Bank, n.Key)
		if !ok {
			return Cue{}, false
		}
		return Cue{Frequency: entry.Frequency, Family: entry.Family, Duration: noteDuration(n.Bank)}, true
	case activity.KindClick:
		return Cue{Frequency: soundbank.ClickFrequency, Family: soundbank.Piano, Duration: replayClick}, true
	case activity.KindMove:
		m, ok := e.Payload.(activity.Motion)
		if !ok {
			return Cue{}, false
		}
		return Cue{Frequency: soundbank.FlowFrequency(m.X, m.Width), Family: soundbank.Ambient, Duration: replayFlow}, true
	case activity.KindTab:
		f, ok := e.Payload.(activity.Focus)
		if !ok || f.Change == activity.FocusLeft {
			return Cue{}, false
		}
		return Cue{Frequency: soundbank.FocusFrequency, Family: soundbank.Piano, Duration: replayTab}, true
	case activity.KindScroll:
		s, ok := e.Payload.(activity.ScrollPos)
		if !ok {
			return Cue{}, false
		}
		return Cue{Frequency: soundbank.ScrollFrequency(s.Position), Family: soundbank.Piano, Duration: replayScroll}, true
	default:
		return Cue{}, false
	}
}

func noteDuration(b soundbank.Bank) time.Duration {
	switch b {
	case soundbank.BankPiano:
		return replayPiano
	case soundbank.BankGuitar:
		return replayGuitar
	case soundbank.BankSpecial:
		return replayPercussion
	default:
		return replayOther
	}
}
