// Package activity defines activity log entries.
package activity

import (
	"time"

	"github.com/verte-zerg/symphony/internal/soundbank"
)

// Kind identifies what produced a log entry.
type Kind string

const (
	KindSession    Kind = "Session"
	KindAudio      Kind = "Audio"
	KindPiano      Kind = "Piano"
	KindGuitar     Kind = "Guitar"
	KindPercussion Kind = "Percussion"
	KindOther      Kind = "Other"
	KindClick      Kind = "Mouse Click"
	KindMove       Kind = "Mouse Movement"
	KindScroll     Kind = "Scroll"
	KindTab        Kind = "Tab Switch"
	KindPlayback   Kind = "Playback"
	KindSong       Kind = "Song"
	KindError      Kind = "Error"
	KindGuide      Kind = "Guide"
)

// KindForBank returns the keystroke kind for a resolved bank.
func KindForBank(b soundbank.Bank) Kind {
	switch b {
	case soundbank.BankPiano:
		return KindPiano
	case soundbank.BankGuitar:
		return KindGuitar
	case soundbank.BankSpecial:
		return KindPercussion
	default:
		return KindOther
	}
}

// Instrument tags attached to entries.
const (
	TagNone       = ""
	TagPiano      = "piano"
	TagGuitar     = "guitar"
	TagPercussion = "percussion"
	TagOther      = "other"
	TagEffects    = "effects"
	TagMouseMove  = "mouse-move"
)

// Entry is one immutable log record.
type Entry struct {
	WallClock   time.Time
	MonotonicMs int64
	Kind        Kind
	Details     string
	Tag         string
	Payload     Payload
}

// Payload carries the typed parameters needed to re-create an entry's sound.
// The concrete types are Note, Point, Motion, ScrollPos and Focus.
type Payload interface {
	payload()
}

// Note is a keystroke resolved against a bank.
type Note struct {
	Bank soundbank.Bank
	Key  string
}

// Point is a click position.
type Point struct {
	X, Y int
}

// Motion is a cursor position together with the viewport width it was measured in.
type Motion struct {
	X, Y  int
	Width int
}

// ScrollPos is a settled scroll offset.
type ScrollPos struct {
	Position int
}

// FocusChange says how focus moved.
type FocusChange int

const (
	FocusReturned FocusChange = iota
	FocusLeft
	FocusVisible
)

// Focus records a focus transition.
type Focus struct {
	Change FocusChange
}

func (Note) payload()      {}
func (Point) payload()     {}
func (Motion) payload()    {}
func (ScrollPos) payload() {}
func (Focus) payload()     {}

// Clock formats the wall-clock time shown next to an entry.
func (e Entry) Clock() string {
	return e.WallClock.Format("15:04:05")
}
