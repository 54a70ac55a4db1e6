package playback

import (
	"fmt"
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/sched"
	"github.com/verte-zerg/symphony/internal/session"
	"github.com/verte-zerg/symphony/internal/soundbank"
)

const (
	// SongPeriod is the spacing between song notes.
	SongPeriod = 600 * time.Millisecond
	songNote   = 600 * time.Millisecond
)

// Song plays an ordered sequence of piano keys. Notes are not logged;
// only the start and finish banners are.
type Song struct {
	sess *session.Session

	// OnDone, if set, runs when a song finishes or is cancelled.
	OnDone func()

	name  string
	keys  []string
	index int
	timer sched.Timer
}

// NewSong creates an idle song player.
func NewSong(sess *session.Session) *Song {
	return &Song{sess: sess}
}

// Active reports whether a song is playing.
func (p *Song) Active() bool {
	return p.timer != nil
}

// Name returns the song in flight, or "".
func (p *Song) Name() string {
	if p.timer == nil {
		return ""
	}
	return p.name
}

// Play starts keys under name, replacing any song already playing.
func (p *Song) Play(keys []string, name string) {
	p.stop()
	p.keys = append([]string(nil), keys...)
	p.name = name
	p.index = 0
	p.sess.InitAudio()
	p.sess.Record(activity.KindSong, fmt.Sprintf("Playing %q", name), activity.TagNone, nil)
	p.sess.Status.Set("Playing: " + name)
	p.timer = p.sess.Sched.AfterFunc(SongPeriod, p.step)
}

// Cancel stops the song in flight. It reports whether one was playing.
func (p *Song) Cancel() bool {
	name := p.name
	if !p.stop() {
		return false
	}
	p.sess.Record(activity.KindSong, fmt.Sprintf("Stopped %q", name), activity.TagNone, nil)
	p.sess.Status.Reset()
	p.done()
	return true
}

func (p *Song) step() {
	if p.index >= len(p.keys) {
		p.timer = nil
		p.keys = nil
		p.sess.Record(activity.KindSong, fmt.Sprintf("Finished %q", p.name), activity.TagNone, nil)
		p.sess.Status.Flash("Finished: " + p.name)
		p.done()
		return
	}
	// Keys outside the piano bank are skipped but still take their slot.
	if entry, ok := soundbank.LookupPiano(p.keys[p.index]); ok {
		p.sess.Synth.Play(entry.Frequency, soundbank.Piano, songNote)
		p.sess.Status.Set(fmt.Sprintf("%s: %s", p.name, entry.Label))
	}
	p.index++
	p.timer = p.sess.Sched.AfterFunc(SongPeriod, p.step)
}

func (p *Song) stop() bool {
	if p.timer == nil {
		return false
	}
	p.timer.Stop()
	p.timer = nil
	p.keys = nil
	return true
}

func (p *Song) done() {
	if p.OnDone != nil {
		p.OnDone()
	}
}
